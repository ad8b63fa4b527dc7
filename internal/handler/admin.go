package handler

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"review-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminHandler serves health and metrics on the admin listener
type AdminHandler struct {
	db     Pinger
	logger *zap.Logger
}

func NewAdminHandler(db Pinger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/openapi.yaml", h.OpenAPI)
}

// OpenAPI serves the document describing the public review API
func (h *AdminHandler) OpenAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openAPIDocument)
}

// HealthCheck returns service health
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "review-service",
	})
}
