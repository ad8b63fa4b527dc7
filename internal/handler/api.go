package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"review-service/internal/apperrors"
	"review-service/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewService is the business logic behind the review endpoints
type ReviewService interface {
	CreateReview(ctx context.Context, text string) (*models.Review, error)
	ListReviews(ctx context.Context, filter string) ([]models.Review, error)
}

// Handler handles HTTP requests
type Handler struct {
	reviews ReviewService
	logger  *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(reviews ReviewService, logger *zap.Logger) *Handler {
	return &Handler{
		reviews: reviews,
		logger:  logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/reviews", h.CreateReview)
	r.GET("/reviews", h.ListReviews)
}

// CreateReview handles POST /reviews
func (h *Handler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Rejected review payload", zap.Error(err))
		h.respondError(c, apperrors.ValidationError("review text is required"))
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews handles GET /reviews?sentiment=
func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.ListReviews(c.Request.Context(), c.Query("sentiment"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// respondError is the single place where errors become HTTP responses.
// Anything outside the typed set is reported as an internal error.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.InternalError("unexpected failure", err)
		err = appErr
	}
	_ = c.Error(err)

	status := apperrors.HTTPStatus(err)
	if status == http.StatusBadRequest {
		c.JSON(status, models.ErrorResponse{Message: appErr.Message})
		return
	}

	h.logger.Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("error_type", string(appErr.Type)),
		zap.Error(err))
	c.JSON(status, models.ErrorResponse{Message: fmt.Sprintf("internal server error: %v", err)})
}
