package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"review-service/internal/config"
	"review-service/internal/handler"
	"review-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	api    *http.Server
	admin  *http.Server
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer builds the public API listener and, when configured, the
// admin listener for health checks and metrics.
func NewServer(cfg *config.Config, reviews handler.ReviewService, db handler.Pinger, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		api: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Server.Port),
			Handler:           NewRouter(reviews, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.Admin.Address != "" {
		s.admin = &http.Server{
			Addr:              cfg.Admin.Address,
			Handler:           NewAdminRouter(db, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return s
}

// NewRouter returns the public router serving the review endpoints
func NewRouter(reviews handler.ReviewService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.Recovery(logger),
		middleware.CORS(),
	)

	handler.NewHandler(reviews, logger).RegisterRoutes(router)
	return router
}

// NewAdminRouter returns the router for /healthz and /metrics
func NewAdminRouter(db handler.Pinger, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))

	handler.NewAdminHandler(db, logger).RegisterRoutes(router)
	return router
}

// Run serves until ctx is cancelled or a listener fails, then shuts both
// listeners down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	s.listen(s.api, "api", errCh)
	if s.admin != nil {
		s.listen(s.admin, "admin", errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.api.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("api shutdown: %w", err))
	}
	if s.admin != nil {
		if err := s.admin.Shutdown(shutdownCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("admin shutdown: %w", err))
		}
	}

	s.logger.Info("Server exited")
	return runErr
}

func (s *Server) listen(srv *http.Server, name string, errCh chan<- error) {
	s.logger.Info("Server starting", zap.String("listener", name), zap.String("address", srv.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s listener: %w", name, err)
		}
	}()
}
