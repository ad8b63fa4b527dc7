package cli

import (
	"os"
	"os/signal"
	"syscall"

	"review-service/internal/repository"
	"review-service/internal/server"
	"review-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Create the schema if needed and serve the review API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting review service...", zap.String("version", version))

	// Schema must exist before the first request is served
	if err := repository.Migrate(cfg.Database.Type, cfg.Database.Path, logger); err != nil {
		logger.Error("Failed to initialize database schema", zap.Error(err))
		return err
	}

	db, err := repository.Connect(cfg.Database.Type, cfg.Database.Path, logger)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	repo := repository.NewReviewRepository(db, logger)
	defer repo.Close()

	reviewer := service.NewReviewer(repo, clockwork.NewRealClock(), logger)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewServer(cfg, reviewer, repo, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
