package cli

import (
	"review-service/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the review schema if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		if err := repository.Migrate(cfg.Database.Type, cfg.Database.Path, logger); err != nil {
			logger.Error("Migration failed", zap.Error(err))
			return err
		}
		return nil
	},
}
