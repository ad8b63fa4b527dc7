package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"review-service/internal/config"
	"review-service/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "review-service",
	Short: "Review sentiment HTTP service",
	Long:  "review-service stores short text reviews, labels each as positive, negative or neutral, and lists them over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal outside local development
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print review-service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "review-service version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

// Run executes the root command and returns the process exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// bootstrap loads the config and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
