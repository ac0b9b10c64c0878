package main

import (
	"feedback360-go/internal/config"
	"feedback360-go/pkg/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "feedback360",
		Short:         "360-degree feedback relationship and scoring service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newCacheCmd())
	return cmd
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (config.Config, logger.Logger, error) {
	log := logger.NewFromEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Critical("app: load config failed", "err", err)
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
