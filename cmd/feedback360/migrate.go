package main

import (
	"feedback360-go/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			conn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				log.Critical("migrate: connect failed", "err", err)
				return err
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			applied, err := db.Migrate(cmd.Context(), conn)
			if err != nil {
				log.Critical("migrate: failed", "err", err)
				return err
			}
			if len(applied) == 0 {
				log.Info("migrate: schema is up to date")
				return nil
			}
			for _, name := range applied {
				log.Info("migrate: applied", "migration", name)
			}
			return nil
		},
	}
}
