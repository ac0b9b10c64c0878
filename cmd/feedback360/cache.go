package main

import (
	"errors"

	emailingdomain "feedback360-go/internal/domain/emailing"
	redisrepo "feedback360-go/internal/repository/redis"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared emailing-list cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every tenant's cached emailing list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != "redis" {
				return errors.New("cache clear needs EMAILING_CACHE_BACKEND=redis; the memory cache lives inside the server process")
			}

			client, err := redisrepo.NewClient(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()

			cache := redisrepo.NewEmailingCache(client, cfg.Redis.Prefix, cfg.Cache.SlidingTTL, cfg.Cache.AbsoluteTTL)
			if err := emailingdomain.NewService(nil, cache, log).Clear(cmd.Context()); err != nil {
				log.Critical("cache: clear failed", "err", err)
				return err
			}
			log.Info("cache: cleared")
			return nil
		},
	})
	return cmd
}
