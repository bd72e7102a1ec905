package main

import (
	"errors"
	"os"

	"example.com/digitduel/internal/app"
	"example.com/digitduel/internal/config"
	"example.com/digitduel/internal/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errors.New("DATABASE_URL is empty")
			}
			return migrate.Up(cfg.Postgres.URL, app.NewLogger(cfg, os.Stdout))
		},
	}
}
