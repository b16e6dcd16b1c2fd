package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taxipark/pkg/logger"
	"taxipark/storage/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.Migrate(cfg, log, true)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.Migrate(cfg, log, false)
			},
		},
	)
	return cmd
}

func resetDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-db",
		Short: "Delete all fleet data and sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			pg, err := postgres.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.Truncate(ctx); err != nil {
				return err
			}
			log.Info("Successfully truncated fleet tables", logger.String("db", cfg.PostgresDB))
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
}
