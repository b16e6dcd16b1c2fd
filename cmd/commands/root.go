package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/notify"
	"taxipark/service"
	"taxipark/storage"
	"taxipark/storage/postgres"
)

var (
	cfg config.Config
	log logger.ILogger
)

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && log != nil {
		log.Error("command failed", logger.Error(err))
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taxipark",
		Short:         "Taxi fleet management web service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			log = logger.New(cfg.ServiceName, cfg.LoggerLevel)
			return nil
		},
	}

	root.AddCommand(serveCmd(), migrateCmd(), resetDBCmd(), createDriverCmd())
	return root
}

// openServices connects Postgres and builds the service layer on top of it.
func openServices(ctx context.Context) (storage.IStorage, service.IServiceManager, error) {
	pgStore, err := postgres.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	notifier, err := notify.New(cfg, log)
	if err != nil {
		pgStore.Close()
		return nil, nil, fmt.Errorf("telegram notifier: %w", err)
	}

	return pgStore, service.New(cfg, pgStore, notifier, log), nil
}
