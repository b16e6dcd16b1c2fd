package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"taxipark/pkg/api"
	"taxipark/pkg/logger"
	"taxipark/service"
)

const sessionPurgeInterval = time.Hour

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pgStore, svc, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer pgStore.Close()

			go purgeSessions(ctx, svc, sessionPurgeInterval)

			if err := api.RunServer(ctx, cfg, svc, log); err != nil {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
}

func purgeSessions(ctx context.Context, svc service.IServiceManager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Auth().PurgeExpired(ctx); err != nil {
				log.Warning("failed to purge sessions", logger.Error(err))
			}
		}
	}
}
