package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"resolveit/internal/api"
	"resolveit/internal/config"
	"resolveit/internal/health"
	"resolveit/internal/session"
	"resolveit/internal/storage"
	"resolveit/internal/telegram"
	"resolveit/internal/watch"
)

// WatchCmd returns the watch daemon command.
func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the complaint watch daemon",
		Long: `Run the complaint watch daemon.

The daemon logs in with RESOLVEIT_EMAIL / RESOLVEIT_PASSWORD, polls the
backend every POLL_INTERVAL, and pushes Telegram notifications for new
complaints and status changes. A health endpoint is served on
HEALTH_CHECK_PORT. Stops cleanly on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Println("🚀 Starting ResolveIT Complaint Watcher")
			log.Println("═══════════════════════════════════════════════════════════")

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			sessionPath := cfg.SessionFile
			if sessionPath == "" {
				sessionPath, err = session.DefaultPath()
				if err != nil {
					return err
				}
			}
			store := session.NewStore(sessionPath)
			client := api.New(cfg.BaseURL, store)

			state := storage.New(cfg.StateFile)
			tg := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.DebugMode)

			monitor := health.NewMonitor()
			health.StartServer(monitor, cfg.HealthCheckPort)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = watch.New(cfg, client, state, tg, monitor).Run(ctx)
			if errors.Is(err, context.Canceled) {
				log.Println("👋 Shutdown complete")
				return nil
			}
			return err
		},
	}
}
