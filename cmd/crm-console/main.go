package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crm-console/internal/adapters/api"
	"crm-console/internal/adapters/clock"
	"crm-console/internal/adapters/storage/tokenfile"
	"crm-console/internal/app/chat"
	"crm-console/internal/app/dashboard"
	"crm-console/internal/app/notifications"
	"crm-console/internal/app/poll"
	"crm-console/internal/app/records"
	"crm-console/internal/app/reports"
	"crm-console/internal/app/session"
	"crm-console/internal/app/settings"
	"crm-console/internal/config"
	"crm-console/internal/observability"
	"crm-console/internal/state"
	"crm-console/internal/ui"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		baseURL string
		logFile string
	)

	cmd := &cobra.Command{
		Use:           "crm-console",
		Short:         "Terminal client for the CRM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			} else {
				_ = godotenv.Load()
			}

			cfg := config.Load()
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides CRM_BASE_URL)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file path (overrides CRM_LOG_FILE)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := observability.SetupFile(cfg.LogFile); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	log := observability.Logger()
	log.WithField("base_url", cfg.BaseURL).Info("starting")

	tokens, err := tokenfile.New(cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	client := api.NewClient(cfg.BaseURL, tokens)

	prefs, err := settings.NewPrefStore(cfg.PrefsFile)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}

	store := state.NewStore()
	clk := clock.NewSystem()

	// The app is built after the services, so callbacks that need it go
	// through this pointer.
	var app *ui.App

	svc := ui.Services{
		Session: session.NewService(client, tokens, store),
		Chat:    chat.NewService(client, store, clk, cfg.ChatPollInterval),
		Dashboard: dashboard.NewService(client, clk, cfg.DashboardRefreshInterval, func(data *dashboard.Data) {
			if app != nil {
				app.DashboardRefresh(data)
			}
		}),
		Notifications: notifications.NewService(client),
		Customers:     records.NewCustomers(client, store, cfg.PerPage),
		Products:      records.NewProducts(client, store, cfg.PerPage),
		Orders:        records.NewOrders(client, store, cfg.PerPage),
		Tasks:         records.NewTasks(client, store),
		Users:         records.NewUsers(client),
		Reports:       reports.NewService(client, clk, cfg.DownloadDir),
		Settings:      settings.NewService(client, prefs),

		Clock:          clk,
		SearchDebounce: cfg.SearchDebounce,
	}

	// Navbar badge poller: a fixed-interval unread-count fetch that runs
	// for the whole signed-in session.
	badge := poll.NewRunner(clk, cfg.BadgePollInterval, func(ctx context.Context) {
		count, err := svc.Notifications.BadgeCount(ctx)
		if err != nil {
			observability.LoggerFromContext(ctx).WithError(err).Warn("badge refresh failed")
			return
		}
		if app != nil {
			app.SetBadge(count)
		}
	})
	svc.BadgeStart = badge.Start
	svc.BadgeStop = badge.Stop

	app = ui.New(store, svc)
	client.SetUnauthorizedHook(app.UnauthorizedHook())

	if err := prefs.Watch(func(p settings.Preferences) {
		app.PreferencesChanged(p)
	}); err != nil {
		log.WithError(err).Warn("preferences watch unavailable")
	}
	defer prefs.Close()

	defer log.Info("stopped")
	return app.Run(ctx)
}
