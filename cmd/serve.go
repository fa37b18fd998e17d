package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/server"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio",
	Long: `serve starts the HTTP server. Each visitor gets a page whose content is
fetched from the content API once, on first load.

When templates_dir is set the templates are read from disk and reloaded
whenever they change.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(appConfig)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on")
	serveCmd.Flags().String("api-base-url", "", "base URL of the content API")
	serveCmd.Flags().String("templates-dir", "", "serve templates from this directory and reload on change")
	serveCmd.Flags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := content.NewClient(cfg.APIBaseURL,
		content.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		content.WithPolicy(cfg.Policy()))

	renderer, err := newRenderer(ctx, cfg, logging.Component(logger, "web"))
	if err != nil {
		return err
	}

	opts := server.Options{
		Version:     version,
		Port:        cfg.Port,
		OwnerName:   cfg.OwnerName,
		AdminToken:  cfg.AdminToken,
		SessionTTL:  cfg.SessionTTL,
		StatusReset: cfg.StatusReset,
		MountWait:   cfg.RequestTimeout,
		Renderer:    renderer,
		Static:      web.Static(),
		Fetcher:     content.NewCachedFetcher(client, cfg.SnapshotTTL),
		Sender:      client,
		Logger:      logging.Component(logger, "server"),
	}

	if cfg.DatabasePath != "" {
		db, err := store.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing database", "error", err)
			}
		}()
		opts.Tracker = db
	}

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.NotifyEmail)
	if mailer.Enabled() {
		opts.Notifier = mailer
	} else {
		logger.Info("SMTP credentials not set, contact notifications disabled")
	}

	srv := server.New(opts)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}
	return nil
}

func newRenderer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*web.Renderer, error) {
	if cfg.TemplatesDir == "" {
		return web.NewRenderer(logger)
	}
	renderer, err := web.NewDirRenderer(cfg.TemplatesDir, logger)
	if err != nil {
		return nil, err
	}
	if err := renderer.Watch(ctx, cfg.TemplatesDir); err != nil {
		return nil, err
	}
	logger.Info("Watching templates", "dir", cfg.TemplatesDir)
	return renderer, nil
}
