package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	sqliteadapter "github.com/ericfisherdev/safehub/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/safehub/internal/adapter/driven/webhook"
	httphandler "github.com/ericfisherdev/safehub/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/safehub/internal/adapter/driving/web"
	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/config"
	"github.com/ericfisherdev/safehub/internal/domain/lock"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on an invalid default code).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"event_retention", cfg.EventRetention,
		"alarm_webhook", cfg.HasAlarmWebhook(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	safeStore := sqliteadapter.NewSafeRepo(db)
	eventStore := sqliteadapter.NewPanelEventRepo(db)

	var notifier driven.AlarmNotifier
	if cfg.HasAlarmWebhook() {
		notifier = webhook.NewNotifier(cfg.AlarmWebhookURL)
		slog.Info("alarm webhook enabled")
	}

	// 6. Create the panel service and bring up a controller per safe.
	policy := lock.Policy{
		KeyCancelsSetting:        cfg.KeyCancelsSetting,
		LockAbortsEntry:          cfg.LockAbortsEntry,
		PinChangeRestartsSetting: cfg.PinChangeRestartsSetting,
	}
	panelSvc, err := application.NewPanelService(safeStore, eventStore, notifier, cfg.DefaultCode, policy, slog.Default())
	if err != nil {
		return err
	}
	if err := panelSvc.LoadSafes(ctx); err != nil {
		return err
	}

	// 6b. Create the audit service and start periodic event purging.
	auditSvc := application.NewAuditService(eventStore, cfg.LeftOpenAfter)
	go purgeLoop(ctx, auditSvc, cfg.EventRetention)

	// 7. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(panelSvc, auditSvc, safeStore, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7b. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(safeStore, panelSvc, auditSvc, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("safehub started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// purgeLoop deletes audit events older than the retention window once an
// hour until ctx is canceled.
func purgeLoop(ctx context.Context, auditSvc *application.AuditService, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	auditSvc.PurgeOldEvents(ctx, retention)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			auditSvc.PurgeOldEvents(ctx, retention)
		}
	}
}
