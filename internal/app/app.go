package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/rokartur/xcstrings-editor-sub000/internal/catalog"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
	"github.com/rokartur/xcstrings-editor-sub000/internal/service/workspace"
	"github.com/rokartur/xcstrings-editor-sub000/internal/store"
	"github.com/rokartur/xcstrings-editor-sub000/internal/telemetry"
)

// Run is the application entry point. It loads configuration, opens the
// configured storage, serves the catalog API and, on SIGINT or SIGTERM,
// drains requests and flushes every open catalog before returning.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, logCloser := NewLogger(cfg.Log)
	defer logCloser.Close() //nolint:errcheck

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("auth", cfg.Auth.Enabled()),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	metrics := telemetry.New()

	storage, closeStorage, err := openStorage(ctx, cfg.Storage, clock, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()

	catalogs := store.New(logger, storage, clock)
	catalogs.SetMetrics(metrics)

	collation, err := cfg.Editor.CollationTag()
	if err != nil {
		return fmt.Errorf("editor collation: %w", err)
	}
	scheduler := catalog.NewScheduler(logger, clock, cfg.Editor.Debounce, cfg.Editor.IdleDelay)
	ws := workspace.NewService(logger, catalogs, scheduler, catalog.NewParser(collation))
	ws.SetMetrics(metrics)

	handler, stopMiddleware := newHTTPHandler(cfg, logger, ws, catalogs, metrics, clock)
	defer stopMiddleware()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// Requests are drained; write out whatever edits are still pending.
		ws.Close()
		scheduler.Stop()

		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
