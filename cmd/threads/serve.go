package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/cache"
	"github.com/pribylovaa/reddit-threads/internal/pkg/redact"
	"github.com/pribylovaa/reddit-threads/internal/service"
	"github.com/pribylovaa/reddit-threads/internal/storage"
	httpapi "github.com/pribylovaa/reddit-threads/internal/transport/http"
	"github.com/pribylovaa/reddit-threads/internal/transport/http/handlers"
)

// requestTimeout — общий дедлайн HTTP-запроса.
const requestTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var threadsPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reconstructed threads over HTTP",
		Long: "Serves threads from a JSONL file (--threads) or from the database " +
			"selected by sink.kind.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), threadsPath)
		},
	}

	cmd.Flags().StringVar(&threadsPath, "threads", "", "reconstructed threads JSONL file")

	return cmd
}

func (a *app) serve(ctx context.Context, threadsPath string) error {
	finder, err := a.openFinder(ctx, threadsPath)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Timeouts.Shutdown)
		defer cancel()
		_ = finder.Close(closeCtx)
	}()

	var lookup storage.ThreadFinder = finder
	if a.cfg.Cache.RedisURL != "" {
		connCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeouts.Connect)
		rc, err := cache.NewRedisCache(connCtx, a.cfg.Cache.RedisURL, a.cfg.Cache.Prefix)
		cancel()
		if err != nil {
			return err
		}
		defer rc.Close()

		a.log.Info("redis_connected", slog.String("url", redact.URL(a.cfg.Cache.RedisURL)))
		lookup = cache.NewFinder(finder, rc, a.cfg.Cache.TTL)
	}

	svc := service.New(nil, *a.cfg, a.metrics)
	router := httpapi.NewRouter(handlers.New(svc, lookup), httpapi.Options{
		Logger:  a.log,
		Metrics: a.metrics,
		Timeout: requestTimeout,
	})

	addr := a.cfg.HTTP.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		a.log.Info("http_listen_start", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Timeouts.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = srv.Close()
	}

	a.log.Info("http_stopped")
	return nil
}
