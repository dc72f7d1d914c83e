package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pribylovaa/reddit-threads/internal/config"
	"github.com/pribylovaa/reddit-threads/internal/metrics"
	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
)

// Константы окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// app — общее состояние команды: конфиг, логгер и метрики прогона.
type app struct {
	configPath string

	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	runID   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	cancel()

	if err != nil {
		l := a.log
		if l == nil {
			l = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}
		l.Error("command_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "threads",
		Short:         "Reconstruct Reddit comment threads from monthly dumps",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")

	root.AddCommand(
		newReconstructCmd(a),
		newCorpusCmd(a),
		newViewCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)

	return root
}

// init загружает конфиг и настраивает логгер. Логгер с run_id кладётся
// в контекст команды, откуда его достают слои сервиса.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.log = setupLogger(cfg.Env).With(slog.String("run_id", a.runID))
	a.metrics = metrics.New()
	slog.SetDefault(a.log)

	ctx := log.Into(cmd.Context(), a.log)
	cmd.SetContext(log.With(ctx, slog.String("command", cmd.Name())))

	a.log.Debug("config_loaded",
		slog.String("env", cfg.Env),
		slog.String("command", cmd.Name()),
		slog.String("sink", cfg.Sink.Kind),
	)

	return nil
}

// setupLogger пишет в stderr: stdout остаётся за выводом команды view.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
