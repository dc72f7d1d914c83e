package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/pribylovaa/reddit-threads/internal/config"
	"github.com/pribylovaa/reddit-threads/internal/pkg/redact"
	"github.com/pribylovaa/reddit-threads/internal/storage"
	"github.com/pribylovaa/reddit-threads/internal/storage/jsonl"
	"github.com/pribylovaa/reddit-threads/internal/storage/minio"
	"github.com/pribylovaa/reddit-threads/internal/storage/mongo"
	"github.com/pribylovaa/reddit-threads/internal/storage/postgres"
)

// openSink открывает приёмник веток по sink.kind. Для jsonl нужен output.
func (a *app) openSink(ctx context.Context, output string) (storage.ThreadSink, error) {
	switch a.cfg.Sink.Kind {
	case config.SinkMongo:
		connCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeouts.Connect)
		defer cancel()

		m, err := mongo.New(connCtx, a.cfg)
		if err != nil {
			return nil, err
		}
		a.log.Info("mongo_connected", slog.String("url", redact.URL(a.cfg.Mongo.URL)))
		return m, nil

	case config.SinkPostgres:
		connCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeouts.Connect)
		defer cancel()

		pg, err := postgres.New(connCtx, a.cfg.Postgres.URL, a.cfg.Sink.Replace)
		if err != nil {
			return nil, err
		}
		a.log.Info("postgres_connected", slog.String("url", redact.URL(a.cfg.Postgres.URL)))
		return pg, nil

	default:
		if output == "" {
			return nil, fmt.Errorf("output path is required for sink.kind=%s", config.SinkJSONL)
		}

		w, err := jsonl.Create(output)
		if err != nil {
			return nil, err
		}
		a.log.Info("jsonl_opened", slog.String("path", output))
		return w, nil
	}
}

// finderCloser — хранилище, из которого serve читает ветки.
type finderCloser interface {
	storage.ThreadFinder
	Close(ctx context.Context) error
}

// jsonlFinder добавляет к jsonl.Reader пустой Close.
type jsonlFinder struct {
	*jsonl.Reader
}

func (jsonlFinder) Close(context.Context) error { return nil }

// openFinder открывает источник для serve: JSONL-файл, если он задан,
// иначе базу из sink.kind.
func (a *app) openFinder(ctx context.Context, threadsPath string) (finderCloser, error) {
	if threadsPath != "" {
		r, err := jsonl.Open(threadsPath)
		if err != nil {
			return nil, err
		}
		return jsonlFinder{r}, nil
	}

	if a.cfg.Sink.Kind == config.SinkJSONL {
		return nil, fmt.Errorf("--threads is required for sink.kind=%s", config.SinkJSONL)
	}

	sink, err := a.openSink(ctx, "")
	if err != nil {
		return nil, err
	}

	fc, ok := sink.(finderCloser)
	if !ok {
		_ = sink.Close(ctx)
		return nil, fmt.Errorf("sink %s does not support lookups", a.cfg.Sink.Kind)
	}

	return fc, nil
}

// uploadArtifact выгружает локальный файл в S3 под ключом <run_id>/<имя файла>,
// если выгрузка включена.
func (a *app) uploadArtifact(ctx context.Context, localPath string) error {
	if !a.cfg.S3.Enabled || localPath == "" {
		return nil
	}

	connCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeouts.Connect)
	up, err := minio.New(connCtx, a.cfg.S3)
	cancel()
	if err != nil {
		return err
	}

	key, size, err := up.Upload(ctx, localPath, path.Join(a.runID, filepath.Base(localPath)))
	if err != nil {
		return err
	}

	a.log.Info("artifact_uploaded",
		slog.String("bucket", a.cfg.S3.Bucket),
		slog.String("key", key),
		slog.Int64("bytes", size),
		slog.String("access_key", redact.Secret(a.cfg.S3.AccessKey)),
	)

	return nil
}

// pushMetrics отправляет метрики прогона в Pushgateway, если он настроен.
// Ошибка отправки не роняет команду.
func (a *app) pushMetrics(ctx context.Context) {
	if a.cfg.Metrics.PushURL == "" {
		return
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Timeouts.Connect)
	defer cancel()

	if err := a.metrics.Push(pushCtx, a.cfg.Metrics.PushURL, a.cfg.Metrics.Job); err != nil {
		a.log.Warn("metrics_push_failed", slog.String("err", err.Error()))
		return
	}

	a.log.Debug("metrics_pushed", slog.String("url", redact.URL(a.cfg.Metrics.PushURL)))
}

// aborter — приёмник, который может отбросить результат неудачного прогона.
type aborter interface {
	Abort(ctx context.Context) error
}

// closeSink закрывает приёмник с отдельным дедлайном: отмена команды
// не должна терять буфер. Если прогон упал не из-за отмены, результат
// отбрасывается, и прежний файл вывода остаётся на месте.
func (a *app) closeSink(ctx context.Context, sink storage.ThreadSink, runErr error) error {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Timeouts.Shutdown)
	defer cancel()

	if ab, ok := sink.(aborter); ok && runErr != nil && !errors.Is(runErr, context.Canceled) {
		a.log.Warn("output_discarded", slog.String("err", runErr.Error()))
		return ab.Abort(closeCtx)
	}

	return sink.Close(closeCtx)
}
