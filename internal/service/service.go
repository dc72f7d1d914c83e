// service содержит сборку веток и операции над уже собранными ветками.
package service

import (
	"errors"

	"github.com/pribylovaa/reddit-threads/internal/config"
	"github.com/pribylovaa/reddit-threads/internal/metrics"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

var (
	// ErrNotFound — ветка не найдена в источнике.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — неверные параметры операции.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Service — сборка веток и операции чтения поверх результата.
type Service struct {
	sink    storage.ThreadSink
	cfg     config.Config
	metrics *metrics.Metrics
}

// New создаёт Service. sink может быть nil для операций, которые ничего не пишут
// (corpus, view, export); m == nil — метрики в отдельном реестре.
func New(sink storage.ThreadSink, cfg config.Config, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New()
	}

	return &Service{
		sink:    sink,
		cfg:     cfg,
		metrics: m,
	}
}
