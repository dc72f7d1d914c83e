// Package metrics содержит Prometheus-метрики сборки веток и HTTP API.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "threads"

// Metrics — набор метрик процесса.
type Metrics struct {
	registry *prometheus.Registry

	// Сборка веток.
	LinesRead        prometheus.Counter
	CommentsIndexed  prometheus.Counter
	CommentsFiltered prometheus.Counter
	Submissions      prometheus.Counter
	ThreadsEmitted   prometheus.Counter
	ThreadsSkipped   *prometheus.CounterVec
	OrphanComments   prometheus.Counter
	ThreadSize       prometheus.Histogram
	StageDuration    *prometheus.HistogramVec

	// Корпус.
	DocumentsWritten prometheus.Counter

	// HTTP API.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New создаёт метрики в собственном реестре.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry регистрирует метрики в переданном реестре.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LinesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_lines_total",
			Help:      "Input lines read, blank lines included",
		}),
		CommentsIndexed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_comments_total",
			Help:      "Comments accepted into the index",
		}),
		CommentsFiltered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_filtered_total",
			Help:      "Valid comments dropped by the subreddit filter",
		}),
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submission groups formed",
		}),
		ThreadsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_emitted_total",
			Help:      "Thread records written to the sink",
		}),
		ThreadsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threads_skipped_total",
			Help:      "Submission groups not emitted, by reason",
		}, []string{"reason"}),
		OrphanComments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_comments_total",
			Help:      "Comments counted as orphans in emitted threads",
		}),
		ThreadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "thread_comments",
			Help:      "Comments per emitted thread",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),

		DocumentsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_documents_total",
			Help:      "Corpus documents written",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// Registry возвращает реестр, например для promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Push отправляет все метрики реестра в Pushgateway под именем job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	const op = "metrics/Push"

	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
