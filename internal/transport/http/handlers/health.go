package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
	"github.com/pribylovaa/reddit-threads/internal/storage"
)

// Livez — процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthz — хранилище веток доступно. Хранилища без Ping считаются готовыми.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.finder.(storage.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			log.From(r.Context()).Warn("healthz_failed", slog.String("err", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
