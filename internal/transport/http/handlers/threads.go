package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/reddit-threads/internal/render"
	"github.com/pribylovaa/reddit-threads/internal/service"
	apierrors "github.com/pribylovaa/reddit-threads/internal/transport/http/errors"
)

// minBodyChars — нижняя граница max_body_chars: меньше не помещается суффикс "...".
const minBodyChars = 4

// GetThread отдаёт ветку как JSON в формате выходной записи.
func (h *Handlers) GetThread(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LookupThread(r.Context(), h.finder, chi.URLParam(r, "link_id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// GetThreadText отдаёт текстовое представление ветки.
// ?max_body_chars= переопределяет лимит длины тела комментария.
func (h *Handlers) GetThreadText(w http.ResponseWriter, r *http.Request) {
	maxBody := h.svc.MaxBodyChars()
	if v := r.URL.Query().Get("max_body_chars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minBodyChars {
			apierrors.WriteError(w, r, fmt.Errorf("max_body_chars %q: %w", v, service.ErrInvalidArgument))
			return
		}
		maxBody = n
	}

	rec, err := h.svc.LookupThread(r.Context(), h.finder, chi.URLParam(r, "link_id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Thread(rec, maxBody) + "\n"))
}
