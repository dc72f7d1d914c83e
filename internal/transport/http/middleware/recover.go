package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
	apierrors "github.com/pribylovaa/reddit-threads/internal/transport/http/errors"
)

// errPanic — то, что видит клиент вместо деталей паники.
var errPanic = errors.New("internal")

// Recover превращает panic обработчика в 500 с JSON-конвертом и пишет
// handler_panic с маршрутом, link_id и стеком.
// Если ответ уже начат, тело не дописывается. http.ErrAbortHandler пробрасывается дальше.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := []slog.Attr{
					slog.String("method", r.Method),
					slog.String("route", routePattern(r)),
					slog.Any("reason", rec),
					slog.Bool("response_started", sw.status != 0),
					slog.String("stack", string(debug.Stack())),
				}
				if linkID := chi.URLParam(r, "link_id"); linkID != "" {
					attrs = append(attrs, slog.String("link_id", linkID))
				}
				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "handler_panic", attrs...)

				if sw.status == 0 {
					apierrors.WriteError(sw, r, errPanic)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
