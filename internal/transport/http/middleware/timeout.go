package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/reddit-threads/internal/pkg/log"
)

// Timeout даёт запросу не больше d; более ранний дедлайн клиента сохраняется.
// Если дедлайн истёк во время обработки, пишется request_timeout с маршрутом.
// d <= 0 — без ограничения.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request_timeout",
					slog.String("route", routePattern(r)),
					slog.Duration("budget", d),
					slog.Duration("elapsed", time.Since(start)),
				)
			}
		})
	}
}
