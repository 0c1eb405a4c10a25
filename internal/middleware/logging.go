// Package middleware provides HTTP middleware for the gateway.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger returns middleware that logs every request as a structured
// entry, at a level matching the response class.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := []any{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			}
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				attrs = append(attrs, slog.String("x_forwarded_for", xff))
			}
			if cfIP := r.Header.Get("CF-Connecting-IP"); cfIP != "" {
				attrs = append(attrs, slog.String("cf_connecting_ip", cfIP))
			}

			switch {
			case ww.Status() >= 500:
				log.Error("HTTP request completed with server error", attrs...)
			case ww.Status() >= 400:
				log.Warn("HTTP request completed with client error", attrs...)
			default:
				log.Info("HTTP request completed", attrs...)
			}
		})
	}
}
