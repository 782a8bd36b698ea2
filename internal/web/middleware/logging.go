// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/logging"
)

type requestLogKey struct{}

// requestLog collects fields that inner handlers learn about a request.
type requestLog struct {
	admin string
}

// noteAdmin records the signed-in admin on the request's log entry.
func noteAdmin(ctx context.Context, admin core.AdminUser) {
	if rl, ok := ctx.Value(requestLogKey{}).(*requestLog); ok {
		rl.admin = admin.Email
	}
}

// Logger writes one structured entry per request: method, path, status,
// duration_ms, ip, user_agent and, behind RequireAdmin, the admin's e-mail.
//
// Superseded lookups are routine while an applicant types, so they are
// logged at debug. Server errors are logged at error.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rl := &requestLog{}
		r = r.WithContext(context.WithValue(r.Context(), requestLogKey{}, rl))
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		ip := core.GetIPAddressFromContext(r.Context())
		if ip == "" {
			ip = r.RemoteAddr
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ip,
			"user_agent", r.UserAgent(),
		}
		if rl.admin != "" {
			attrs = append(attrs, "admin", rl.admin)
		}

		logging.FromContext(r.Context()).Log(r.Context(), requestLevel(r.URL.Path, ww.status), "request", attrs...)
	})
}

func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusConflict && strings.HasPrefix(path, "/api/lookup/"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
