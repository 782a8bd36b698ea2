package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// Authenticator resolves an admin session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (core.AdminUser, error)
}

// LoginPath is where browsers without a valid session are sent.
const LoginPath = "/admin/login"

// RequireAdmin returns middleware that admits requests carrying a valid admin
// session cookie and stores the admin in the request context.
//
// API requests that fail are passed to onFail (which writes a 401); page
// requests are redirected to the sign-in form.
func RequireAdmin(auth Authenticator, cookieName string, onFail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}

			admin, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				slog.Warn("auth: admin session rejected",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					onFail(w, r, err)
					return
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			noteAdmin(r.Context(), admin)
			ctx := core.ContextWithActor(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
