package web

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/memberportal/internal/core"
)

const (
	// clientCookie carries the random browser ID issued on the landing page
	// and the form list. Lookups use it to tell applicants apart.
	clientCookie = "portal_client"

	// clientHeader lets scripted clients supply their own ID.
	clientHeader = "X-Portal-Client"

	clientCookieMaxAge = 30 * 24 * time.Hour
)

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
	return ctx
}

// clientIP returns the address resolved by TrustedRealIP, or the request's
// RemoteAddr without the port when the middleware did not run.
func clientIP(r *http.Request) string {
	if ip := core.GetIPAddressFromContext(r.Context()); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// clientKey identifies the browser behind a request: the X-Portal-Client
// header, then the client cookie, then the IP address. Applicants sharing a
// NAT only collide when neither ID is present.
func clientKey(r *http.Request) string {
	if id := r.Header.Get(clientHeader); clientIDPattern.MatchString(id) {
		return "client:" + id
	}
	if c, err := r.Cookie(clientCookie); err == nil && clientIDPattern.MatchString(c.Value) {
		return "client:" + c.Value
	}
	return "ip:" + clientIP(r)
}

// issueClientID sets the client cookie on browsers that do not have one yet.
func issueClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(clientCookie); err != nil || !clientIDPattern.MatchString(c.Value) {
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookie,
				Value:    uuid.NewString(),
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r)
	})
}
