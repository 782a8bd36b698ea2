package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/logging"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		proxies    []string
		remoteAddr string
		headers    map[string]string
		wantIP     string
		wantRemote string
	}{
		{
			name:       "no proxies ignores headers",
			remoteAddr: "198.51.100.7:51000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			wantIP:     "198.51.100.7",
			wantRemote: "198.51.100.7:51000",
		},
		{
			name:       "untrusted source ignores headers",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "198.51.100.7:51000",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			wantIP:     "198.51.100.7",
			wantRemote: "198.51.100.7:51000",
		},
		{
			name:       "trusted proxy X-Real-IP",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			wantIP:     "203.0.113.9",
			wantRemote: "203.0.113.9",
		},
		{
			name:       "single address entry",
			proxies:    []string{"10.1.2.3"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			wantIP:     "203.0.113.9",
			wantRemote: "203.0.113.9",
		},
		{
			name:       "forged leading hop is skipped",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.9, 10.4.5.6"},
			wantIP:     "203.0.113.9",
			wantRemote: "203.0.113.9",
		},
		{
			name:       "invalid header keeps connection address",
			proxies:    []string{"10.0.0.0/8", "not-a-cidr"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Real-IP": "garbage"},
			wantIP:     "10.1.2.3",
			wantRemote: "10.1.2.3:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIP, gotRemote string
			h := TrustedRealIP(tt.proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotIP = core.GetIPAddressFromContext(r.Context())
				gotRemote = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if gotIP != tt.wantIP {
				t.Errorf("context IP = %q, want %q", gotIP, tt.wantIP)
			}
			if gotRemote != tt.wantRemote {
				t.Errorf("RemoteAddr = %q, want %q", gotRemote, tt.wantRemote)
			}
		})
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/lookup/addresses", http.StatusConflict, "level=DEBUG"},
		{"/api/applications/oc", http.StatusConflict, "level=INFO"},
		{"/api/forms", http.StatusOK, "level=INFO"},
		{"/api/drafts", http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		buf := captureLogs(t)
		h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Contains(t, buf.String(), tt.want, tt.path)
		assert.Contains(t, buf.String(), "path="+tt.path)
	}
}

type fakeAuth struct {
	admin core.AdminUser
	err   error
}

func (f fakeAuth) Authenticate(context.Context, string) (core.AdminUser, error) {
	return f.admin, f.err
}

func TestLoggerRecordsAdmin(t *testing.T) {
	buf := captureLogs(t)
	admin := core.AdminUser{ID: "a1", Email: "staff@fti.example"}

	var actor core.AdminUser
	h := Logger(RequireAdmin(fakeAuth{admin: admin}, "session", nil)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			actor, _ = core.ActorFromContext(r.Context())
		})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "token"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, admin, actor)
	assert.Contains(t, buf.String(), "admin=staff@fti.example")
}

func TestRequireAdminRejects(t *testing.T) {
	captureLogs(t)
	auth := fakeAuth{err: core.ErrNotAuthenticated}
	var failed error
	onFail := func(w http.ResponseWriter, r *http.Request, err error) {
		failed = err
		w.WriteHeader(http.StatusUnauthorized)
	}
	h := RequireAdmin(auth, "session", onFail)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, errors.Is(failed, core.ErrNotAuthenticated))
}
