// Package web provides the HTTP server and handlers for the member portal:
// the application wizard API, remote lookups, the member detail viewer and
// the staff guest-message dashboard.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/memberportal/internal/config"
	"github.com/JonMunkholm/memberportal/internal/core"
	mw "github.com/JonMunkholm/memberportal/internal/web/middleware"
)

// maxJSONBody bounds JSON request bodies. Application data carries no files.
const maxJSONBody = 1 << 20

// sessionCookie names the admin session cookie.
const sessionCookie = "portal_admin_session"

// Server is the HTTP server for the member portal.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.limiter = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	requireAdmin := mw.RequireAdmin(s.service, sessionCookie, s.respondError)

	// Pages
	s.router.With(issueClientID).Get("/", s.handleLanding)
	s.router.Get("/members", s.handleFindMember)
	s.router.Get("/members/{code}", s.handleMemberPage)
	s.router.Get("/members/{code}/logo", s.handleGetLogo)

	s.router.Get("/admin/login", s.handleLoginPage)
	s.router.Post("/admin/login", s.handleLogin)
	s.router.Post("/admin/logout", s.handleLogout)
	s.router.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/admin", s.handleDashboard)
		r.Get("/admin/messages/{id}", s.handleMessagePage)
		r.Post("/admin/messages/{id}/status", s.handleMessageStatusForm)
		r.Post("/admin/messages/{id}/priority", s.handleMessagePriorityForm)
		r.Post("/admin/messages/{id}/reply", s.handleMessageReplyForm)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Application wizard
		r.With(issueClientID).Get("/forms", s.handleListForms)
		r.Post("/applications/{type}/steps/{step}/validate", s.handleValidateStep)
		r.Post("/applications/{type}/wizard", s.handleWizard)
		r.Post("/applications/{type}", s.handleSubmitApplication)

		// Drafts
		r.Get("/drafts", s.handleListDrafts)
		r.Put("/drafts/{type}", s.handleSaveDraft)
		r.Get("/drafts/{type}/{key}", s.handleLoadDraft)
		r.Delete("/drafts/{type}/{key}", s.handleDeleteDraft)

		// Lookups
		r.Get("/lookup/addresses", s.handleAddressLookup)
		r.Get("/lookup/identifiers/{type}/{id}", s.handleIdentifierLookup)
		r.Get("/catalog", s.handleCatalog)

		// Members
		r.Get("/members/{code}", s.handleGetMember)
		r.Put("/members/{code}/social-media", s.handleUpdateSocialMedia)
		r.Post("/members/{code}/logo", s.handleUploadLogo)

		// Contact form
		r.Post("/contact", s.handleContact)

		// Admin dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/messages", s.handleListMessages)
			r.Get("/messages/stats", s.handleMessageStats)
			r.Get("/messages/{id}", s.handleGetMessage)
			r.Patch("/messages/{id}", s.handleUpdateMessage)
			r.Post("/messages/{id}/reply", s.handleReplyMessage)
			r.Get("/audit-log", s.handleAuditLog)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Inline styles only; member social links open elsewhere.
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; form-action 'self'")
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // requests per window
	window   time.Duration // time window
	done     chan struct{}
	once     sync.Once
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// newRateLimiter creates a rate limiter with the specified rate per window.
func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		done:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every window until stop is called.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

// allow checks if the request should be allowed and consumes a token if so.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1, // consume one token
			lastReset: time.Now(),
		}
		return true
	}

	// Reset tokens if window has passed
	if time.Since(v.lastReset) > rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = time.Now()
		return true
	}

	if v.tokens <= 0 {
		return false
	}

	v.tokens--
	return true
}

// middleware returns an HTTP middleware that rate limits by IP.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondErrorJSON(w, core.MapError(fmt.Errorf("rate limit exceeded")), nil, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// decodeJSON reads a size-limited JSON body into v. Any failure wraps
// errBadRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
