package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/web/templates"
)

// maxAuditLimit caps ?limit= on the audit log endpoint.
const maxAuditLimit = 500

// ----------------------------------------------------------------------------
// Sign-in
// ----------------------------------------------------------------------------

// handleLoginPage renders the sign-in form, or skips it for a signed-in admin.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := s.service.Authenticate(r.Context(), c.Value); err == nil {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
	}
	renderPage(w, r, http.StatusOK, templates.AdminLogin("", ""))
}

// handleLogin checks the posted credentials and sets the session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errBadRequest)
		return
	}
	email := r.PostFormValue("email")

	ctx := WithRequestMetadata(r.Context(), r)
	session, _, err := s.service.Login(ctx, email, r.PostFormValue("password"))
	if err != nil {
		if !core.IsUserError(err) {
			s.respondError(w, r, err)
			return
		}
		renderPage(w, r, http.StatusUnauthorized, templates.AdminLogin(email, core.MapError(err).Message))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Security.AdminCookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleLogout closes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	if c, err := r.Cookie(sessionCookie); err == nil {
		if admin, err := s.service.Authenticate(ctx, c.Value); err == nil {
			ctx = core.ContextWithActor(ctx, admin)
		}
		if err := s.service.Logout(ctx, c.Value); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Security.AdminCookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// ----------------------------------------------------------------------------
// Dashboard pages
// ----------------------------------------------------------------------------

// messageFilter reads status, priority, q, page and pageSize from the query.
func messageFilter(r *http.Request) (core.MessageFilter, error) {
	q := r.URL.Query()
	status, err := core.ParseMessageStatus(q.Get("status"))
	if err != nil {
		return core.MessageFilter{}, err
	}
	priority, err := core.ParseMessagePriority(q.Get("priority"))
	if err != nil {
		return core.MessageFilter{}, err
	}
	return core.MessageFilter{
		Status:   status,
		Priority: priority,
		Search:   q.Get("q"),
		Page:     parseIntParam(r, "page", 1),
		PageSize: parseIntParam(r, "pageSize", core.DefaultMessagePageSize),
	}.Normalized(), nil
}

// loadDashboard fetches the counters and the message page concurrently.
func (s *Server) loadDashboard(ctx context.Context, f core.MessageFilter) (core.MessageStats, core.MessagePage, error) {
	var (
		stats core.MessageStats
		page  core.MessagePage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.service.MessageStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		page, err = s.service.ListGuestMessages(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MessageStats{}, core.MessagePage{}, err
	}
	return stats, page, nil
}

// handleDashboard renders the guest-message dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	admin, _ := core.ActorFromContext(r.Context())
	f, err := messageFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	stats, page, err := s.loadDashboard(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	renderPage(w, r, http.StatusOK, templates.AdminDashboard(templates.DashboardData{
		Admin:  admin,
		Stats:  stats,
		Page:   page,
		Filter: f,
	}))
}

// handleMessagePage opens a message, marking it read when it was unread.
func (s *Server) handleMessagePage(w http.ResponseWriter, r *http.Request) {
	admin, _ := core.ActorFromContext(r.Context())
	ctx := WithRequestMetadata(r.Context(), r)

	msg, err := s.service.OpenGuestMessage(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, templates.MessageDetail(admin, msg))
}

// messageForm runs update with the posted form and returns to the message page.
func (s *Server) messageForm(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, id string) error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := update(WithRequestMetadata(r.Context(), r), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/messages/"+id, http.StatusSeeOther)
}

func (s *Server) handleMessageStatusForm(w http.ResponseWriter, r *http.Request) {
	s.messageForm(w, r, func(ctx context.Context, id string) error {
		status, err := core.ParseMessageStatus(r.PostFormValue("status"))
		if err != nil {
			return err
		}
		_, err = s.service.UpdateMessageStatus(ctx, id, status)
		return err
	})
}

func (s *Server) handleMessagePriorityForm(w http.ResponseWriter, r *http.Request) {
	s.messageForm(w, r, func(ctx context.Context, id string) error {
		priority, err := core.ParseMessagePriority(r.PostFormValue("priority"))
		if err != nil {
			return err
		}
		_, err = s.service.SetMessagePriority(ctx, id, priority)
		return err
	})
}

func (s *Server) handleMessageReplyForm(w http.ResponseWriter, r *http.Request) {
	s.messageForm(w, r, func(ctx context.Context, id string) error {
		_, err := s.service.ReplyGuestMessage(ctx, id, r.PostFormValue("message"))
		return err
	})
}

// ----------------------------------------------------------------------------
// Admin API
// ----------------------------------------------------------------------------

// handleListMessages returns one page of guest messages, newest first.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	f, err := messageFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	page, err := s.service.ListGuestMessages(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleMessageStats returns the dashboard counters.
func (s *Server) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.MessageStats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetMessage returns a message, marking it read when it was unread.
func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	msg, err := s.service.OpenGuestMessage(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

type updateMessageRequest struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

// handleUpdateMessage changes the status and/or priority of a message.
func (s *Server) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	var req updateMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	var changes core.MessageChanges
	if req.Status != nil {
		status := core.MessageStatus(*req.Status)
		changes.Status = &status
	}
	if req.Priority != nil {
		priority := core.MessagePriority(*req.Priority)
		changes.Priority = &priority
	}

	ctx := WithRequestMetadata(r.Context(), r)
	msg, err := s.service.UpdateMessage(ctx, chi.URLParam(r, "id"), changes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

type replyRequest struct {
	Message string `json:"message"`
}

// handleReplyMessage records a staff reply and marks the message replied.
func (s *Server) handleReplyMessage(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	msg, err := s.service.ReplyGuestMessage(ctx, chi.URLParam(r, "id"), req.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// handleAuditLog returns the newest audit entries, ?limit= at most 500.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultAuditLimit)
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	entries, err := s.service.GetAuditLog(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
