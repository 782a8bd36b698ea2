package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/web/templates"
)

// handleLanding renders the landing page.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.renderLanding(w, r, http.StatusOK, templates.LandingData{
		Sent: r.URL.Query().Get("sent") == "1",
	})
}

func (s *Server) renderLanding(w http.ResponseWriter, r *http.Request, status int, data templates.LandingData) {
	data.Forms = s.service.Forms()
	renderPage(w, r, status, templates.Landing(data))
}

// handleContact stores a contact-us message. JSON clients get the created
// message back; the landing page form is redirected or re-rendered with its
// field errors.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var in core.NewGuestMessage
		if err := decodeJSON(w, r, &in); err != nil {
			s.respondError(w, r, err)
			return
		}
		msg, err := s.service.CreateGuestMessage(ctx, in)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, errBadRequest)
		return
	}
	in := core.NewGuestMessage{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}
	if _, err := s.service.CreateGuestMessage(ctx, in); err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			s.renderLanding(w, r, http.StatusUnprocessableEntity, templates.LandingData{Contact: in, Errors: verr.Fields})
			return
		}
		s.respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/?sent=1#contact", http.StatusSeeOther)
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
