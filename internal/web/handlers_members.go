package web

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/web/templates"
)

// multipartOverhead is allowed on top of the logo size for form boundaries
// and the display mode field.
const multipartOverhead = 64 << 10

// handleFindMember redirects the landing page search to the member page.
func (s *Server) handleFindMember(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/members/"+url.PathEscape(code), http.StatusSeeOther)
}

// handleMemberPage renders the member detail viewer. ?tab= picks the panel
// and ?group= narrows the data to one member group.
func (s *Server) handleMemberPage(w http.ResponseWriter, r *http.Request) {
	detail, err := s.service.GetMemberDetail(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	group := strings.TrimSpace(r.URL.Query().Get("group"))
	data := templates.MemberPageData{
		Detail: detail.FilterByGroup(group),
		Tab:    core.ParseTab(r.URL.Query().Get("tab")),
		Group:  group,
		Groups: detail.GroupCodes(),
	}
	renderPage(w, r, http.StatusOK, templates.MemberPage(data))
}

// handleGetMember returns the member detail as JSON, filtered by ?group=.
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	detail, err := s.service.GetMemberDetail(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail.FilterByGroup(r.URL.Query().Get("group")))
}

// handleGetLogo serves the stored logo bytes.
func (s *Server) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := s.service.GetLogo(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", logo.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, "", logo.UpdatedAt, bytes.NewReader(logo.Data))
}

type socialMediaRequest struct {
	Links []core.SocialLink `json:"links"`
}

// handleUpdateSocialMedia replaces the member's social media list.
func (s *Server) handleUpdateSocialMedia(w http.ResponseWriter, r *http.Request) {
	var req socialMediaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	links, err := s.service.UpdateSocialMedia(ctx, chi.URLParam(r, "code"), req.Links)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, socialMediaRequest{Links: links})
}

// handleUploadLogo stores a multipart "logo" file. The optional "displayMode"
// field is circle, square or rectangle.
func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.LogoMaxSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize + multipartOverhead); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidLogo, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("logo")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("%w: no file provided", core.ErrInvalidLogo))
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	info, err := s.service.UploadLogo(ctx, chi.URLParam(r, "code"), file, r.FormValue("displayMode"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}
