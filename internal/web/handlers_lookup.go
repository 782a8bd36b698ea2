package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/memberportal/internal/core"
)

// lookupKey identifies the input a lookup belongs to: browser, lookup kind
// and form field. A newer lookup with the same key cancels the one still
// running.
func lookupKey(r *http.Request, kind string) string {
	field := strings.TrimSpace(r.URL.Query().Get("field"))
	if field == "" {
		field = kind
	}
	return clientKey(r) + "|" + kind + "|" + field
}

// handleAddressLookup autocompletes sub-district, district, province and
// postal code from ?q=.
func (s *Server) handleAddressLookup(w http.ResponseWriter, r *http.Request) {
	ctx, done := s.service.Latest().Begin(r.Context(), lookupKey(r, "address"))
	defer done()

	results, err := s.service.SearchAddresses(ctx, r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleIdentifierLookup reports whether a tax ID or ID-card number can be
// used for a new application.
func (s *Server) handleIdentifierLookup(w http.ResponseWriter, r *http.Request) {
	mt, err := core.ParseMemberType(chi.URLParam(r, "type"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx, done := s.service.Latest().Begin(r.Context(), lookupKey(r, "identifier:"+string(mt)))
	defer done()

	check, err := s.service.CheckIdentifier(ctx, mt, chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// handleCatalog returns the reference data for the wizard's selects.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	raw, err := s.service.CatalogJSON(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(raw)
}

// handleHealth reports liveness and the logo upload slots.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uploads": s.service.Uploads().Status(),
	})
}
