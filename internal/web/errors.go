package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. HTTPStatus picks the status code and core.MapError the user message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/logging"
	"github.com/JonMunkholm/memberportal/internal/web/templates"
)

// errBadRequest marks malformed request bodies and parameters. Its text
// matches the VAL004 pattern of core.MapError.
var errBadRequest = errors.New("invalid request body")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Action  string        `json:"action,omitempty"`
	Code    string        `json:"code"`
	Fields  core.ErrorMap `json:"fields,omitempty"`
}

// HTTPStatus maps a service error to its response status.
func HTTPStatus(err error) int {
	var verr *core.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSuperseded), errors.Is(err, core.ErrIdentifierTaken):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnknownMemberType),
		errors.Is(err, core.ErrInvalidStep),
		errors.Is(err, core.ErrInvalidDraftKey),
		errors.Is(err, core.ErrQueryTooShort),
		errors.Is(err, core.ErrInvalidSocialLink),
		errors.Is(err, core.ErrInvalidMessageUpdate),
		errors.Is(err, core.ErrInvalidLogo),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrDraftNotFound),
		errors.Is(err, core.ErrMemberNotFound),
		errors.Is(err, core.ErrLogoNotFound),
		errors.Is(err, core.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrSessionExpired),
		errors.Is(err, core.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := HTTPStatus(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)
	switch {
	case errors.Is(err, core.ErrSuperseded):
		logger.Debug("lookup superseded")
	case core.IsUserError(err):
		logger.Warn("request rejected")
	default:
		logger.Error("request error")
	}

	if errors.Is(err, core.ErrTooManyUploads) {
		w.Header().Set("Retry-After", "5")
	}

	// Return user-friendly error based on request type
	if isHTMX(r) {
		renderErrorPartial(w, r, userMsg, statusCode)
	} else if wantsJSON(r) {
		respondErrorJSON(w, userMsg, fieldErrors(err), statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

func fieldErrors(err error) core.ErrorMap {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, fields core.ErrorMap, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Fields:  fields,
	})
}

// renderPage writes an HTML page with the given status. A failed render is
// logged; the status line has already been sent by then.
func renderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page",
			"path", r.URL.Path,
			"error", err,
		)
	}
}

// respondErrorHTML writes a full HTML error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(statusCode, msg).Render(r.Context(), w); err != nil {
		slog.Error("render error page", "error", err)
	}
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
