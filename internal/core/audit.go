package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/memberportal/internal/logging"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionApplicationSubmit AuditAction = "application_submit"
	ActionDraftDelete       AuditAction = "draft_delete"
	ActionSocialMediaUpdate AuditAction = "social_media_update"
	ActionLogoUpload        AuditAction = "logo_upload"
	ActionMessageStatus     AuditAction = "message_status"
	ActionMessagePriority   AuditAction = "message_priority"
	ActionMessageReply      AuditAction = "message_reply"
	ActionAdminLogin        AuditAction = "admin_login"
	ActionAdminLoginFailed  AuditAction = "admin_login_failed"
	ActionAdminLogout       AuditAction = "admin_logout"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    AuditAction    `json:"action"`
	Severity  AuditSeverity  `json:"severity"`
	Actor     string         `json:"actor"`
	Target    string         `json:"target"`
	Detail    map[string]any `json:"detail,omitempty"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// determineSeverity returns the severity recorded for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionAdminLoginFailed:
		return SeverityCritical
	case ActionApplicationSubmit, ActionMessageReply:
		return SeverityHigh
	case ActionDraftDelete, ActionAdminLogout, ActionLogoUpload:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// LogAudit records an action against target. The actor, IP address and user
// agent come from ctx. A failed insert is logged and never fails the caller.
func (s *Service) LogAudit(ctx context.Context, action AuditAction, target string, detail map[string]any) {
	entry := AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Severity:  determineSeverity(action),
		Actor:     actorName(ctx),
		Target:    target,
		Detail:    detail,
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		CreatedAt: s.now(),
	}

	if err := s.store.InsertAudit(ctx, entry); err != nil {
		logging.FromContext(ctx).Warn("audit insert failed",
			"action", action,
			"target", target,
			"error", err,
		)
	}
}

// DefaultAuditLimit is the number of audit entries returned when no limit is given.
const DefaultAuditLimit = 50

// GetAuditLog returns the newest audit entries.
func (s *Service) GetAuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	return s.store.ListAudit(ctx, limit)
}
