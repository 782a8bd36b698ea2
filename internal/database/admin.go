package database

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/memberportal/internal/core"
)

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (core.AdminUser, error) {
	var (
		a  core.AdminUser
		id pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, active
		FROM admin_users WHERE lower(email) = lower($1)`, email).Scan(
		&id, &a.Email, &a.Name, &a.PasswordHash, &a.Active)
	if err != nil {
		return core.AdminUser{}, notFound(err, core.ErrInvalidCredentials)
	}
	a.ID = pgUUIDToString(id)
	return a, nil
}

// UpsertAdmin creates or updates an admin account by e-mail and returns its id.
func (s *Store) UpsertAdmin(ctx context.Context, a core.AdminUser) (string, error) {
	var id pgtype.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, name, password_hash, active)
		VALUES (lower($1), $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			active = EXCLUDED.active
		RETURNING id`,
		strings.TrimSpace(a.Email), a.Name, a.PasswordHash, a.Active).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert admin: %w", err)
	}
	return pgUUIDToString(id), nil
}

func (s *Store) CreateSession(ctx context.Context, sess core.AdminSession) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_sessions (token, admin_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		toPgUUID(sess.Token), toPgUUID(sess.AdminID), sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, token string, now time.Time) (core.AdminSession, core.AdminUser, error) {
	var (
		sess             core.AdminSession
		admin            core.AdminUser
		tokenID, adminID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, `
		SELECT s.token, s.created_at, s.expires_at,
			a.id, a.email, a.name, a.password_hash, a.active
		FROM admin_sessions s
		JOIN admin_users a ON a.id = s.admin_id
		WHERE s.token = $1 AND s.expires_at > $2`,
		toPgUUID(token), now).Scan(
		&tokenID, &sess.CreatedAt, &sess.ExpiresAt,
		&adminID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.AdminSession{}, core.AdminUser{}, core.ErrSessionExpired
		}
		return core.AdminSession{}, core.AdminUser{}, fmt.Errorf("get session: %w", err)
	}
	sess.Token = pgUUIDToString(tokenID)
	admin.ID = pgUUIDToString(adminID)
	sess.AdminID = admin.ID
	return sess, admin, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token = $1`, toPgUUID(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ----------------------------------------------------------------------------
// Audit log
// ----------------------------------------------------------------------------

func (s *Store) InsertAudit(ctx context.Context, e core.AuditEntry) error {
	var detail any
	if len(e.Detail) > 0 {
		detail = e.Detail
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_log (id, action, severity, actor, target, detail, ip_address, user_agent, created_at)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)`,
		toPgUUID(e.ID), string(e.Action), string(e.Severity), e.Actor, e.Target,
		detail, toInet(e.IPAddress), toPgText(e.UserAgent), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListAudit(ctx context.Context, limit int) ([]core.AuditEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, severity, actor, target, detail, ip_address, user_agent, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]core.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanAuditRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// scanAuditRow scans a single row from audit_log into an AuditEntry.
func scanAuditRow(rows pgx.Rows) (core.AuditEntry, error) {
	var (
		id        pgtype.UUID
		action    string
		severity  string
		detail    map[string]any
		ipAddress *netip.Addr
		userAgent pgtype.Text
		entry     core.AuditEntry
	)
	err := rows.Scan(&id, &action, &severity, &entry.Actor, &entry.Target,
		&detail, &ipAddress, &userAgent, &entry.CreatedAt)
	if err != nil {
		return core.AuditEntry{}, fmt.Errorf("scan audit entry: %w", err)
	}

	entry.ID = pgUUIDToString(id)
	entry.Action = core.AuditAction(action)
	entry.Severity = core.AuditSeverity(severity)
	entry.Detail = detail
	if ipAddress != nil {
		entry.IPAddress = ipAddress.String()
	}
	if userAgent.Valid {
		entry.UserAgent = userAgent.String
	}
	return entry, nil
}
