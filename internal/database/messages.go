package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/memberportal/internal/core"
)

const messageColumns = `id, name, email, phone, subject, message, status, priority,
	reply_message, replied_by, created_at, read_at, replied_at`

func (s *Store) CreateMessage(ctx context.Context, m core.GuestMessage) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO guest_messages (id, name, email, phone, subject, message, status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		toPgUUID(m.ID), m.Name, m.Email, m.Phone, m.Subject, m.Message,
		string(m.Status), string(m.Priority), m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert guest message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, f core.MessageFilter) ([]core.GuestMessage, int64, error) {
	wb := newWhereBuilder()
	wb.Add("status", string(f.Status))
	wb.Add("priority", string(f.Priority))
	wb.AddSearch(f.Search, "name", "email", "subject", "message")
	whereClause, args := wb.Build()

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM guest_messages"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count guest messages: %w", err)
	}

	query := `SELECT ` + messageColumns + ` FROM guest_messages` + whereClause +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", wb.NextArgIndex(), wb.NextArgIndex()+1)
	args = append(args, f.PageSize, f.Offset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list guest messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]core.GuestMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan guest message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (s *Store) GetMessage(ctx context.Context, id string) (core.GuestMessage, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM guest_messages WHERE id = $1`, toPgUUID(id))
	m, err := scanMessage(row)
	if err != nil {
		return core.GuestMessage{}, notFound(err, core.ErrMessageNotFound)
	}
	return m, nil
}

func (s *Store) MarkMessageRead(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE guest_messages SET status = 'read', read_at = $2
		WHERE id = $1 AND status = 'unread'`, toPgUUID(id), at)
	if err != nil {
		return fmt.Errorf("mark guest message read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already read is fine; only a missing row is an error.
		if _, err := s.GetMessage(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMessage applies upd. Nil fields keep their value; a reply also stamps
// replied_by and replied_at, and moving to read stamps read_at once.
func (s *Store) UpdateMessage(ctx context.Context, id string, upd core.MessageUpdate) (core.GuestMessage, error) {
	var status, priority, reply pgtype.Text
	if upd.Status != nil {
		status = pgtype.Text{String: string(*upd.Status), Valid: true}
	}
	if upd.Priority != nil {
		priority = pgtype.Text{String: string(*upd.Priority), Valid: true}
	}
	if upd.ReplyMessage != nil {
		reply = pgtype.Text{String: *upd.ReplyMessage, Valid: true}
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE guest_messages SET
			status        = COALESCE($2, status),
			priority      = COALESCE($3, priority),
			reply_message = COALESCE($4, reply_message),
			replied_by    = CASE WHEN $4::text IS NULL THEN replied_by ELSE $5 END,
			replied_at    = CASE WHEN $4::text IS NULL THEN replied_at ELSE $6 END,
			read_at       = CASE WHEN $2::text = 'read' AND read_at IS NULL THEN $6 ELSE read_at END
		WHERE id = $1
		RETURNING `+messageColumns,
		toPgUUID(id), status, priority, reply, upd.RepliedBy, upd.At)
	m, err := scanMessage(row)
	if err != nil {
		return core.GuestMessage{}, notFound(err, core.ErrMessageNotFound)
	}
	return m, nil
}

func (s *Store) MessageStats(ctx context.Context) (core.MessageStats, error) {
	var st core.MessageStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'unread'),
			COUNT(*) FILTER (WHERE status = 'read'),
			COUNT(*) FILTER (WHERE status = 'replied'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			COUNT(*) FILTER (WHERE priority = 'high' AND status <> 'closed')
		FROM guest_messages`).Scan(
		&st.Total, &st.Unread, &st.Read, &st.Replied, &st.Closed, &st.HighPriority)
	if err != nil {
		return core.MessageStats{}, fmt.Errorf("guest message stats: %w", err)
	}
	return st, nil
}

func scanMessage(row pgx.Row) (core.GuestMessage, error) {
	var (
		m                 core.GuestMessage
		id                pgtype.UUID
		status, priority  string
		readAt, repliedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&status, &priority, &m.ReplyMessage, &m.RepliedBy, &m.CreatedAt, &readAt, &repliedAt)
	if err != nil {
		return core.GuestMessage{}, err
	}
	m.ID = pgUUIDToString(id)
	m.Status = core.MessageStatus(status)
	m.Priority = core.MessagePriority(priority)
	m.ReadAt = timePtr(readAt)
	m.RepliedAt = timePtr(repliedAt)
	return m, nil
}
