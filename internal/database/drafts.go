package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/memberportal/internal/core"
)

const draftColumns = `member_type, draft_key, step, data, updated_at, expires_at`

func (s *Store) UpsertDraft(ctx context.Context, d core.Draft) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO application_drafts (`+draftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (member_type, draft_key) DO UPDATE SET
			step = EXCLUDED.step,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at`,
		string(d.MemberType), d.Key, d.Step, d.Data, d.UpdatedAt, d.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

func (s *Store) GetDraft(ctx context.Context, mt core.MemberType, key string, now time.Time) (core.Draft, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+draftColumns+` FROM application_drafts
		WHERE member_type = $1 AND draft_key = $2 AND expires_at > $3`,
		string(mt), key, now)
	d, err := scanDraft(row)
	if err != nil {
		return core.Draft{}, notFound(err, core.ErrDraftNotFound)
	}
	return d, nil
}

func (s *Store) DeleteDraft(ctx context.Context, mt core.MemberType, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM application_drafts WHERE member_type = $1 AND draft_key = $2`,
		string(mt), key)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *Store) ListDrafts(ctx context.Context, key string, now time.Time) ([]core.Draft, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+draftColumns+` FROM application_drafts
		WHERE draft_key = $1 AND expires_at > $2
		ORDER BY member_type`,
		key, now)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	drafts := make([]core.Draft, 0)
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (s *Store) PurgeExpiredDrafts(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM application_drafts WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDraft(row pgx.Row) (core.Draft, error) {
	var (
		d    core.Draft
		mt   string
		data core.ApplicationData
	)
	if err := row.Scan(&mt, &d.Key, &d.Step, &data, &d.UpdatedAt, &d.ExpiresAt); err != nil {
		return core.Draft{}, err
	}
	d.MemberType = core.MemberType(mt)
	d.Data = &data
	return d, nil
}
