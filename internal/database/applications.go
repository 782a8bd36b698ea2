package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/memberportal/internal/core"
)

func (s *Store) CreateApplication(ctx context.Context, app core.Application) error {
	documents := app.Documents
	if documents == nil {
		documents = map[string]core.DocumentRef{}
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO applications
				(id, member_type, identifier, display_name, data, documents, status, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			toPgUUID(app.ID), string(app.MemberType), app.Identifier, app.DisplayName,
			app.Data, documents, app.Status, app.SubmittedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return core.ErrIdentifierTaken
			}
			return fmt.Errorf("insert application: %w", err)
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM application_drafts WHERE member_type = $1 AND draft_key = $2`,
			string(app.MemberType), app.Identifier)
		if err != nil {
			return fmt.Errorf("delete submitted draft: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Lookups
// ----------------------------------------------------------------------------

const addressColumns = `sub_district, district, province, postal_code,
	sub_district_en, district_en, province_en`

func (s *Store) SearchAddressesByPostalCode(ctx context.Context, prefix string, limit int) ([]core.AddressSuggestion, error) {
	return s.searchAddresses(ctx, `
		SELECT `+addressColumns+` FROM address_reference
		WHERE postal_code LIKE $1
		ORDER BY postal_code, sub_district
		LIMIT $2`,
		escapeLike(prefix)+"%", limit)
}

func (s *Store) SearchAddressesByName(ctx context.Context, prefix string, limit int) ([]core.AddressSuggestion, error) {
	return s.searchAddresses(ctx, `
		SELECT `+addressColumns+` FROM address_reference
		WHERE lower(sub_district) LIKE $1
		   OR lower(district) LIKE $1
		   OR lower(province) LIKE $1
		   OR lower(sub_district_en) LIKE $1
		   OR lower(district_en) LIKE $1
		   OR lower(province_en) LIKE $1
		ORDER BY province, district, sub_district
		LIMIT $2`,
		escapeLike(strings.ToLower(prefix))+"%", limit)
}

func (s *Store) searchAddresses(ctx context.Context, query string, args ...any) ([]core.AddressSuggestion, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	defer rows.Close()

	out := make([]core.AddressSuggestion, 0)
	for rows.Next() {
		var a core.AddressSuggestion
		if err := rows.Scan(&a.SubDistrict, &a.District, &a.Province, &a.PostalCode,
			&a.SubDistrictEn, &a.DistrictEn, &a.ProvinceEn); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) IdentifierStatus(ctx context.Context, id string) (core.IdentifierStatus, error) {
	var status string
	err := s.pool.QueryRow(ctx, `
		SELECT CASE
			WHEN EXISTS (SELECT 1 FROM members WHERE tax_id = $1) THEN 'already_member'
			WHEN EXISTS (
				SELECT 1 FROM applications
				WHERE identifier = $1 AND status = 'pending'
			) THEN 'pending_application'
			ELSE 'available'
		END`,
		id).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("identifier status: %w", err)
	}
	return core.IdentifierStatus(status), nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
