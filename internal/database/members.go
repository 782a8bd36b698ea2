package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/memberportal/internal/core"
)

func (s *Store) GetMemberInfo(ctx context.Context, code string) (core.MemberInfo, error) {
	var (
		m     core.MemberInfo
		taxID pgtype.Text
	)
	err := s.pool.QueryRow(ctx, `
		SELECT member_code, company_name_th, company_name_en, tax_id, member_type,
			status, email, phone, website, joined_at
		FROM members WHERE member_code = $1`, code).Scan(
		&m.MemberCode, &m.CompanyNameTh, &m.CompanyNameEn, &taxID, &m.MemberType,
		&m.Status, &m.Email, &m.Phone, &m.Website, &m.JoinedAt)
	if err != nil {
		return core.MemberInfo{}, notFound(err, core.ErrMemberNotFound)
	}
	m.TaxID = taxID.String
	return m, nil
}

func (s *Store) ListMemberships(ctx context.Context, code string) ([]core.Membership, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT member_group_code, group_name, type_code, member_type, status
		FROM member_groups WHERE member_code = $1
		ORDER BY member_group_code`, code)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Membership, error) {
		var m core.Membership
		err := row.Scan(&m.MemberGroupCode, &m.GroupName, &m.TypeCode, &m.MemberType, &m.Status)
		return m, err
	})
}

func (s *Store) ListMemberAddresses(ctx context.Context, code string) ([]core.MemberAddress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT member_group_code, address_type, address_number, building, moo, soi,
			street, sub_district, district, province, postal_code, phone, email
		FROM member_addresses WHERE member_code = $1
		ORDER BY member_group_code, address_type, id`, code)
	if err != nil {
		return nil, fmt.Errorf("list member addresses: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.MemberAddress, error) {
		var (
			a  core.MemberAddress
			at string
		)
		err := row.Scan(&a.MemberGroupCode, &at, &a.AddressNumber, &a.Building, &a.Moo,
			&a.Soi, &a.Street, &a.SubDistrict, &a.District, &a.Province, &a.PostalCode,
			&a.Phone, &a.Email)
		a.AddressType = core.AddressType(at)
		return a, err
	})
}

func (s *Store) ListMemberRepresentatives(ctx context.Context, code string) ([]core.MemberRepresentative, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT member_group_code, prename_th, prename_en, prename_other,
			first_name_th, last_name_th, first_name_en, last_name_en,
			position, email, phone, is_primary, rep_order
		FROM member_representatives WHERE member_code = $1
		ORDER BY member_group_code, rep_order, id`, code)
	if err != nil {
		return nil, fmt.Errorf("list member representatives: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.MemberRepresentative, error) {
		var r core.MemberRepresentative
		err := row.Scan(&r.MemberGroupCode, &r.PrenameTh, &r.PrenameEn, &r.PrenameOther,
			&r.FirstNameTh, &r.LastNameTh, &r.FirstNameEn, &r.LastNameEn,
			&r.Position, &r.Email, &r.Phone, &r.IsPrimary, &r.Order)
		return r, err
	})
}

func (s *Store) ListMemberProducts(ctx context.Context, code string) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name_th, name_en FROM member_products
		WHERE member_code = $1 ORDER BY sort_order, id`, code)
	if err != nil {
		return nil, fmt.Errorf("list member products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Product, error) {
		var p core.Product
		err := row.Scan(&p.NameTh, &p.NameEn)
		return p, err
	})
}

func (s *Store) ListSocialMedia(ctx context.Context, code string) ([]core.SocialLink, error) {
	return listSocialMedia(ctx, s.pool, code)
}

func listSocialMedia(ctx context.Context, db DBTX, code string) ([]core.SocialLink, error) {
	rows, err := db.Query(ctx, `
		SELECT platform, url, display_name FROM member_social_media
		WHERE member_code = $1 ORDER BY sort_order, id`, code)
	if err != nil {
		return nil, fmt.Errorf("list social media: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.SocialLink, error) {
		var l core.SocialLink
		err := row.Scan(&l.Platform, &l.URL, &l.DisplayName)
		return l, err
	})
}

func (s *Store) GetLogoInfo(ctx context.Context, code string) (*core.LogoInfo, error) {
	var info core.LogoInfo
	err := s.pool.QueryRow(ctx, `
		SELECT content_type, size, display_mode, updated_at
		FROM member_logos WHERE member_code = $1`, code).Scan(
		&info.ContentType, &info.Size, &info.DisplayMode, &info.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get logo info: %w", err)
	}
	return &info, nil
}

// ReplaceSocialMedia swaps the member's links for links in one transaction.
func (s *Store) ReplaceSocialMedia(ctx context.Context, code string, links []core.SocialLink) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := memberExists(ctx, tx, code); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM member_social_media WHERE member_code = $1`, code); err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, l := range links {
			batch.Queue(`
				INSERT INTO member_social_media (member_code, platform, url, display_name, sort_order)
				VALUES ($1, $2, $3, $4, $5)`,
				code, l.Platform, l.URL, l.DisplayName, i)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("replace social media: %w", err)
	}
	return nil
}

func (s *Store) SaveLogo(ctx context.Context, logo core.Logo) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := memberExists(ctx, tx, logo.MemberCode); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO member_logos (member_code, content_type, size, display_mode, data, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (member_code) DO UPDATE SET
				content_type = EXCLUDED.content_type,
				size = EXCLUDED.size,
				display_mode = EXCLUDED.display_mode,
				data = EXCLUDED.data,
				updated_at = EXCLUDED.updated_at`,
			logo.MemberCode, logo.ContentType, logo.Size, logo.DisplayMode, logo.Data, logo.UpdatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("save logo: %w", err)
	}
	return nil
}

func (s *Store) GetLogo(ctx context.Context, code string) (core.Logo, error) {
	logo := core.Logo{MemberCode: code}
	err := s.pool.QueryRow(ctx, `
		SELECT content_type, size, display_mode, updated_at, data
		FROM member_logos WHERE member_code = $1`, code).Scan(
		&logo.ContentType, &logo.Size, &logo.DisplayMode, &logo.UpdatedAt, &logo.Data)
	if err != nil {
		return core.Logo{}, notFound(err, core.ErrLogoNotFound)
	}
	return logo, nil
}

// memberExists locks the member row for the rest of the transaction.
func memberExists(ctx context.Context, db DBTX, code string) error {
	var found string
	err := db.QueryRow(ctx,
		`SELECT member_code FROM members WHERE member_code = $1 FOR UPDATE`, code).Scan(&found)
	return notFound(err, core.ErrMemberNotFound)
}
