package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/memberportal/internal/logging"
)

// SaveDraft stores data as the draft of mt, keyed by the applicant's tax ID or
// ID-card number. File references are stripped before storing. Saving the
// same key again replaces the previous draft.
func (s *Service) SaveDraft(ctx context.Context, mt MemberType, data *ApplicationData, step int) (Draft, error) {
	def, err := Definition(mt)
	if err != nil {
		return Draft{}, err
	}
	if data == nil {
		return Draft{}, fmt.Errorf("save draft: %w", ErrInvalidDraftKey)
	}

	key := strings.TrimSpace(def.DraftKey(data))
	if !IsThirteenDigits(key) {
		return Draft{}, fmt.Errorf("save draft %s: %w", mt, ErrInvalidDraftKey)
	}

	now := s.now()
	d := Draft{
		MemberType: mt,
		Key:        key,
		Step:       clamp(step, 1, def.TotalSteps()),
		Data:       data.WithoutFiles(),
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.opts.DraftTTL),
	}
	if err := s.store.UpsertDraft(ctx, d); err != nil {
		return Draft{}, fmt.Errorf("save draft %s: %w", mt, err)
	}

	logging.WithFields(ctx, "member_type", mt, "step", d.Step).Info("draft saved")
	return d, nil
}

// LoadDraft returns the draft of mt stored under key.
// Returns ErrDraftNotFound when it does not exist or has expired.
func (s *Service) LoadDraft(ctx context.Context, mt MemberType, key string) (Draft, error) {
	if _, err := Definition(mt); err != nil {
		return Draft{}, err
	}
	key = strings.TrimSpace(key)
	if !IsThirteenDigits(key) {
		return Draft{}, fmt.Errorf("load draft %s: %w", mt, ErrInvalidDraftKey)
	}

	d, err := s.store.GetDraft(ctx, mt, key, s.now())
	if err != nil {
		return Draft{}, fmt.Errorf("load draft %s: %w", mt, err)
	}
	return d, nil
}

// ResumeDraft loads a draft and returns a wizard positioned at its step.
func (s *Service) ResumeDraft(ctx context.Context, mt MemberType, key string) (*Wizard, error) {
	d, err := s.LoadDraft(ctx, mt, key)
	if err != nil {
		return nil, err
	}
	def, err := Definition(mt)
	if err != nil {
		return nil, err
	}
	w := NewWizard(def, d.Data)
	w.Resume(d.Step)
	return w, nil
}

// DeleteDraft removes a draft. Deleting a missing draft is not an error.
func (s *Service) DeleteDraft(ctx context.Context, mt MemberType, key string) error {
	if _, err := Definition(mt); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if !IsThirteenDigits(key) {
		return fmt.Errorf("delete draft %s: %w", mt, ErrInvalidDraftKey)
	}
	if err := s.store.DeleteDraft(ctx, mt, key); err != nil {
		return fmt.Errorf("delete draft %s: %w", mt, err)
	}
	s.LogAudit(ctx, ActionDraftDelete, string(mt)+":"+maskIdentifier(key), nil)
	return nil
}

// ListDrafts returns the unexpired drafts of every member type stored under key.
func (s *Service) ListDrafts(ctx context.Context, key string) ([]Draft, error) {
	key = strings.TrimSpace(key)
	if !IsThirteenDigits(key) {
		return nil, fmt.Errorf("list drafts: %w", ErrInvalidDraftKey)
	}
	drafts, err := s.store.ListDrafts(ctx, key, s.now())
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}

// PurgeExpiredDrafts deletes drafts past their expiry and returns how many.
func (s *Service) PurgeExpiredDrafts(ctx context.Context) (int64, error) {
	n, err := s.store.PurgeExpiredDrafts(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return n, nil
}

// maskIdentifier keeps the last four digits of a tax ID or ID-card number.
func maskIdentifier(id string) string {
	if len(id) <= 4 {
		return id
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}
