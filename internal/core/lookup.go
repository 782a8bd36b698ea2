package core

// lookup.go serves the wizard's remote lookups: Thai address autocomplete and
// tax-ID / ID-card uniqueness.
//
// Each lookup runs under the configured lookup timeout. Callers that track
// keystrokes wrap ctx with LatestTracker.Begin; when a newer request replaces
// this one the lookup returns ErrSuperseded instead of stale results.
// Address results are cached through the Cache interface. Cache failures are
// logged and the lookup falls through to the store.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/memberportal/internal/logging"
)

// MinQueryLength is the shortest address query, in characters.
const MinQueryLength = 2

// SearchAddresses returns address suggestions for a postal code prefix or a
// subdistrict, district or province name prefix.
func (s *Service) SearchAddresses(ctx context.Context, query string) ([]AddressSuggestion, error) {
	q := strings.ToLower(Normalize(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return nil, ErrQueryTooShort
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()

	limit := s.opts.LookupMaxResults
	cacheKey := "lookup:addr:" + strconv.Itoa(limit) + ":" + q

	if cached, ok := s.cachedAddresses(ctx, cacheKey); ok {
		if err := supersededErr(ctx); err != nil {
			return nil, err
		}
		return cached, nil
	}

	var (
		results []AddressSuggestion
		err     error
	)
	if isDigits(q) {
		if len(q) > 5 {
			return []AddressSuggestion{}, nil
		}
		results, err = s.store.SearchAddressesByPostalCode(ctx, q, limit)
	} else {
		results, err = s.store.SearchAddressesByName(ctx, q, limit)
	}
	if err != nil {
		if Superseded(ctx) {
			return nil, ErrSuperseded
		}
		return nil, fmt.Errorf("search addresses: %w", err)
	}
	if results == nil {
		results = []AddressSuggestion{}
	}

	if err := supersededErr(ctx); err != nil {
		return nil, err
	}
	s.storeCached(ctx, cacheKey, results)
	return results, nil
}

func (s *Service) cachedAddresses(ctx context.Context, key string) ([]AddressSuggestion, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Warn("lookup cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var results []AddressSuggestion
	if err := json.Unmarshal(raw, &results); err != nil {
		logging.FromContext(ctx).Warn("lookup cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return results, true
}

func (s *Service) storeCached(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.opts.CacheTTL); err != nil {
		logging.FromContext(ctx).Warn("lookup cache write failed", "key", key, "error", err)
	}
}

// IdentifierCheck is the result of a uniqueness lookup.
type IdentifierCheck struct {
	Identifier string           `json:"identifier"`
	Status     IdentifierStatus `json:"status"`
	Available  bool             `json:"available"`
	Message    string           `json:"message"`
}

// CheckIdentifier reports whether the tax ID (OC, AC) or ID-card number (IC)
// can be used for a new application of type mt.
func (s *Service) CheckIdentifier(ctx context.Context, mt MemberType, id string) (IdentifierCheck, error) {
	if _, err := Definition(mt); err != nil {
		return IdentifierCheck{}, err
	}

	id = strings.TrimSpace(id)
	if !IsThirteenDigits(id) {
		field, msg := "taxId", "เลขประจำตัวผู้เสียภาษีต้องเป็นตัวเลข 13 หลัก"
		if !mt.IsJuristic() {
			field, msg = "idCardNumber", "เลขบัตรประชาชนต้องเป็นตัวเลข 13 หลัก"
		}
		return IdentifierCheck{}, &ValidationError{Fields: ErrorMap{field: msg}}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()

	status, err := s.store.IdentifierStatus(ctx, id)
	if err != nil {
		if Superseded(ctx) {
			return IdentifierCheck{}, ErrSuperseded
		}
		return IdentifierCheck{}, fmt.Errorf("check identifier: %w", err)
	}
	if err := supersededErr(ctx); err != nil {
		return IdentifierCheck{}, err
	}

	return IdentifierCheck{
		Identifier: id,
		Status:     status,
		Available:  status == IdentifierAvailable,
		Message:    identifierMessage(status),
	}, nil
}

func identifierMessage(status IdentifierStatus) string {
	switch status {
	case IdentifierAvailable:
		return "สามารถใช้หมายเลขนี้สมัครสมาชิกได้"
	case IdentifierAlreadyMember:
		return "หมายเลขนี้เป็นสมาชิกอยู่แล้ว"
	case IdentifierPendingApplication:
		return "หมายเลขนี้มีใบสมัครที่อยู่ระหว่างการพิจารณา"
	default:
		return string(status)
	}
}

// CatalogJSON returns the reference data as JSON, cached when a cache is
// configured.
func (s *Service) CatalogJSON(ctx context.Context) ([]byte, error) {
	const key = "lookup:catalog:v1"
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return raw, nil
	}
	raw, err := json.Marshal(s.opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.cache.Set(ctx, key, raw, s.opts.CacheTTL); err != nil {
		logging.FromContext(ctx).Warn("catalog cache write failed", "error", err)
	}
	return raw, nil
}

func supersededErr(ctx context.Context) error {
	if Superseded(ctx) {
		return ErrSuperseded
	}
	return nil
}
