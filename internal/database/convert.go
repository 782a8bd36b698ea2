package database

// convert.go maps between Go values and pgtype values for nullable columns.
// Empty strings and zero times become SQL NULL.

import (
	"net/netip"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// toPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func toPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// pgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func pgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// toPgTimestamptz converts a time to pgtype.Timestamptz; the zero time is NULL.
func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// timePtr returns nil for a NULL timestamp.
func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// toInet parses an IP address for an INET column; anything unparsable is NULL.
func toInet(s string) *netip.Addr {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &addr
}
