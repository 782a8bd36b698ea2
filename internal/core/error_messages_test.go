package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "validation error", err: &ValidationError{Step: 1, Fields: ErrorMap{"taxId": "x"}}, wantCode: "VAL001"},
		{name: "wrapped validation error", err: fmt.Errorf("submit: %w", &ValidationError{}), wantCode: "VAL001"},
		{name: "unknown member type", err: fmt.Errorf("%w: %q", ErrUnknownMemberType, "ZZ"), wantCode: "VAL002"},
		{name: "invalid step", err: ErrInvalidStep, wantCode: "VAL003"},
		{name: "draft not found", err: fmt.Errorf("load draft OC: %w", ErrDraftNotFound), wantCode: "DRF001"},
		{name: "invalid draft key", err: ErrInvalidDraftKey, wantCode: "DRF002"},
		{name: "identifier taken", err: ErrIdentifierTaken, wantCode: "LKP001"},
		{name: "superseded", err: ErrSuperseded, wantCode: "LKP002"},
		{name: "member not found", err: ErrMemberNotFound, wantCode: "MEM001"},
		{name: "message not found", err: ErrMessageNotFound, wantCode: "MSG001"},
		{name: "invalid credentials", err: ErrInvalidCredentials, wantCode: "AUTH001"},
		{name: "too many uploads", err: ErrTooManyUploads, wantCode: "UPL001"},
		{name: "invalid logo", err: fmt.Errorf("%w: empty", ErrInvalidLogo), wantCode: "UPL002"},
		{name: "context deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantCode: "DB004"},
		{name: "duplicate key", err: errors.New("ERROR: duplicate key value violates unique constraint"), wantCode: "DB001"},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connection refused"), wantCode: "DB002"},
		{name: "deadlock", err: errors.New("deadlock detected"), wantCode: "DB005"},
		{name: "case insensitive matching", err: errors.New("RATE LIMIT exceeded"), wantCode: "RATE001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Errorf("MapError(%v).Message is empty", tt.err)
			}
		})
	}
}

func TestIsUserError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&ValidationError{}, true},
		{ErrDraftNotFound, true},
		{fmt.Errorf("wrapped: %w", ErrInvalidCredentials), true},
		{ErrTooManyUploads, false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsUserError(tt.err); got != tt.want {
			t.Errorf("IsUserError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestSentinelCodesAreUnique(t *testing.T) {
	seen := make(map[string]error)
	for _, s := range sentinelMessages {
		if prev, dup := seen[s.msg.Code]; dup {
			t.Errorf("code %s used by both %v and %v", s.msg.Code, prev, s.err)
		}
		seen[s.msg.Code] = s.err
	}
}
