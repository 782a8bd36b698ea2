package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ----------------------------------------------------------------------------
// toPgText Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantValid  bool
		wantString string
	}{
		{
			name:       "simple string",
			input:      "hello",
			wantValid:  true,
			wantString: "hello",
		},
		{
			name:       "thai text",
			input:      "บริษัท ตัวอย่าง จำกัด",
			wantValid:  true,
			wantString: "บริษัท ตัวอย่าง จำกัด",
		},
		{
			name:       "surrounded whitespace trimmed",
			input:      "  hello world  ",
			wantValid:  true,
			wantString: "hello world",
		},
		{
			name:      "empty string",
			input:     "",
			wantValid: false,
		},
		{
			name:      "only whitespace",
			input:     " \t\n",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toPgText(tt.input)

			if result.Valid != tt.wantValid {
				t.Errorf("toPgText(%q).Valid = %v, want %v",
					tt.input, result.Valid, tt.wantValid)
				return
			}

			if tt.wantValid && result.String != tt.wantString {
				t.Errorf("toPgText(%q).String = %q, want %q",
					tt.input, result.String, tt.wantString)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// UUID Tests
// ----------------------------------------------------------------------------

func TestToPgUUID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{"valid lowercase", "7b0f6c2e-9a51-4b5e-9a38-8f6f2f1d0c11", true},
		{"valid uppercase", "7B0F6C2E-9A51-4B5E-9A38-8F6F2F1D0C11", true},
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
		{"tax id", "0105551234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toPgUUID(tt.input); got.Valid != tt.wantValid {
				t.Errorf("toPgUUID(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
		})
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	const id = "7b0f6c2e-9a51-4b5e-9a38-8f6f2f1d0c11"
	if got := pgUUIDToString(toPgUUID(id)); got != id {
		t.Errorf("pgUUIDToString(toPgUUID(%q)) = %q", id, got)
	}
	if got := pgUUIDToString(pgtype.UUID{}); got != "" {
		t.Errorf("pgUUIDToString(invalid) = %q, want empty", got)
	}
}

// ----------------------------------------------------------------------------
// Timestamp and INET Tests
// ----------------------------------------------------------------------------

func TestTimestamps(t *testing.T) {
	if toPgTimestamptz(time.Time{}).Valid {
		t.Error("zero time should be NULL")
	}

	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	ts := toPgTimestamptz(now)
	if !ts.Valid || !ts.Time.Equal(now) {
		t.Errorf("toPgTimestamptz(%v) = %+v", now, ts)
	}

	if p := timePtr(pgtype.Timestamptz{}); p != nil {
		t.Errorf("timePtr(NULL) = %v, want nil", p)
	}
	if p := timePtr(ts); p == nil || !p.Equal(now) {
		t.Errorf("timePtr(%v) = %v", now, p)
	}
}

func TestToInet(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"203.0.113.9", "203.0.113.9"},
		{" 2001:db8::1 ", "2001:db8::1"},
		{"", ""},
		{"localhost", ""},
		{"203.0.113.9:8080", ""},
	}

	for _, tt := range tests {
		got := toInet(tt.input)
		if tt.want == "" {
			if got != nil {
				t.Errorf("toInet(%q) = %v, want nil", tt.input, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("toInet(%q) = %v, want %s", tt.input, got, tt.want)
		}
	}
}
