package core

// validation.go provides field-level validation for application form data.
//
// Validation happens per wizard step. A step validator collects every problem
// into an ErrorMap keyed by field path ("addresses.1.postalCode",
// "representatives.0.firstNameTh") so the client can show all messages at once.
// The predicates below are pure and operate on normalised input (trimmed,
// Unicode NFC) so Thai text typed with combining marks in a different order
// still matches.

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	thaiNamePattern    = regexp.MustCompile(`^[\p{Thai}\s]+$`)
	thaiTextPattern    = regexp.MustCompile(`^[\p{Thai}0-9\s.,\-()&/]+$`)
	englishNamePattern = regexp.MustCompile(`^[A-Za-z\s.\-']+$`)
	englishTextPattern = regexp.MustCompile(`^[A-Za-z0-9\s.,\-()&/']+$`)
	thirteenDigits     = regexp.MustCompile(`^\d{13}$`)
	postalCodePattern  = regexp.MustCompile(`^\d{5}$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStrip         = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")
)

// ErrorMap maps a field path to a user-facing message.
type ErrorMap map[string]string

// Add records msg for path unless the path already has a message.
func (m ErrorMap) Add(path, msg string) {
	if _, exists := m[path]; !exists {
		m[path] = msg
	}
}

// Require records msg when value is blank and reports whether it was present.
func (m ErrorMap) Require(path, value, msg string) bool {
	if Normalize(value) == "" {
		m.Add(path, msg)
		return false
	}
	return true
}

// Check records msg when ok is false.
func (m ErrorMap) Check(path string, ok bool, msg string) {
	if !ok {
		m.Add(path, msg)
	}
}

// Merge copies entries of other that are not already present.
func (m ErrorMap) Merge(other ErrorMap) {
	for k, v := range other {
		m.Add(k, v)
	}
}

// HasErrors reports whether any field failed.
func (m ErrorMap) HasErrors() bool {
	return len(m) > 0
}

// Fields returns the failing field paths, sorted.
func (m ErrorMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// ValidationError is returned when form data fails validation.
type ValidationError struct {
	Step   int // 0 when the whole application was validated
	Fields ErrorMap
}

func (e *ValidationError) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("validation failed at step %d: %d invalid field(s)", e.Step, len(e.Fields))
	}
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// ValidateStep runs the validator of one step.
// Returns an empty (non-nil) map when the step is valid.
func ValidateStep(def FormDefinition, data *ApplicationData, step int) (ErrorMap, error) {
	s, ok := def.Step(step)
	if !ok {
		return nil, fmt.Errorf("%w: step %d of %s", ErrInvalidStep, step, def.Type)
	}
	errs := s.Validate(data)
	if errs == nil {
		errs = ErrorMap{}
	}
	return errs, nil
}

// ValidateAll runs every step validator and merges the results.
func ValidateAll(def FormDefinition, data *ApplicationData) ErrorMap {
	all := ErrorMap{}
	for _, s := range def.Steps {
		all.Merge(s.Validate(data))
	}
	return all
}

// Normalize trims value and converts it to Unicode NFC.
func Normalize(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// IsThaiName reports whether value contains only Thai letters and spaces.
func IsThaiName(value string) bool {
	return thaiNamePattern.MatchString(Normalize(value))
}

// IsThaiText reports whether value is Thai text, allowing digits and common punctuation.
func IsThaiText(value string) bool {
	return thaiTextPattern.MatchString(Normalize(value))
}

// IsEnglishName reports whether value contains only English letters, spaces and .-'
func IsEnglishName(value string) bool {
	return englishNamePattern.MatchString(Normalize(value))
}

// IsEnglishText reports whether value is English text, allowing digits and common punctuation.
func IsEnglishText(value string) bool {
	return englishTextPattern.MatchString(Normalize(value))
}

// IsThirteenDigits reports whether value is a 13-digit tax ID or ID-card number.
func IsThirteenDigits(value string) bool {
	return thirteenDigits.MatchString(strings.TrimSpace(value))
}

// IsPostalCode reports whether value is a 5-digit Thai postal code.
func IsPostalCode(value string) bool {
	return postalCodePattern.MatchString(strings.TrimSpace(value))
}

// IsEmail reports whether value looks like an e-mail address.
func IsEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

// IsPhone reports whether value is a Thai phone number of 9 or 10 digits,
// optionally written with +66, separators and a "#ext" suffix.
func IsPhone(value string) bool {
	v := strings.TrimSpace(value)
	if i := strings.Index(v, "#"); i >= 0 {
		ext := v[i+1:]
		if ext == "" || !isDigits(ext) {
			return false
		}
		v = v[:i]
	}
	v = phoneStrip.Replace(v)
	if strings.HasPrefix(v, "+66") {
		v = "0" + strings.TrimPrefix(v, "+66")
	}
	return (len(v) == 9 || len(v) == 10) && isDigits(v)
}

// IsPositiveInt reports whether value is a whole number greater than zero.
// Thousands separators are accepted.
func IsPositiveInt(value string) bool {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	n, err := strconv.Atoi(v)
	return err == nil && n > 0
}

// IsNonNegativeAmount reports whether value is a number >= 0, allowing
// thousands separators and decimals.
func IsNonNegativeAmount(value string) bool {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f >= 0
}

// IsWebURL reports whether value is an absolute http(s) URL.
func IsWebURL(value string) bool {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
