package core

import (
	"fmt"
	"strings"
)

// MemberType classifies an application and selects its form definition.
type MemberType string

const (
	// MemberTypeOC is an ordinary member: a juristic person operating a factory.
	MemberTypeOC MemberType = "OC"
	// MemberTypeAC is an associate member: a juristic person without a factory.
	MemberTypeAC MemberType = "AC"
	// MemberTypeIC is an associate member who is a natural person.
	MemberTypeIC MemberType = "IC"
)

// ParseMemberType parses a member type case-insensitively.
func ParseMemberType(s string) (MemberType, error) {
	mt := MemberType(strings.ToUpper(strings.TrimSpace(s)))
	switch mt {
	case MemberTypeOC, MemberTypeAC, MemberTypeIC:
		return mt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMemberType, s)
}

// IsJuristic reports whether applicants of this type are companies.
func (mt MemberType) IsJuristic() bool {
	return mt == MemberTypeOC || mt == MemberTypeAC
}

// StepValidator checks one wizard step. It must not mutate data.
type StepValidator func(data *ApplicationData) ErrorMap

// StepDefinition describes one wizard step.
type StepDefinition struct {
	Number   int
	Title    string
	Validate StepValidator
}

// FormDefinition contains everything needed to run one member type's wizard.
type FormDefinition struct {
	Type  MemberType
	Label string
	Steps []StepDefinition

	// DraftKey returns the business identifier drafts are stored under.
	DraftKey func(data *ApplicationData) string
}

// TotalSteps returns the number of wizard steps.
func (d FormDefinition) TotalSteps() int {
	return len(d.Steps)
}

// Step returns the definition of step n (1-based).
func (d FormDefinition) Step(n int) (StepDefinition, bool) {
	if n < 1 || n > len(d.Steps) {
		return StepDefinition{}, false
	}
	return d.Steps[n-1], true
}

// StepTitles returns the step titles in order.
func (d FormDefinition) StepTitles() []string {
	titles := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		titles[i] = s.Title
	}
	return titles
}
