package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/core/forms/formstest"
)

func newWizard(t *testing.T, mt core.MemberType, data *core.ApplicationData) *core.Wizard {
	t.Helper()
	def, err := core.Definition(mt)
	require.NoError(t, err)
	return core.NewWizard(def, data)
}

func TestWizardNextStaysOnInvalidStep(t *testing.T) {
	w := newWizard(t, core.MemberTypeOC, &core.ApplicationData{})

	assert.False(t, w.Next())
	assert.Equal(t, 1, w.Step)
	assert.Equal(t, 1, w.MaxVisited)
	assert.Contains(t, w.Errors, "companyName")
	assert.Contains(t, w.Errors, "taxId")
}

func TestWizardWalksValidApplication(t *testing.T) {
	w := newWizard(t, core.MemberTypeAC, formstest.Valid(core.MemberTypeAC))

	for step := 1; step < w.TotalSteps(); step++ {
		require.True(t, w.Next(), "step %d errors: %v", step, w.Errors)
		assert.Equal(t, step+1, w.Step)
		assert.Empty(t, w.Errors)
	}
	assert.True(t, w.IsLast())
	assert.Equal(t, 5, w.MaxVisited)

	// Next on the last step validates but never advances.
	assert.True(t, w.Next())
	assert.Equal(t, 5, w.Step)
}

func TestWizardBackClearsErrorsAndStopsAtOne(t *testing.T) {
	d := formstest.Valid(core.MemberTypeIC)
	d.Representatives = nil
	w := newWizard(t, core.MemberTypeIC, d)

	require.True(t, w.Next())
	assert.False(t, w.Next())
	assert.NotEmpty(t, w.Errors)

	w.Back()
	assert.Equal(t, 1, w.Step)
	assert.Empty(t, w.Errors)

	w.Back()
	assert.Equal(t, 1, w.Step)
}

func TestWizardGoTo(t *testing.T) {
	w := newWizard(t, core.MemberTypeOC, formstest.Valid(core.MemberTypeOC))
	require.True(t, w.Next())
	require.True(t, w.Next())
	require.Equal(t, 3, w.MaxVisited)

	require.NoError(t, w.GoTo(1))
	assert.Equal(t, 1, w.Step)
	assert.Equal(t, 3, w.MaxVisited)

	require.NoError(t, w.GoTo(3))

	err := w.GoTo(4)
	assert.True(t, errors.Is(err, core.ErrInvalidStep))
	assert.Equal(t, 3, w.Step)

	assert.Error(t, w.GoTo(0))
}

func TestWizardResumeClampsStep(t *testing.T) {
	w := newWizard(t, core.MemberTypeOC, formstest.Valid(core.MemberTypeOC))
	w.Resume(9)
	assert.Equal(t, 5, w.Step)
	assert.Equal(t, 5, w.MaxVisited)

	w = newWizard(t, core.MemberTypeOC, nil)
	w.Resume(0)
	assert.Equal(t, 1, w.Step)
	assert.NotNil(t, w.Data)
}

func TestWizardApplyAndRestore(t *testing.T) {
	def, err := core.Definition(core.MemberTypeAC)
	require.NoError(t, err)

	w := core.RestoreWizard(def, 7, 2, formstest.Valid(core.MemberTypeAC))
	assert.Equal(t, 2, w.Step, "step is clamped to maxVisited")

	require.NoError(t, w.Apply(core.WizardNext, 0))
	assert.Equal(t, 3, w.Step)
	require.NoError(t, w.Apply(core.WizardBack, 0))
	assert.Equal(t, 2, w.Step)
	require.NoError(t, w.Apply(core.WizardGoTo, 1))
	assert.Equal(t, 1, w.Step)
	assert.Error(t, w.Apply("jump", 0))
}

func TestRestoreWizardRechecksVisitedSteps(t *testing.T) {
	def, err := core.Definition(core.MemberTypeOC)
	require.NoError(t, err)

	w := core.RestoreWizard(def, 1, 5, &core.ApplicationData{})
	assert.Equal(t, 1, w.MaxVisited, "invalid step 1 caps the reachable steps")
	assert.True(t, errors.Is(w.GoTo(5), core.ErrInvalidStep))

	d := formstest.Valid(core.MemberTypeOC)
	d.Representatives = nil
	w = core.RestoreWizard(def, 4, 5, d)
	assert.Equal(t, 2, w.MaxVisited, "step 2 is the first invalid step")
	assert.Equal(t, 2, w.Step)

	w = core.RestoreWizard(def, 4, 5, formstest.Valid(core.MemberTypeOC))
	assert.Equal(t, 5, w.MaxVisited)
	assert.Equal(t, 4, w.Step)
}
