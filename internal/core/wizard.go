package core

import "fmt"

// Wizard is the step state of one application form.
//
// The wizard never advances past a step whose validator reports errors, and
// only lets the applicant jump back to steps they already reached.
type Wizard struct {
	Type       MemberType       `json:"memberType"`
	Step       int              `json:"step"`
	MaxVisited int              `json:"maxVisited"`
	Data       *ApplicationData `json:"data"`
	Errors     ErrorMap         `json:"errors"`

	def FormDefinition
}

// NewWizard starts a wizard at step 1.
func NewWizard(def FormDefinition, data *ApplicationData) *Wizard {
	if data == nil {
		data = &ApplicationData{}
	}
	return &Wizard{
		Type:       def.Type,
		Step:       1,
		MaxVisited: 1,
		Data:       data,
		Errors:     ErrorMap{},
		def:        def,
	}
}

// RestoreWizard rebuilds a wizard from client-held state, clamping the step
// counters into the form's range. The claimed maxVisited is only honoured up
// to the first step whose data is invalid, since the wizard could not have
// advanced past it.
func RestoreWizard(def FormDefinition, step, maxVisited int, data *ApplicationData) *Wizard {
	w := NewWizard(def, data)
	w.MaxVisited = w.reachable(clamp(maxVisited, 1, def.TotalSteps()))
	w.Step = clamp(step, 1, w.MaxVisited)
	return w
}

// reachable returns the last step up to limit that the current data lets the
// wizard reach by Next.
func (w *Wizard) reachable(limit int) int {
	for step := 1; step < limit; step++ {
		errs, err := ValidateStep(w.def, w.Data, step)
		if err != nil || errs.HasErrors() {
			return step
		}
	}
	return limit
}

// Definition returns the form the wizard runs.
func (w *Wizard) Definition() FormDefinition {
	return w.def
}

// TotalSteps returns the number of steps of the form.
func (w *Wizard) TotalSteps() int {
	return w.def.TotalSteps()
}

// IsLast reports whether the wizard is on the final step.
func (w *Wizard) IsLast() bool {
	return w.Step == w.def.TotalSteps()
}

// Next validates the current step. When it is valid the errors are cleared
// and the wizard advances (staying put on the last step); otherwise the errors
// are kept and the step is unchanged. Reports whether the step was valid.
func (w *Wizard) Next() bool {
	errs, err := ValidateStep(w.def, w.Data, w.Step)
	if err != nil {
		w.Errors = ErrorMap{"step": err.Error()}
		return false
	}
	if errs.HasErrors() {
		w.Errors = errs
		return false
	}

	w.Errors = ErrorMap{}
	if w.Step < w.def.TotalSteps() {
		w.Step++
	}
	if w.Step > w.MaxVisited {
		w.MaxVisited = w.Step
	}
	return true
}

// Back moves to the previous step and clears errors. It never goes below 1.
func (w *Wizard) Back() {
	if w.Step > 1 {
		w.Step--
	}
	w.Errors = ErrorMap{}
}

// GoTo jumps to a step already visited.
func (w *Wizard) GoTo(step int) error {
	if step < 1 || step > w.MaxVisited {
		return fmt.Errorf("%w: cannot jump to step %d (visited up to %d)", ErrInvalidStep, step, w.MaxVisited)
	}
	w.Step = step
	w.Errors = ErrorMap{}
	return nil
}

// Resume places a wizard loaded from a draft at the saved step, limited to
// the form's last step.
func (w *Wizard) Resume(step int) {
	step = clamp(step, 1, w.def.TotalSteps())
	w.Step = step
	if step > w.MaxVisited {
		w.MaxVisited = step
	}
	w.Errors = ErrorMap{}
}

// WizardAction is a client navigation request.
type WizardAction string

const (
	WizardNext WizardAction = "next"
	WizardBack WizardAction = "back"
	WizardGoTo WizardAction = "goto"
)

// Apply performs action on w. target is used by WizardGoTo.
func (w *Wizard) Apply(action WizardAction, target int) error {
	switch action {
	case WizardNext:
		w.Next()
		return nil
	case WizardBack:
		w.Back()
		return nil
	case WizardGoTo:
		return w.GoTo(target)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidStep, action)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
