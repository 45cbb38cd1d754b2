package form

import apperrors "github.com/shelfmark/shelfmark-server/internal/errors"

// The multi-step edit flow splits the form into three pages. Step
// advance is gated on the active step validating, and the final step
// is unreachable until the required fields from step one are filled.
const (
	// StepDetails covers title, author, cover, and description.
	StepDetails = 1
	// StepReading covers dates, rating, format, and pages.
	StepReading = 2
	// StepExtras covers genres, characters, quotes, and verdicts.
	StepExtras = 3

	stepCount = 3
)

// Step returns the active step, 1-based.
func (f *Form) Step() int { return f.step }

// StepValid reports whether the given step's own constraints hold.
func (f *Form) StepValid(step int) bool {
	switch step {
	case StepDetails:
		return f.draft.HasRequired()
	case StepReading:
		return f.draft.DatesOrdered()
	case StepExtras:
		return true
	default:
		return false
	}
}

// NextStep advances to the following step. The active step must
// validate, and moving onto the final step re-checks the required
// fields from the first.
func (f *Form) NextStep() error {
	if f.step >= stepCount {
		return apperrors.Validation("already on the final step")
	}
	if !f.StepValid(f.step) {
		return apperrors.Validation("complete the current step first")
	}
	if f.step+1 == stepCount && !f.StepValid(StepDetails) {
		return apperrors.Validation("title and author are required")
	}
	f.step++
	return nil
}

// PrevStep moves back one step. Going back is never gated.
func (f *Form) PrevStep() {
	if f.step > 1 {
		f.step--
	}
}
