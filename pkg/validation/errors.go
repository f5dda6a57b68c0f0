package validation

import (
	"errors"
	"fmt"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Failure represents a rejected response. It is expected and recoverable:
// Message is meant to be shown to the user verbatim.
type Failure struct {
	StepID  string          `json:"step_id"`
	Field   string          `json:"field,omitempty"` // Grouped field id, if the failure is field-scoped
	Reason  domain.RuleKind `json:"reason"`
	Message string          `json:"message"`
}

func (f *Failure) Error() string {
	scope := f.StepID
	if f.Field != "" {
		scope = fmt.Sprintf("%s.%s", f.StepID, f.Field)
	}
	if scope == "" {
		return fmt.Sprintf("%s: %s", f.Reason, f.Message)
	}
	return fmt.Sprintf("step %q: %s: %s", scope, f.Reason, f.Message)
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
