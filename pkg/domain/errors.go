package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowComplete is returned when a completed session is asked for a step.
var ErrFlowComplete = errors.New("flow complete")

// ErrNoHistory is returned when going back with no completed step.
var ErrNoHistory = errors.New("no completed step to go back to")

// ErrInvalidInput is returned when a raw response cannot be coerced to the
// input kind of the current step.
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateStep is returned when a flow declares the same step id twice.
var ErrDuplicateStep = errors.New("duplicate step id")

// UnknownStepError reports a reference to a step id the flow does not define.
// It is a flow-definition defect, not a user error.
type UnknownStepError struct {
	StepID       string
	ReferencedBy string
}

func (e *UnknownStepError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unknown step '%s'", e.StepID)
	}
	return fmt.Sprintf("unknown step '%s' (referenced by %s)", e.StepID, e.ReferencedBy)
}

// NavigationCycleError reports a skip-chain longer than the flow itself.
type NavigationCycleError struct {
	From  string
	Chain []string
	Limit int
}

func (e *NavigationCycleError) Error() string {
	return fmt.Sprintf("skip chain from '%s' exceeded %d hops: %s", e.From, e.Limit, strings.Join(e.Chain, " -> "))
}
