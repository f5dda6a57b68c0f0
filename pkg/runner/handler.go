package runner

import (
	"context"

	"github.com/aretw0/onboarding/pkg/domain"
)

// Reply is what a handler read for the current step.
type Reply struct {
	// Value is the loosely typed response, coerced by Session.SubmitRaw.
	Value any `json:"value"`
	// Back asks to return to the previous step instead of answering.
	Back bool `json:"back,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
// Input returns io.EOF when the user wants to stop.
type IOHandler interface {
	// Output presents the current step.
	Output(ctx context.Context, step domain.ResolvedStep, progress domain.Progress) error

	// Input reads a reply to step.
	Input(ctx context.Context, step domain.ResolvedStep) (Reply, error)

	// SystemOutput presents a meta-message (validation feedback, status).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written, e.g. to ANSI.
type ContentRenderer func(string) (string, error)

// StepFormatter turns a resolved step into the text shown by TextHandler.
type StepFormatter func(step domain.ResolvedStep, progress domain.Progress, render ContentRenderer) string
