package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter        EventType = "step_enter"
	EventStepComplete     EventType = "step_complete"
	EventStepSkipped      EventType = "step_skipped"
	EventValidationFailed EventType = "validation_failed"
	EventStateChange      EventType = "state_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	FlowID    string    `json:"flow_id"`
}

// StepEvent represents entering, completing or skipping a step.
type StepEvent struct {
	EventBase
	StepID   string   `json:"step_id"`
	StepKind StepKind `json:"step_kind,omitempty"`
}

// ValidationEvent represents a rejected response.
type ValidationEvent struct {
	EventBase
	StepID  string   `json:"step_id"`
	Field   string   `json:"field,omitempty"`
	Reason  RuleKind `json:"reason"`
	Message string   `json:"message"`
}

// StateChangeEvent carries the snapshot after a mutation, for an external
// layer to persist or broadcast.
type StateChangeEvent struct {
	EventBase
	State *AnswerState `json:"state"`
	Diff  *StateDiff   `json:"diff,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter        func(context.Context, *StepEvent)
	OnStepComplete     func(context.Context, *StepEvent)
	OnStepSkipped      func(context.Context, *StepEvent)
	OnValidationFailed func(context.Context, *ValidationEvent)
	OnStateChange      func(context.Context, *StateChangeEvent)
}
