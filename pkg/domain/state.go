package domain

import (
	"slices"
	"time"
)

// Locale selects the language variant of computed content.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleUS Locale = "us"
)

// SessionStatus tells whether the flow still expects responses.
type SessionStatus string

const (
	StatusActive   SessionStatus = "active"
	StatusComplete SessionStatus = "complete"
)

// StepEnd is the terminal sentinel: the flow is complete.
const StepEnd = "$end"

// Progress is the traversal bookkeeping of a session.
type Progress struct {
	CurrentStepID string `json:"current_step_id"`
	// CompletedStepIDs lists visited steps only; skipped steps never appear.
	CompletedStepIDs         []string `json:"completed_step_ids"`
	EstimatedTimeLeftMinutes int      `json:"estimated_time_left_minutes"`
	EstimatedTotalMinutes    int      `json:"estimated_total_minutes"`
	SpentMinutes             int      `json:"spent_minutes"`
	SkipCount                int      `json:"skip_count"`
}

// Revision records what a submission overwrote, so it can be undone.
type Revision struct {
	StepID   string           `json:"step_id"`
	Previous map[string]Value `json:"previous,omitempty"`
	Absent   []string         `json:"absent,omitempty"`
	Modules  []string         `json:"modules"`
	Minutes  int              `json:"minutes"`
}

// AnswerState is the single mutable aggregate threaded through a traversal.
type AnswerState struct {
	SessionID       string           `json:"session_id"`
	FlowID          string           `json:"flow_id"`
	Locale          Locale           `json:"locale"`
	Answers         map[string]Value `json:"answers"`
	SelectedModules []string         `json:"selected_modules"`
	Progress        Progress         `json:"progress"`
	Status          SessionStatus    `json:"status"`
	Journal         []Revision       `json:"journal,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// NewAnswerState creates the state of a fresh traversal of flow.
func NewAnswerState(sessionID string, flow *Flow, locale Locale, now time.Time) *AnswerState {
	if locale == "" {
		locale = LocaleFR
	}
	total := flow.EstimateMinutes(nil)
	return &AnswerState{
		SessionID:       sessionID,
		FlowID:          flow.ID,
		Locale:          locale,
		Answers:         make(map[string]Value),
		SelectedModules: []string{},
		Progress: Progress{
			CurrentStepID:            flow.InitialStep,
			CompletedStepIDs:         []string{},
			EstimatedTimeLeftMinutes: total,
			EstimatedTotalMinutes:    total,
		},
		Status:      StatusActive,
		StartedAt:   now,
		LastUpdated: now,
	}
}

// Answer returns the stored answer for key (None when absent).
func (s *AnswerState) Answer(key string) Value {
	if s == nil {
		return None()
	}
	if v, ok := s.Answers[key]; ok {
		return v
	}
	return None()
}

// HasModule reports whether the module is selected.
func (s *AnswerState) HasModule(id string) bool {
	return s != nil && slices.Contains(s.SelectedModules, id)
}

// AddModules unions ids into SelectedModules, keeping insertion order.
// It reports whether the set changed.
func (s *AnswerState) AddModules(ids ...string) bool {
	changed := false
	for _, id := range ids {
		if id == "" || slices.Contains(s.SelectedModules, id) {
			continue
		}
		s.SelectedModules = append(s.SelectedModules, id)
		changed = true
	}
	return changed
}

// IsComplete reports whether the terminal sentinel was reached.
func (s *AnswerState) IsComplete() bool {
	return s.Progress.CurrentStepID == StepEnd
}

// Clone deep-copies the state so the copy can be mutated safely.
func (s *AnswerState) Clone() *AnswerState {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]Value, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.SelectedModules = slices.Clone(s.SelectedModules)
	if next.SelectedModules == nil {
		next.SelectedModules = []string{}
	}
	next.Progress.CompletedStepIDs = slices.Clone(s.Progress.CompletedStepIDs)
	if next.Progress.CompletedStepIDs == nil {
		next.Progress.CompletedStepIDs = []string{}
	}
	if s.Journal != nil {
		next.Journal = make([]Revision, len(s.Journal))
		for i, r := range s.Journal {
			cp := r
			cp.Modules = slices.Clone(r.Modules)
			cp.Absent = slices.Clone(r.Absent)
			if r.Previous != nil {
				cp.Previous = make(map[string]Value, len(r.Previous))
				for k, v := range r.Previous {
					cp.Previous[k] = v
				}
			}
			next.Journal[i] = cp
		}
	}
	return &next
}
