package domain

import (
	"fmt"
	"slices"
)

// Flow is an immutable questionnaire definition.
type Flow struct {
	ID          string
	Name        string
	Description string
	Steps       []Step
	InitialStep string
	// Modules declares every selectable module id.
	Modules []string
	// EstimatedDurationMinutes is the static baseline of the duration estimate.
	EstimatedDurationMinutes int
	// ModuleMinutes is the extra duration each selected module adds.
	ModuleMinutes map[string]int

	index map[string]int
}

// NewFlow indexes a definition, rejecting duplicate ids and a missing
// initial step.
func NewFlow(def Flow) (*Flow, error) {
	f := def
	f.Steps = slices.Clone(def.Steps)
	f.Modules = slices.Clone(def.Modules)
	f.index = make(map[string]int, len(f.Steps))
	for i, s := range f.Steps {
		if s.ID == "" {
			return nil, fmt.Errorf("flow %s: step at position %d has no id", f.ID, i)
		}
		if s.ID == StepEnd {
			return nil, fmt.Errorf("flow %s: step id %q is reserved", f.ID, StepEnd)
		}
		if _, dup := f.index[s.ID]; dup {
			return nil, fmt.Errorf("flow %s: %w: %s", f.ID, ErrDuplicateStep, s.ID)
		}
		f.index[s.ID] = i
	}
	if _, ok := f.index[f.InitialStep]; !ok {
		return nil, &UnknownStepError{StepID: f.InitialStep, ReferencedBy: "initial step"}
	}
	return &f, nil
}

// Step looks up a step definition by id.
func (f *Flow) Step(id string) (*Step, bool) {
	if f.index != nil {
		i, ok := f.index[id]
		if !ok {
			return nil, false
		}
		return &f.Steps[i], true
	}
	for i := range f.Steps {
		if f.Steps[i].ID == id {
			return &f.Steps[i], true
		}
	}
	return nil, false
}

// Len returns the number of steps.
func (f *Flow) Len() int { return len(f.Steps) }

// DeclaresModule reports whether id is one of the flow modules.
func (f *Flow) DeclaresModule(id string) bool {
	return slices.Contains(f.Modules, id)
}

// EstimateMinutes is the static baseline plus the cost of each selected module.
func (f *Flow) EstimateMinutes(selected []string) int {
	total := f.EstimatedDurationMinutes
	for _, m := range selected {
		total += f.ModuleMinutes[m]
	}
	return total
}
