package domain

import "slices"

// StateDiff represents the changes between two answer states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentStepID *string        `json:"current_step_id,omitempty"`
	Status        *SessionStatus `json:"status,omitempty"`

	// Answers contains only changed, added or deleted keys.
	// For deletions, the key is present with a None value.
	Answers map[string]Value `json:"answers,omitempty"`

	// SelectedModules is the full module set, present when it changed.
	SelectedModules []string `json:"selected_modules,omitempty"`

	// Completed holds step ids appended to the completed list.
	Completed *CompletedDelta `json:"completed,omitempty"`

	EstimatedTimeLeftMinutes *int `json:"estimated_time_left_minutes,omitempty"`
}

// CompletedDelta represents changes to the completed-step list.
// Popped counts entries removed from the tail (going back).
type CompletedDelta struct {
	Appended []string `json:"appended,omitempty"`
	Popped   int      `json:"popped,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *AnswerState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.Progress.CurrentStepID != newState.Progress.CurrentStepID {
		id := newState.Progress.CurrentStepID
		diff.CurrentStepID = &id
	}
	if oldState == nil || oldState.Status != newState.Status {
		st := newState.Status
		diff.Status = &st
	}
	if oldState == nil || oldState.Progress.EstimatedTimeLeftMinutes != newState.Progress.EstimatedTimeLeftMinutes {
		left := newState.Progress.EstimatedTimeLeftMinutes
		diff.EstimatedTimeLeftMinutes = &left
	}
	if oldState == nil || !slices.Equal(oldState.SelectedModules, newState.SelectedModules) {
		if len(newState.SelectedModules) > 0 || oldState != nil {
			diff.SelectedModules = slices.Clone(newState.SelectedModules)
			if diff.SelectedModules == nil {
				diff.SelectedModules = []string{}
			}
		}
	}

	diff.Answers = diffAnswers(oldState, newState)
	diff.Completed = diffCompleted(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old, new *AnswerState) map[string]Value {
	delta := make(map[string]Value)

	if old == nil {
		for k, v := range new.Answers {
			delta[k] = v
		}
	} else {
		for k, newVal := range new.Answers {
			oldVal, exists := old.Answers[k]
			if !exists || !oldVal.Equal(newVal) {
				delta[k] = newVal
			}
		}
		for k := range old.Answers {
			if _, exists := new.Answers[k]; !exists {
				delta[k] = None()
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffCompleted assumes the list only grows by appends or shrinks by pops.
func diffCompleted(old, new *AnswerState) *CompletedDelta {
	newList := new.Progress.CompletedStepIDs
	if old == nil {
		if len(newList) == 0 {
			return nil
		}
		return &CompletedDelta{Appended: slices.Clone(newList)}
	}

	oldList := old.Progress.CompletedStepIDs
	switch {
	case len(newList) > len(oldList):
		return &CompletedDelta{Appended: slices.Clone(newList[len(oldList):])}
	case len(newList) < len(oldList):
		return &CompletedDelta{Popped: len(oldList) - len(newList)}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentStepID == nil &&
		d.Status == nil &&
		d.EstimatedTimeLeftMinutes == nil &&
		d.SelectedModules == nil &&
		len(d.Answers) == 0 &&
		d.Completed == nil
}
