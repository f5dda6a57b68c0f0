package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractState(sessionID string) *domain.AnswerState {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.AnswerState{
		SessionID:       sessionID,
		FlowID:          "contract",
		Locale:          domain.LocaleFR,
		Answers:         map[string]domain.Value{},
		SelectedModules: []string{},
		Progress: domain.Progress{
			CurrentStepID:    "start",
			CompletedStepIDs: []string{},
		},
		Status:      domain.StatusActive,
		StartedAt:   now,
		LastUpdated: now,
	}
}

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState(sessionID)
		state.Answers["firstName"] = domain.TextValue("Ana")
		state.Answers["age"] = domain.NumberValue(29)
		state.Answers["selectedModules"] = domain.ListValue("sport", "sleep")
		state.Answers["privacyConsent"] = domain.BoolValue(true)
		state.SelectedModules = []string{"sport", "sleep"}
		state.Progress.CompletedStepIDs = []string{"welcome", "get_name"}
		state.Progress.SkipCount = 1
		state.Journal = []domain.Revision{{StepID: "get_name", Absent: []string{"firstName"}, Modules: []string{}}}

		require.NoError(t, store.Save(ctx, sessionID, state), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Progress, loaded.Progress)
		assert.Equal(t, state.SelectedModules, loaded.SelectedModules)
		assert.True(t, state.StartedAt.Equal(loaded.StartedAt))
		for key, want := range state.Answers {
			assert.True(t, want.Equal(loaded.Answer(key)), "answer %s: got %s", key, loaded.Answer(key))
		}
		require.Len(t, loaded.Journal, 1)
		assert.Equal(t, "get_name", loaded.Journal[0].StepID)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractState(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Answers["mutated"] = domain.TextValue("x")

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.KindNone, again.Answer("mutated").Kind())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractState(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, contractState(id1))
		_ = store.Save(ctx, id2, contractState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
