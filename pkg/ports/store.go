package ports

import (
	"context"

	"github.com/aretw0/onboarding/pkg/domain"
)

// StateStore defines the interface for persisting answer state.
// It is what lets a user close the app mid-flow and resume later.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.AnswerState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.AnswerState, error)

	// Delete removes the state for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
