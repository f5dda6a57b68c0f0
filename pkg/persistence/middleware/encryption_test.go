package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/onboarding/pkg/adapters/memory"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sampleState(id string) *domain.AnswerState {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.AnswerState{
		SessionID: id,
		FlowID:    "flow",
		Locale:    domain.LocaleUS,
		Answers: map[string]domain.Value{
			"firstName": domain.TextValue("Alex"),
			"age":       domain.NumberValue(31),
			"sport":     domain.TextValue("rugby"),
		},
		SelectedModules: []string{"sport"},
		Progress:        domain.Progress{CurrentStepID: "summary", CompletedStepIDs: []string{"welcome"}},
		Status:          domain.StatusActive,
		Journal: []domain.Revision{{
			StepID:   "get_name",
			Previous: map[string]domain.Value{"firstName": domain.TextValue("Al")},
		}},
		StartedAt:   now,
		LastUpdated: now,
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)

	original := sampleState("s1")
	require.NoError(t, secure.Save(ctx, "s1", original))

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, stored.Answers, 1)
	assert.Contains(t, stored.Answers, middleware.EnvelopeKey)
	assert.Empty(t, stored.SelectedModules)
	assert.Equal(t, "s1", stored.SessionID)
	assert.Equal(t, domain.StatusActive, stored.Status)

	loaded, err := secure.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", loaded.Answer("firstName").String())
	assert.Equal(t, []string{"sport"}, loaded.SelectedModules)
	assert.Equal(t, "summary", loaded.Progress.CurrentStepID)

	ids, err := secure.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	require.NoError(t, secure.Delete(ctx, "s1"))
	_, err = secure.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	withOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, withOld.Save(ctx, "s1", sampleState("s1")))

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", loaded.Answer("firstName").String())

	loaded.Answers["firstName"] = domain.TextValue("Sam")
	require.NoError(t, rotated.Save(ctx, "s1", loaded))

	_, err = withOld.Load(ctx, "s1")
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryptionMiddleware_RejectsPlainState(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "plain", sampleState("plain")))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}
