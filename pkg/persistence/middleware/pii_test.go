package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/onboarding/pkg/adapters/memory"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_MasksOnSave(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	masked := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlying)

	state := sampleState("s1")
	require.NoError(t, masked.Save(ctx, "s1", state))

	assert.Equal(t, "Alex", state.Answer("firstName").String(), "in-memory state must not change")

	stored, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, stored.Answer("firstName").String())
	assert.Equal(t, middleware.Mask, stored.Answer("age").String())
	assert.Equal(t, "rugby", stored.Answer("sport").String())
	assert.Equal(t, middleware.Mask, stored.Journal[0].Previous["firstName"].String())
}

func TestPIIMiddleware_MasksOnLoad(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "s1", sampleState("s1")))

	view := middleware.NewPIIMiddleware([]string{"^sport$"})(underlying)
	loaded, err := view.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Answer("sport").String())
	assert.Equal(t, "Alex", loaded.Answer("firstName").String())

	plain, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "rugby", plain.Answer("sport").String())
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"^age$"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	require.NoError(t, store.Save(ctx, "s1", sampleState("s1")))

	raw, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, raw.Answers, middleware.EnvelopeKey)

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Answer("age").String())
	assert.Equal(t, domain.KindText, loaded.Answer("firstName").Kind())
}
