package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMemoryProvider(t *testing.T) *MemoryProvider {
	t.Helper()
	p := NewMemoryProvider("stash_items")
	require.NoError(t, p.Init(context.Background()))
	return p
}

func TestMemoryProvider_RoundTrip(t *testing.T) {
	p := setupMemoryProvider(t)
	ctx := context.Background()

	want := testStorable("greeting")
	require.NoError(t, p.AddOrUpdate(ctx, want))

	got, err := p.Get(ctx, "greeting")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)

	// Later mutation of the caller's copy must not leak into the store.
	want.Contents = "mutated"
	again, err := p.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "payload for greeting", again.Contents)
}

func TestMemoryProvider_Lifecycle(t *testing.T) {
	p := NewMemoryProvider("stash_items")
	ctx := context.Background()

	// Not initialized: reads and writes fail like a missing table would.
	_, err := p.Get(ctx, "key")
	assert.Error(t, err)
	assert.Error(t, p.AddOrUpdate(ctx, testStorable("key")))

	exists, err := p.StoreExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.AddOrUpdate(ctx, testStorable("key")))

	// Second Init keeps the data.
	require.NoError(t, p.Init(ctx))
	got, err := p.Get(ctx, "key")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Drop, then re-init as empty.
	require.NoError(t, p.DeleteStore(ctx))
	exists, err = p.StoreExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, p.Init(ctx))
	all, err := p.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryProvider_Validation(t *testing.T) {
	p := setupMemoryProvider(t)
	ctx := context.Background()

	_, err := p.Get(ctx, "")
	assert.ErrorIs(t, err, ErrBlankKey)
	assert.ErrorIs(t, p.Delete(ctx, "   "), ErrBlankKey)

	bad := testStorable("bad")
	bad.Longevity = Longevity(9)
	assert.ErrorIs(t, p.AddOrUpdate(ctx, bad), ErrUnknownLongevity)

	unnamed := NewMemoryProvider("")
	assert.ErrorIs(t, unnamed.Init(ctx), ErrNoStoreName)
}

func TestMemoryProvider_DeleteIsIdempotent(t *testing.T) {
	p := setupMemoryProvider(t)
	ctx := context.Background()

	require.NoError(t, p.AddOrUpdate(ctx, testStorable("gone")))
	require.NoError(t, p.Delete(ctx, "gone"))
	assert.NoError(t, p.Delete(ctx, "gone"))

	got, err := p.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)
}
