package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, KeyCart, []byte(`[]`)))
	value, err := m.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
	assert.True(t, m.Has(KeyCart))

	require.NoError(t, m.Remove(ctx, KeyCart))
	assert.False(t, m.Has(KeyCart))

	// Removing an absent slot is fine
	require.NoError(t, m.Remove(ctx, KeyCart))
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestNamespace_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()

	alice := Namespace(base, "alice")
	bob := Namespace(base, "bob")

	require.NoError(t, alice.Set(ctx, KeyCart, []byte("a")))
	require.NoError(t, bob.Set(ctx, KeyCart, []byte("b")))

	got, err := alice.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	assert.True(t, base.Has("alice:cartItems"))
	assert.True(t, base.Has("bob:cartItems"))

	require.NoError(t, bob.Remove(ctx, KeyCart))
	_, err = bob.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, base.Len())
}
