package localstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundtrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("cart", `[{"productId":"p1","quantity":2}]`))

	got, ok, err := s.Get("cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"productId":"p1","quantity":2}]`, got)

	require.NoError(t, s.Remove("cart"))
	_, ok, err = s.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, s.Remove("cart"))
}

func TestStoreRejectsInvalidKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "a/b", `a\b`} {
		_, _, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}
