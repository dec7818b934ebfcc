package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipmart/internal/client/localstore"
	"flipmart/internal/platform/token"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mintCredential(t *testing.T, ttl time.Duration) string {
	t.Helper()
	minter := token.NewMinterWithClock([]byte("secret"), ttl, func() time.Time { return testNow.Add(-time.Minute) })
	credential, err := minter.Mint("u1", "Ada", "ada@example.com")
	require.NoError(t, err)
	return credential
}

func newTestManager(t *testing.T) (*Manager, *localstore.Store) {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return NewManagerWithClock(store, func() time.Time { return testNow }), store
}

func TestBootstrapWithoutCredential(t *testing.T) {
	m, _ := newTestManager(t)
	assert.False(t, m.Ready())

	m.Bootstrap()

	assert.True(t, m.Ready())
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestBootstrapRestoresPersistedCredential(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Set("token", mintCredential(t, time.Hour)))

	var transitions int
	m.Subscribe(func(prev, cur *token.Identity) {
		transitions++
		assert.Nil(t, prev)
		require.NotNil(t, cur)
		assert.Equal(t, "u1", cur.SubjectID)
	})

	m.Bootstrap()

	ident, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, "Ada", ident.Name)
	assert.Equal(t, 1, transitions)

	// bootstrap is once-only
	m.Bootstrap()
	assert.Equal(t, 1, transitions)
}

func TestBootstrapExpiredCredentialResolvesToAnonymous(t *testing.T) {
	m, store := newTestManager(t)
	require.NoError(t, store.Set("token", mintCredential(t, time.Second)))

	m.Bootstrap()

	assert.True(t, m.Ready())
	_, ok := m.Identity()
	assert.False(t, ok)

	// the stale credential is cleared from storage
	_, found, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoginValidCredential(t *testing.T) {
	m, store := newTestManager(t)
	m.Bootstrap()

	require.NoError(t, m.Login(mintCredential(t, time.Hour)))

	ident, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, "u1", ident.SubjectID)

	credential, ok := m.Credential()
	assert.True(t, ok)
	assert.NotEmpty(t, credential)

	persisted, found, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, credential, persisted)
}

func TestLoginExpiredCredentialBehavesLikeLogout(t *testing.T) {
	m, store := newTestManager(t)
	m.Bootstrap()

	err := m.Login(mintCredential(t, time.Second))
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, ok := m.Identity()
	assert.False(t, ok)
	_, found, ferr := store.Get("token")
	require.NoError(t, ferr)
	assert.False(t, found)
}

func TestLoginMalformedCredential(t *testing.T) {
	m, _ := newTestManager(t)
	m.Bootstrap()

	assert.ErrorIs(t, m.Login("not-a-jwt"), ErrInvalidCredential)
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	m, store := newTestManager(t)
	m.Bootstrap()
	require.NoError(t, m.Login(mintCredential(t, time.Hour)))

	var sawLogout bool
	m.Subscribe(func(prev, cur *token.Identity) {
		if prev != nil && cur == nil {
			sawLogout = true
		}
	})

	m.Logout()

	_, ok := m.Identity()
	assert.False(t, ok)
	assert.True(t, sawLogout)

	_, found, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogoutWhileAnonymousDoesNotSignal(t *testing.T) {
	m, _ := newTestManager(t)
	m.Bootstrap()

	var transitions int
	m.Subscribe(func(prev, cur *token.Identity) { transitions++ })

	m.Logout()
	assert.Equal(t, 0, transitions)
}
