package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestMintVerifyRoundtrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minter := NewMinterWithClock(testSecret, time.Hour, func() time.Time { return now })
	verifier := NewVerifierWithClock(testSecret, func() time.Time { return now.Add(time.Minute) })

	credential, err := minter.Mint("u1", "Ada", "ada@example.com")
	require.NoError(t, err)

	ident, err := verifier.Verify(credential)
	require.NoError(t, err)
	assert.Equal(t, Identity{SubjectID: "u1", Name: "Ada", Email: "ada@example.com"}, ident)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minter := NewMinterWithClock(testSecret, time.Hour, func() time.Time { return now })
	verifier := NewVerifierWithClock(testSecret, func() time.Time { return now.Add(2 * time.Hour) })

	credential, err := minter.Mint("u1", "", "")
	require.NoError(t, err)

	_, err = verifier.Verify(credential)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	minter := NewMinter(testSecret, time.Hour)
	verifier := NewVerifier([]byte("other-secret"))

	credential, err := minter.Mint("u1", "", "")
	require.NoError(t, err)

	_, err = verifier.Verify(credential)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeUnverified(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minter := NewMinterWithClock(testSecret, time.Hour, func() time.Time { return now })

	credential, err := minter.Mint("u1", "Ada", "ada@example.com")
	require.NoError(t, err)

	// no signature check: any clock before expiry decodes
	ident, err := DecodeUnverified(credential, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.SubjectID)

	// expiry cutoff
	_, err = DecodeUnverified(credential, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDecodeUnverifiedMalformed(t *testing.T) {
	for _, credential := range []string{"", "garbage", "a.b.c"} {
		_, err := DecodeUnverified(credential, time.Now())
		assert.ErrorIs(t, err, ErrInvalidToken, "credential %q", credential)
	}
}
