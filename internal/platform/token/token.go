// Package token mints and decodes the bearer credential used by the
// storefront. The credential is a self-describing HS256 JWT carrying
// {id, name, email, exp}; holders can decode and expiry-check it without
// a server round-trip, while the API verifies the signature as well.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token: invalid")
	ErrExpired      = errors.New("token: expired")
)

// Identity is the decoded, currently-valid subject derived from a credential.
type Identity struct {
	SubjectID string
	Name      string
	Email     string
}

// Claims is the signed claim set embedded in the credential.
type Claims struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Minter issues credentials for authenticated users.
type Minter struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewMinter(secret []byte, ttl time.Duration) *Minter {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Minter{secret: secret, ttl: ttl, now: time.Now}
}

// NewMinterWithClock is useful for tests.
func NewMinterWithClock(secret []byte, ttl time.Duration, now func() time.Time) *Minter {
	m := NewMinter(secret, ttl)
	if now != nil {
		m.now = now
	}
	return m
}

// Mint signs a credential for the identity. name/email are optional claims.
func (m *Minter) Mint(subjectID, name, email string) (string, error) {
	if m == nil || len(m.secret) == 0 {
		return "", errors.New("token: minter is not configured")
	}
	sid := strings.TrimSpace(subjectID)
	if sid == "" {
		return "", ErrInvalidToken
	}

	now := m.now()
	claims := Claims{
		ID:    sid,
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verifier checks credential signatures server-side.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret, now: time.Now}
}

// NewVerifierWithClock is useful for tests.
func NewVerifierWithClock(secret []byte, now func() time.Time) *Verifier {
	v := NewVerifier(secret)
	if now != nil {
		v.now = now
	}
	return v
}

// Verify checks signature and expiry and returns the embedded identity.
func (v *Verifier) Verify(credential string) (Identity, error) {
	if v == nil || len(v.secret) == 0 {
		return Identity{}, errors.New("token: verifier is not configured")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(credential),
		&claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpired
		}
		return Identity{}, ErrInvalidToken
	}
	return identityFromClaims(claims)
}

// DecodeUnverified decodes the claim set WITHOUT checking the signature,
// rejecting expired or malformed credentials. This is the client-side
// decode path: the token is treated as self-describing and the server
// remains the only party that verifies signatures.
func DecodeUnverified(credential string, now time.Time) (Identity, error) {
	var claims Claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(strings.TrimSpace(credential), &claims); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return Identity{}, ErrInvalidToken
	}
	// exp*1000 < now in milliseconds, same cutoff the web client used
	if claims.ExpiresAt.UnixMilli() < now.UnixMilli() {
		return Identity{}, ErrExpired
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims Claims) (Identity, error) {
	sid := strings.TrimSpace(claims.ID)
	if sid == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		SubjectID: sid,
		Name:      strings.TrimSpace(claims.Name),
		Email:     strings.TrimSpace(claims.Email),
	}, nil
}
