package middleware

import (
	"context"
	"net/http"
	"strings"

	userdom "flipmart/internal/domain/user"
	"flipmart/internal/platform/token"
)

type ctxKey int

const (
	ctxKeyIdentity ctxKey = iota
)

// IdentityLookup resolves a verified subject id to its user record.
type IdentityLookup interface {
	Lookup(ctx context.Context, subjectID string) (*userdom.User, error)
}

// UserAuthMiddleware verifies the bearer credential (signed HS256 JWT),
// resolves it to a stored user and puts the identity into the request
// context. Any failure is a 401 before the store is ever touched.
type UserAuthMiddleware struct {
	Verifier *token.Verifier
	Lookup   IdentityLookup
}

func (m *UserAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Verifier == nil || m.Lookup == nil {
			http.Error(w, "user auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		credential := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if credential == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		ident, err := m.Verifier.Verify(credential)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		u, err := m.Lookup.Lookup(r.Context(), ident.SubjectID)
		if err != nil || u == nil {
			http.Error(w, "user not found", http.StatusUnauthorized)
			return
		}

		// prefer stored profile fields over token claims
		ident.Name = u.Name
		ident.Email = u.Email

		ctx := context.WithValue(r.Context(), ctxKeyIdentity, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentIdentity returns the authenticated identity for the request.
func CurrentIdentity(r *http.Request) (token.Identity, bool) {
	ident, ok := r.Context().Value(ctxKeyIdentity).(token.Identity)
	if !ok || strings.TrimSpace(ident.SubjectID) == "" {
		return token.Identity{}, false
	}
	return ident, true
}
