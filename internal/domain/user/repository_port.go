package user

import (
	"context"
	"errors"

	cartdom "flipmart/internal/domain/cart"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user: not found")

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("user: email already registered")

// CartMutator transforms the stored cart lines into their next state.
// It runs inside the repository's read-modify-write boundary, so it must
// be side-effect free and cheap to re-run on transaction retry.
type CartMutator func(cartdom.Lines) (cartdom.Lines, error)

// Repository is the persistence port for User.
//
// Storage recommendation (Firestore):
// - collection: users
// - docId: user id
// - fields: name, email, passwordHash, cart(array), createdAt
type Repository interface {
	// GetByID returns (nil, ErrNotFound) when the user does not exist.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns (nil, ErrNotFound) when no user has that email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a new user. Returns ErrEmailTaken on duplicate email.
	Create(ctx context.Context, u *User) error

	// MutateCart applies mutate to the user's embedded cart as a single
	// atomic read-modify-write and returns the resulting lines.
	// Implementations provide the atomicity (e.g. a Firestore transaction).
	MutateCart(ctx context.Context, userID string, mutate CartMutator) (cartdom.Lines, error)
}
