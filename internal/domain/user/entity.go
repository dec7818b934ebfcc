package user

import (
	"errors"
	"strings"
	"time"

	cartdom "flipmart/internal/domain/cart"
)

var ErrInvalidUser = errors.New("user: invalid")

// User represents one account document.
//   - docId = user id (uuid)
//   - Cart is embedded in the owning user's record; it is the server-side
//     source of truth for that identity's cart.
type User struct {
	ID           string        `json:"id" firestore:"id"`
	Name         string        `json:"name" firestore:"name"`
	Email        string        `json:"email" firestore:"email"`
	PasswordHash string        `json:"-" firestore:"passwordHash"`
	Cart         cartdom.Lines `json:"cart" firestore:"cart"`
	CreatedAt    time.Time     `json:"createdAt" firestore:"createdAt"`
}

// New creates a new user document. Cart starts empty.
func New(id, name, email, passwordHash string, now time.Time) (*User, error) {
	u := &User{
		ID:           strings.TrimSpace(id),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Cart:         cartdom.Lines{},
		CreatedAt:    now,
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) validate() error {
	if u == nil {
		return ErrInvalidUser
	}
	if u.ID == "" || u.Name == "" || u.Email == "" || u.PasswordHash == "" {
		return ErrInvalidUser
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidUser
	}
	if u.CreatedAt.IsZero() {
		return ErrInvalidUser
	}
	return nil
}
