package usecase

import (
	"context"
	"sync"

	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
)

// fakeUserRepo is an in-memory user.Repository for tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*userdom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdom.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*userdom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, userdom.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*userdom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userdom.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *userdom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return userdom.ErrEmailTaken
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) MutateCart(_ context.Context, userID string, mutate userdom.CartMutator) (cartdom.Lines, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, userdom.ErrNotFound
	}
	next, err := mutate(u.Cart)
	if err != nil {
		return nil, err
	}
	u.Cart = next
	return next, nil
}
