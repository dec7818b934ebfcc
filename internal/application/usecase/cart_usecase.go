package usecase

import (
	"context"
	"errors"
	"strings"

	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartInvalidQuantity = errors.New("cart_usecase: quantity must be >= 1")
)

// CartUsecase coordinates server-side cart operations. The cart lives
// embedded in the owning user's record; every mutation here is a single
// atomic read-modify-write provided by the repository.
type CartUsecase struct {
	users userdom.Repository
}

func NewCartUsecase(users userdom.Repository) *CartUsecase {
	return &CartUsecase{users: users}
}

// Get returns the user's cart. A user without a cart field yields empty lines.
func (uc *CartUsecase) Get(ctx context.Context, userID string) (cartdom.Lines, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	u, err := uc.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.Cart == nil {
		return cartdom.Lines{}, nil
	}
	return u.Cart, nil
}

// AddOrIncrement adds qty to an existing line or inserts a new one.
// qty must be >= 1.
func (uc *CartUsecase) AddOrIncrement(ctx context.Context, userID, productID string, qty int) (cartdom.Lines, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}
	if qty < 1 {
		return nil, ErrCartInvalidQuantity
	}

	return uc.users.MutateCart(ctx, uid, func(ls cartdom.Lines) (cartdom.Lines, error) {
		return ls.AddOrIncrement(pid, qty)
	})
}

// UpsertLine overwrites the quantity for productID, appending the line
// when absent. qty < 1 is a validation error, never a silent removal.
func (uc *CartUsecase) UpsertLine(ctx context.Context, userID, productID string, qty int) (cartdom.Lines, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}
	if qty < 1 {
		return nil, ErrCartInvalidQuantity
	}

	return uc.users.MutateCart(ctx, uid, func(ls cartdom.Lines) (cartdom.Lines, error) {
		return ls.SetQuantity(pid, qty)
	})
}

// RemoveLine deletes the line for productID. Removing an absent line
// succeeds and leaves the stored cart unchanged.
func (uc *CartUsecase) RemoveLine(ctx context.Context, userID, productID string) (cartdom.Lines, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	return uc.users.MutateCart(ctx, uid, func(ls cartdom.Lines) (cartdom.Lines, error) {
		return ls.Remove(pid)
	})
}

// Clear empties the user's cart. Idempotent.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) (cartdom.Lines, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	return uc.users.MutateCart(ctx, uid, func(cartdom.Lines) (cartdom.Lines, error) {
		return cartdom.Lines{}, nil
	})
}
