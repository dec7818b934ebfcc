package product

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product: not found")

// Filter narrows catalog listings.
type Filter struct {
	Category string
}

// Repository is the read port for the product catalog (PostgreSQL).
type Repository interface {
	// List returns catalog entries matching filter, newest first.
	List(ctx context.Context, filter Filter, limit, offset int) ([]Product, error)

	// GetByID returns (nil, ErrNotFound) when the product does not exist.
	GetByID(ctx context.Context, id string) (*Product, error)
}
