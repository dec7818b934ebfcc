package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
)

func seedUser(t *testing.T, repo *fakeUserRepo, id string) {
	t.Helper()
	u, err := userdom.New(id, "Test User", id+"@example.com", "hash", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
}

func TestCartGetEmptyForFreshUser(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)

	items, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartAddOrIncrement(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)
	ctx := context.Background()

	items, err := uc.AddOrIncrement(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, cartdom.Lines{{ProductID: "p1", Quantity: 1}}, items)

	items, err = uc.AddOrIncrement(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, items.Quantity("p1"))

	_, err = uc.AddOrIncrement(ctx, "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrCartInvalidQuantity)
}

func TestCartUpsertLineIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)
	ctx := context.Background()

	once, err := uc.UpsertLine(ctx, "u1", "p1", 4)
	require.NoError(t, err)
	twice, err := uc.UpsertLine(ctx, "u1", "p1", 4)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 4, twice.Quantity("p1"))
}

func TestCartUpsertLineRejectsZero(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)

	_, err := uc.UpsertLine(context.Background(), "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrCartInvalidQuantity)
}

func TestCartRemoveLineAbsentIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)
	ctx := context.Background()

	_, err := uc.UpsertLine(ctx, "u1", "p1", 2)
	require.NoError(t, err)

	items, err := uc.RemoveLine(ctx, "u1", "missing")
	require.NoError(t, err)
	assert.Equal(t, cartdom.Lines{{ProductID: "p1", Quantity: 2}}, items)
}

func TestCartClear(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "u1")
	uc := NewCartUsecase(repo)
	ctx := context.Background()

	_, err := uc.AddOrIncrement(ctx, "u1", "p1", 2)
	require.NoError(t, err)

	items, err := uc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// idempotent
	items, err = uc.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartUnknownUser(t *testing.T) {
	uc := NewCartUsecase(newFakeUserRepo())

	_, err := uc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, userdom.ErrNotFound)
}
