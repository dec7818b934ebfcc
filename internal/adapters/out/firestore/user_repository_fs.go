package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
)

// UserRepositoryFS implements user.Repository using Firestore.
//
// Collection design:
// - collection: users
// - docId: user id (uuid)
// - fields: name, email, passwordHash, cart(array of {productId, quantity}), createdAt
//
// The embedded cart array is only ever rewritten inside RunTransaction so
// each cart operation is a single atomic read-modify-write per request.
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(id)
	if uid == "" {
		return nil, errors.New("user_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, userdom.ErrNotFound
		}
		return nil, err
	}

	return userFromSnapshot(uid, snap.Data())
}

func (r *UserRepositoryFS) GetByEmail(ctx context.Context, email string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	em := strings.ToLower(strings.TrimSpace(email))
	if em == "" {
		return nil, errors.New("user_repository_fs: email is empty")
	}

	it := r.col().Where("email", "==", em).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, userdom.ErrNotFound
		}
		return nil, err
	}
	return userFromSnapshot(snap.Ref.ID, snap.Data())
}

func (r *UserRepositoryFS) Create(ctx context.Context, u *userdom.User) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return errors.New("user_repository_fs: user or user.ID is empty")
	}

	// Uniqueness check + create in one transaction.
	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		it := tx.Documents(r.col().Where("email", "==", u.Email).Limit(1))
		defer it.Stop()
		if _, err := it.Next(); err == nil {
			return userdom.ErrEmailTaken
		} else if !errors.Is(err, iterator.Done) {
			return err
		}
		return tx.Create(r.col().Doc(u.ID), userDocFromDomain(u))
	})
}

// MutateCart applies mutate to the user's embedded cart inside a
// Firestore transaction and returns the resulting lines.
func (r *UserRepositoryFS) MutateCart(ctx context.Context, userID string, mutate userdom.CartMutator) (cartdom.Lines, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("user_repository_fs: userID is empty")
	}
	if mutate == nil {
		return nil, errors.New("user_repository_fs: mutate is nil")
	}

	var result cartdom.Lines
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc := r.col().Doc(uid)
		snap, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return userdom.ErrNotFound
			}
			return err
		}

		next, err := mutate(cartLinesFromData(snap.Data()))
		if err != nil {
			return err
		}
		result = next

		return tx.Update(doc, []firestore.Update{
			{Path: "cart", Value: cartDocsFromLines(next)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type userDoc struct {
	Name         string        `firestore:"name"`
	Email        string        `firestore:"email"`
	PasswordHash string        `firestore:"passwordHash"`
	Cart         []cartLineDoc `firestore:"cart"`
	CreatedAt    time.Time     `firestore:"createdAt"`
	UpdatedAt    time.Time     `firestore:"updatedAt"`
}

type cartLineDoc struct {
	ProductID string `firestore:"productId"`
	Quantity  int    `firestore:"quantity"`
}

func userDocFromDomain(u *userdom.User) userDoc {
	return userDoc{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Cart:         cartDocsFromLines(u.Cart),
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.CreatedAt.UTC(),
	}
}

func cartDocsFromLines(ls cartdom.Lines) []cartLineDoc {
	out := make([]cartLineDoc, 0, len(ls))
	for _, l := range ls {
		out = append(out, cartLineDoc{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// userFromSnapshot parses document data by hand so a doc with a missing
// or oddly-shaped cart field still loads instead of failing DataTo.
func userFromSnapshot(id string, raw map[string]any) (*userdom.User, error) {
	if raw == nil {
		return nil, errors.New("user_repository_fs: empty document")
	}

	u := &userdom.User{
		ID:           id,
		Name:         asString(raw["name"]),
		Email:        asString(raw["email"]),
		PasswordHash: asString(raw["passwordHash"]),
		Cart:         cartLinesFromData(raw),
	}
	if ts, ok := raw["createdAt"].(time.Time); ok {
		u.CreatedAt = ts
	}
	return u, nil
}

// cartLinesFromData extracts and normalizes the cart array from raw doc
// data. A missing or malformed field reads as an empty cart.
func cartLinesFromData(raw map[string]any) cartdom.Lines {
	if raw == nil {
		return cartdom.Lines{}
	}
	arr, ok := raw["cart"].([]any)
	if !ok {
		return cartdom.Lines{}
	}

	lines := make([]cartdom.Line, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, cartdom.Line{
			ProductID: asString(m["productId"]),
			Quantity:  asInt(m["quantity"]),
		})
	}
	return cartdom.Normalize(lines)
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
