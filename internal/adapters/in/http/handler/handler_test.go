package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flipmart/internal/adapters/in/http/middleware"
	usecase "flipmart/internal/application/usecase"
	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
	"flipmart/internal/platform/token"
)

var testSecret = []byte("handler-test-secret")

// fakeUserRepo is an in-memory user.Repository for handler tests.
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

// cartTestServer wires the real middleware, usecase and handler the way
// the router does.
func cartTestServer(t *testing.T) (http.Handler, *fakeUserRepo, string) {
	t.Helper()

	repo := newFakeUserRepo()
	u, err := userdom.New("u1", "Ada", "ada@example.com", "hash", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))

	minter := token.NewMinter(testSecret, time.Hour)
	credential, err := minter.Mint("u1", "Ada", "ada@example.com")
	require.NoError(t, err)

	authUC := usecase.NewAuthUsecase(repo, minter, nil, "")
	mw := &middleware.UserAuthMiddleware{
		Verifier: token.NewVerifier(testSecret),
		Lookup:   authUC,
	}

	mux := http.NewServeMux()
	cartHandler := mw.Handler(NewCartHandler(usecase.NewCartUsecase(repo)))
	mux.Handle("/cart", cartHandler)
	mux.Handle("/cart/", cartHandler)
	return mux, repo, credential
}

func doJSON(t *testing.T, h http.Handler, method, path, credential string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) cartdom.Lines {
	t.Helper()
	var out struct {
		Items cartdom.Lines `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out.Items
}
