package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "flipmart/internal/application/usecase"
	"flipmart/internal/platform/token"
)

func authTestServer(t *testing.T) (http.Handler, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	minter := token.NewMinter(testSecret, time.Hour)
	uc := usecase.NewAuthUsecase(repo, minter, nil, "")

	mux := http.NewServeMux()
	mux.Handle("/auth/", NewAuthHandler(uc))
	return mux, repo
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out.Token
}

func TestRegisterIssuesCredential(t *testing.T) {
	h, _ := authTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, rec.Code)

	credential := decodeToken(t, rec)
	ident, err := token.DecodeUnverified(credential, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Ada", ident.Name)
	assert.Equal(t, "ada@example.com", ident.Email)
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := authTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All fields required")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := authTestServer(t)

	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw123456"}
	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/auth/register", "", body).Code)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestLoginRoundtrip(t *testing.T) {
	h, _ := authTestServer(t)

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw123456"}).Code)

	rec := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ada@example.com", "password": "pw123456"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeToken(t, rec))
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := authTestServer(t)

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/auth/register", "",
		map[string]string{"name": "Ada", "email": "ada@example.com", "password": "pw123456"}).Code)

	rec := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ada@example.com", "password": "wrong"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	h, _ := authTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "ghost@example.com", "password": "whatever"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestAuthRejectsGet(t *testing.T) {
	h, _ := authTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
