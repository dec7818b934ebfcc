package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	usecase "flipmart/internal/application/usecase"
)

// AuthHandler serves credential issuance endpoints.
// Intended mount (router side):
// - POST /auth/register {name, email, password} -> {token}
// - POST /auth/login    {email, password}       -> {token}
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) http.Handler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/register"):
		h.handleRegister(w, r)
	case strings.HasSuffix(path, "/login"):
		h.handleLogin(w, r)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	credential, err := h.uc.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthInvalidArgument):
			writeErr(w, http.StatusBadRequest, "All fields required")
		case errors.Is(err, usecase.ErrAuthEmailTaken):
			writeErr(w, http.StatusBadRequest, "Email already registered")
		default:
			writeErr(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": credential})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	credential, err := h.uc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthInvalidArgument),
			errors.Is(err, usecase.ErrAuthInvalidCredentials):
			writeErr(w, http.StatusBadRequest, "Invalid credentials")
		default:
			writeErr(w, http.StatusInternalServerError, "Failed to login")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": credential})
}
