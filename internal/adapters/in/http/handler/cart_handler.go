package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"flipmart/internal/adapters/in/http/middleware"
	usecase "flipmart/internal/application/usecase"
	cartdom "flipmart/internal/domain/cart"
	userdom "flipmart/internal/domain/user"
)

// CartHandler serves the per-identity cart endpoints.
// Intended mount (router side), all behind the user auth middleware:
// - GET    /cart
// - POST   /cart                      {productId, quantity}  add/increment
// - PUT    /cart/{productId}          {quantity}             set quantity
// - PUT    /cart/remove/{productId}                          remove line
// - DELETE /cart/clear/{subjectId}                           clear cart
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	ident, ok := middleware.CurrentIdentity(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// mounted at /cart; normalize trailing slash
	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}
	rest := strings.TrimPrefix(path, "/cart")

	switch {
	case r.Method == http.MethodGet && (rest == "" || rest == "/"):
		h.handleGet(w, r, ident.SubjectID)

	case r.Method == http.MethodPost && (rest == "" || rest == "/"):
		h.handleAdd(w, r, ident.SubjectID)

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "/remove/"):
		h.handleRemove(w, r, ident.SubjectID, strings.TrimPrefix(rest, "/remove/"))

	case r.Method == http.MethodDelete && strings.HasPrefix(rest, "/clear/"):
		h.handleClear(w, r, ident.SubjectID, strings.TrimPrefix(rest, "/clear/"))

	case r.Method == http.MethodPut && strings.HasPrefix(rest, "/"):
		h.handleSet(w, r, ident.SubjectID, strings.TrimPrefix(rest, "/"))

	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, userID string) {
	items, err := h.uc.Get(r.Context(), userID)
	if err != nil {
		writeCartErr(w, err, "Failed to fetch cart")
		return
	}
	writeItems(w, items)
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, userID string) {
	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.ProductID) == "" || body.Quantity == 0 {
		writeErr(w, http.StatusBadRequest, "productId and quantity required")
		return
	}

	items, err := h.uc.AddOrIncrement(r.Context(), userID, body.ProductID, body.Quantity)
	if err != nil {
		writeCartErr(w, err, "Failed to add to cart")
		return
	}
	writeItems(w, items)
}

func (h *CartHandler) handleSet(w http.ResponseWriter, r *http.Request, userID, productID string) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Quantity < 1 {
		writeErr(w, http.StatusBadRequest, "Quantity must be >= 1")
		return
	}

	items, err := h.uc.UpsertLine(r.Context(), userID, productID, body.Quantity)
	if err != nil {
		writeCartErr(w, err, "Failed to update cart")
		return
	}
	writeItems(w, items)
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request, userID, productID string) {
	items, err := h.uc.RemoveLine(r.Context(), userID, productID)
	if err != nil {
		writeCartErr(w, err, "Failed to remove item")
		return
	}
	writeItems(w, items)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, userID, pathSubject string) {
	// The data path is always scoped to the authenticated identity;
	// a mismatched path subject is rejected outright.
	if strings.TrimSpace(pathSubject) != userID {
		writeErr(w, http.StatusForbidden, "cannot clear another user's cart")
		return
	}

	items, err := h.uc.Clear(r.Context(), userID)
	if err != nil {
		writeCartErr(w, err, "Failed to clear cart")
		return
	}
	writeItems(w, items)
}

func writeItems(w http.ResponseWriter, items cartdom.Lines) {
	if items == nil {
		items = cartdom.Lines{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func writeCartErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrCartInvalidQuantity):
		writeErr(w, http.StatusBadRequest, "Quantity must be >= 1")
	case errors.Is(err, usecase.ErrCartInvalidArgument):
		writeErr(w, http.StatusBadRequest, "productId and quantity required")
	case errors.Is(err, userdom.ErrNotFound):
		writeErr(w, http.StatusUnauthorized, "user not found")
	default:
		writeErr(w, http.StatusInternalServerError, fallback)
	}
}
