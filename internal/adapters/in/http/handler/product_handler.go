package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	proddom "flipmart/internal/domain/product"
)

// ImageResolver turns a stored image reference into a servable URL.
type ImageResolver interface {
	Resolve(stored string) string
}

// ProductHandler serves the thin catalog read endpoints.
// Intended mount (router side):
// - GET /products?category=&page=
// - GET /products/{id}
type ProductHandler struct {
	repo   proddom.Repository
	images ImageResolver
}

func NewProductHandler(repo proddom.Repository, images ImageResolver) http.Handler {
	return &ProductHandler{repo: repo, images: images}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	rest := strings.TrimPrefix(path, "/products")

	if rest == "" || rest == "/" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, strings.TrimPrefix(rest, "/"))
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const perPage = 50

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	filter := proddom.Filter{Category: strings.TrimSpace(r.URL.Query().Get("category"))}
	items, err := h.repo.List(r.Context(), filter, perPage, (page-1)*perPage)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	for i := range items {
		items[i].ImageURL = h.resolveImage(items[i].ImageURL)
	}
	if items == nil {
		items = []proddom.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items})
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, proddom.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "product not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	p.ImageURL = h.resolveImage(p.ImageURL)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) resolveImage(stored string) string {
	if h.images == nil {
		return stored
	}
	return h.images.Resolve(stored)
}
