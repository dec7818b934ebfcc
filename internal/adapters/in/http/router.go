package httpin

import (
	"net/http"

	"flipmart/internal/adapters/in/http/handler"
	"flipmart/internal/adapters/in/http/middleware"
	usecase "flipmart/internal/application/usecase"
	proddom "flipmart/internal/domain/product"
)

// RouterDeps collects everything injected from the DI container.
type RouterDeps struct {
	AuthUC      *usecase.AuthUsecase
	CartUC      *usecase.CartUsecase
	ProductRepo proddom.Repository
	Images      handler.ImageResolver

	UserAuth *middleware.UserAuthMiddleware
}

// NewRouter sets up HTTP routing for the storefront API.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.AuthUC != nil {
		authHandler := handler.NewAuthHandler(deps.AuthUC)
		mux.Handle("/auth/", authHandler)
	}

	if deps.ProductRepo != nil {
		productHandler := handler.NewProductHandler(deps.ProductRepo, deps.Images)
		mux.Handle("/products", productHandler)
		mux.Handle("/products/", productHandler)
	}

	if deps.CartUC != nil && deps.UserAuth != nil {
		cartHandler := deps.UserAuth.Handler(handler.NewCartHandler(deps.CartUC))
		mux.Handle("/cart", cartHandler)
		mux.Handle("/cart/", cartHandler)
	}

	return middleware.Recover(mux)
}
