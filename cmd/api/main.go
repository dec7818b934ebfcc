package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	appcfg "flipmart/internal/infra/config"
	"flipmart/internal/platform/di"
)

// atomicHandler allows swapping the underlying handler at runtime safely,
// so the server can start answering health checks before the container
// (Firestore, Postgres, Secret Manager) finishes building.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := h.v.Load()
	if cur == nil {
		http.NotFound(w, r)
		return
	}
	cur.(http.Handler).ServeHTTP(w, r)
}

func main() {
	ctx := context.Background()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("[boot] config: %v", err)
	}

	// Start listening ASAP with a lightweight mux (healthz only).
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	switcher := newAtomicHandler(healthMux)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var containerHolder atomic.Value // stores *di.Container (or nil)
	containerHolder.Store((*di.Container)(nil))

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c

		log.Printf("[boot] shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown: %v", err)
		}

		if c, ok := containerHolder.Load().(*di.Container); ok && c != nil {
			c.Close()
		}
		close(idleConnsClosed)
	}()

	// Build the container in the background and swap in the real router.
	go func() {
		container, err := di.NewContainer(ctx, cfg)
		if err != nil {
			log.Printf("[boot] FATAL: container build failed: %v", err)
			// healthz keeps answering so the platform can surface logs
			return
		}
		containerHolder.Store(container)
		switcher.Store(container.Router)
		log.Printf("[boot] storefront api ready")
	}()

	log.Printf("[boot] listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] listen: %v", err)
	}
	<-idleConnsClosed
}
