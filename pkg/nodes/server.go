package nodes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tata-ai/tata/pkg/http/response"
	"github.com/tata-ai/tata/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Router returns the HTTP routes of a stub backend
func Router(n *Node) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", response.Middleware(func(w http.ResponseWriter, r *http.Request) error {
			return response.WriteJSON(w, http.StatusOK, n.Health())
		}))
		r.Get("/status", response.Middleware(func(w http.ResponseWriter, r *http.Request) error {
			return response.WriteJSON(w, http.StatusOK, n.Status())
		}))
	})
	return r
}

// Serve runs the stub backend on addr until ctx is cancelled
func Serve(ctx context.Context, n *Node, addr string, logger *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(n),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Stub backend listening", "service", n.Type().Service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s: %w", n.Type().Service, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Stopping stub backend", "service", n.Type().Service)
	return srv.Shutdown(shutdownCtx)
}
