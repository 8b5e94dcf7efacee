package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"GoNFA/internal/compiler"
	"GoNFA/internal/config"
	"GoNFA/internal/match"
)

// Version is reported by GET / and GET /health.
var Version = "dev"

// NewMux wires the API routes plus the health, readiness and root
// endpoints.
func NewMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Health check endpoint.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Readiness probe.
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
		})
	})

	// Root info endpoint.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    "GoNFA",
			"version": Version,
		})
	})
	return mux
}

// New builds an http.Server from cfg.
func New(cfg config.Config, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	c := compiler.New(compiler.Options{
		Match: match.Options{
			MaxStatesVisited: cfg.Match.MaxStatesVisited,
			Timeout:          cfg.Match.Timeout.Duration,
			Logger:           logger,
		},
		Logger: logger,
	})
	cache := NewPatternCache(c, cfg.Server.CacheSize, logger)
	handler := NewHandler(cache, logger)

	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      NewMux(handler),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
