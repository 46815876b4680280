// Package http exposes the operational endpoints of an analysis run: health,
// readiness, Prometheus metrics, and a read-only view of the index catalog.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
)

// ReadinessChecker reports whether the grid backend is reachable.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and catalog HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /indices, and /models routes.
func NewServer(addr string, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /indices", handleIndices)
	mux.HandleFunc("GET /models", handleModels)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// indexView is the catalog entry shape served to clients.
type indexView struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Units       string   `json:"units"`
	Palette     []string `json:"palette,omitempty"`
}

// handleIndices lists the catalog, optionally filtered by ?category=.
func handleIndices(w http.ResponseWriter, r *http.Request) {
	var keys []string
	switch cat := r.URL.Query().Get("category"); cat {
	case "":
		keys = catalog.List("")
	case string(catalog.CategoryPrecipitation), string(catalog.CategoryTemperature):
		keys = catalog.List(catalog.Category(cat))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown category: " + cat,
		})
		return
	}

	views := make([]indexView, 0, len(keys))
	for _, k := range keys {
		d, err := catalog.Get(k)
		if err != nil {
			continue
		}
		views = append(views, indexView{
			Key:         d.Key,
			DisplayName: d.DisplayName,
			Category:    string(d.Category),
			Description: d.Description,
			Units:       d.Units,
			Palette:     d.Palette,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"models":    domain.Models(),
		"scenarios": domain.Scenarios(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
