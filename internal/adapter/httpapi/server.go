// Package httpapi exposes the catalog over HTTP: health, readiness, and
// metrics endpoints plus the read API the map viewer consumes.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seismoview/quake-catalog/internal/catalog"
	"github.com/seismoview/quake-catalog/internal/filter"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Store is the catalog surface the API needs.
type Store interface {
	ReadinessChecker
	Query(spec filter.Spec) (catalog.Snapshot, error)
	SetSpec(spec filter.Spec) (catalog.Snapshot, error)
	Snapshot() (catalog.Snapshot, bool)
	DefaultSpec() filter.Spec
}

// Server exposes the catalog API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	store      Store
	logger     *slog.Logger
}

// NewServer creates an HTTP server for the given catalog.
func NewServer(addr string, store Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  store,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/filter", s.handleGetFilter)
	mux.HandleFunc("PUT /api/filter", s.handlePutFilter)

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

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// earthquakesResponse pages the filtered records. Total counts the whole
// filtered subset, not the page.
type earthquakesResponse struct {
	Version string          `json:"version"`
	Spec    filter.Spec     `json:"spec"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Records json.RawMessage `json:"records"`
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, r *http.Request) {
	snap, page, ok := s.querySnapshot(w, r)
	if !ok {
		return
	}

	lo := page.offset
	if lo > len(snap.Records) {
		lo = len(snap.Records)
	}
	hi := lo + page.limit
	if hi > len(snap.Records) {
		hi = len(snap.Records)
	}

	records, err := json.Marshal(snap.Records[lo:hi])
	if err != nil {
		s.logger.Error("marshal records failed", "error", err)
		writeError(w, http.StatusInternalServerError, "encode records")
		return
	}

	writeJSON(w, http.StatusOK, earthquakesResponse{
		Version: snap.Version,
		Spec:    snap.Spec,
		Total:   len(snap.Records),
		Limit:   page.limit,
		Offset:  page.offset,
		Records: records,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.querySnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Options)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.querySnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Stats)
}

// handleGetFilter returns the active selection and its result, without the
// record payload.
func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no dataset loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": snap.Version,
		"spec":    snap.Spec,
		"options": snap.Options,
		"stats":   snap.Stats,
		"count":   len(snap.Records),
	})
}

// handlePutFilter replaces the active selection.
func (s *Server) handlePutFilter(w http.ResponseWriter, r *http.Request) {
	var spec filter.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter spec: "+err.Error())
		return
	}

	snap, err := s.store.SetSpec(spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": snap.Version,
		"spec":    snap.Spec,
		"options": snap.Options,
		"stats":   snap.Stats,
		"count":   len(snap.Records),
	})
}

// querySnapshot parses the request parameters and runs the filter engine.
// On failure it writes the error response and returns ok=false.
func (s *Server) querySnapshot(w http.ResponseWriter, r *http.Request) (catalog.Snapshot, pagination, bool) {
	spec, page, err := parseQuery(r, s.store.DefaultSpec())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return catalog.Snapshot{}, pagination{}, false
	}

	snap, err := s.store.Query(spec)
	if err != nil {
		if s.store.CheckReadiness(r.Context()) != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return catalog.Snapshot{}, pagination{}, false
	}
	return snap, page, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
