package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AnalysisSource returns the latest completed analysis, or nil.
type AnalysisSource interface {
	ReadinessChecker
	Latest() *domain.Analysis
}

// rankingResponse is the body of GET /api/ranking.
type rankingResponse struct {
	GeneratedAt time.Time              `json:"generated_at"`
	FocusRegion string                 `json:"focus_region"`
	Ranking     []domain.RankEntry     `json:"ranking"`
	Categories  []domain.CategoryCount `json:"categories"`
}

// Server exposes health, readiness, metrics, the latest ranking, and the
// rendered report files.
type Server struct {
	httpServer *http.Server
	source     AnalysisSource
	reportDir  string
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /api/ranking, and /reports/{file} routes. Report files are served from
// reportDir.
func NewServer(addr string, source AnalysisSource, reportDir string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:    source,
		reportDir: reportDir,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(source))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/ranking", s.handleRanking)
	mux.HandleFunc("GET /reports/{file}", s.handleReport)

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

func (s *Server) handleRanking(w http.ResponseWriter, _ *http.Request) {
	a := s.source.Latest()
	if a == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "no analysis yet"})
		return
	}
	writeJSON(w, http.StatusOK, rankingResponse{
		GeneratedAt: a.GeneratedAt,
		FocusRegion: a.FocusRegion,
		Ranking:     a.Ranking,
		Categories:  a.CategoryCounts(),
	})
}

// handleReport serves a single file from the report directory. Only the
// base name of the request path is used, so nothing outside the directory
// is reachable.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("file"))
	path := filepath.Join(s.reportDir, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not found"})
		return
	}
	s.logger.Debug("serving report", "path", path)
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
