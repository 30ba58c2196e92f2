// Package server serves the dashboard over HTTP. The Dashboard is built once
// before the server starts and is only read afterwards, so handlers share it
// without locking. A chart request at a new width is a fresh render of the
// cached tables.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/wearable-insights-go/internal/chart"
	"github.com/user/wearable-insights-go/internal/config"
	"github.com/user/wearable-insights-go/internal/models"
	"github.com/user/wearable-insights-go/internal/report"
)

// Server routes dashboard requests.
type Server struct {
	router    *chi.Mux
	dashboard *models.Dashboard
	charts    config.ChartsConfig
	logger    *slog.Logger
	page      []byte
}

// New renders the dashboard page once and sets up the routes. The page embeds
// the charts at their configured size and redraws them from /charts at the
// browser's width.
func New(d *models.Dashboard, charts config.ChartsConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	html := &report.HtmlReportAdapter{Charts: charts, ChartBase: "/charts"}
	if err := html.PrepareData(d); err != nil {
		return nil, fmt.Errorf("failed to render dashboard page: %w", err)
	}
	var page bytes.Buffer
	if _, err := html.WriteTo(&page); err != nil {
		return nil, err
	}

	s := &Server{
		router:    chi.NewRouter(),
		dashboard: d,
		charts:    charts,
		logger:    logger,
		page:      page.Bytes(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&slogFormatter{logger: s.logger}))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/charts/{kind}.svg", s.handleChart)
	s.router.Get("/api/dashboard", s.handleDashboard)
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.page)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	size := chart.DefaultSize(kind, s.charts)
	if raw := r.URL.Query().Get("width"); raw != "" {
		width, err := parseWidth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		size = chart.SizeForWidth(kind, s.charts, width)
	}

	svgData, err := report.RenderChart(kind, s.dashboard, size)
	if err != nil {
		s.logger.Error("chart render failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svgData)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard)
}

func parseWidth(raw string) (float64, error) {
	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return 0, fmt.Errorf("invalid width %q: must be a positive number", raw)
	}
	return width, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
