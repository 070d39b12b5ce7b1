// Package api exposes the drill orchestrator over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/metrics"
	"github.com/abhisek/drillsergeant/internal/session"
)

// Orchestrator is the session service as seen by the HTTP layer.
type Orchestrator interface {
	CreateSession(ctx context.Context, difficulty content.Difficulty, examDate time.Time) (session.Session, error)
	AnalyzeAnswers(ctx context.Context, sessionID string, answers map[int]string) ([]session.Result, error)
	ComposeSummary(ctx context.Context, req session.SummaryRequest) session.SummaryPayload
}

// Router wires handlers and middleware.
type Router struct {
	svc         Orchestrator
	logger      *zap.Logger
	metrics     *metrics.Metrics
	corsOrigins []string
}

// NewRouter creates a router. logger and m may be nil.
func NewRouter(svc Orchestrator, logger *zap.Logger, m *metrics.Metrics, corsOrigins []string) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{svc: svc, logger: logger, metrics: m, corsOrigins: corsOrigins}
}

// Setup returns the HTTP handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Logger(rt.logger))
	r.Use(Instrument(rt.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	h := &handlers{svc: rt.svc, logger: rt.logger}
	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/generate-session", h.generateSession)
	r.Post("/analyze-mistakes", h.analyzeMistakes)
	r.Post("/session-summary", h.sessionSummary)

	return r
}
