package routes

import (
	"net/http"

	"github.com/medikita/triage-ai/internal/api/handlers"
	"github.com/medikita/triage-ai/internal/api/middleware"
	"github.com/medikita/triage-ai/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	triageHandler *handlers.TriageHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(triageHandler *handlers.TriageHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		triageHandler: triageHandler,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.triageHandler.Health)
	r.mux.Handle("GET /metrics", promhttp.Handler())

	// Triage endpoints
	r.mux.HandleFunc("POST /api/v1/triage", r.triageHandler.Triage)
	r.mux.HandleFunc("POST /api/v1/analyze-symptoms", r.triageHandler.AnalyzeSymptoms)
	r.mux.HandleFunc("POST /api/v1/check-urgency", r.triageHandler.CheckUrgency)
	r.mux.HandleFunc("GET /api/v1/categories", r.triageHandler.ListCategories)
	r.mux.HandleFunc("GET /api/v1/llm/stats", r.triageHandler.NarrativeStats)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also carry CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
