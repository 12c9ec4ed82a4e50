package routes

import (
	"net/http"

	"github.com/divetribe/divedirectory/internal/api/handlers"
	"github.com/divetribe/divedirectory/internal/api/middleware"
	"github.com/divetribe/divedirectory/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	operatorHandler *handlers.OperatorHandler
	reviewHandler   *handlers.ReviewHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	operatorHandler *handlers.OperatorHandler,
	reviewHandler *handlers.ReviewHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		operatorHandler: operatorHandler,
		reviewHandler:   reviewHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Operator endpoints
	r.mux.HandleFunc("GET /api/operators", r.operatorHandler.SearchOperators)
	r.mux.HandleFunc("GET /api/operators/suggest", r.operatorHandler.SuggestOperators)
	r.mux.HandleFunc("GET /api/operators/{slug}", r.operatorHandler.GetOperatorBySlug)
	r.mux.HandleFunc("HEAD /api/operators/{slug}", r.operatorHandler.CheckSlug)
	r.mux.HandleFunc("POST /api/operators", r.operatorHandler.CreateOperator)
	r.mux.HandleFunc("PUT /api/operators/{id}", r.operatorHandler.UpdateOperator)
	r.mux.HandleFunc("DELETE /api/operators/{id}", r.operatorHandler.DeleteOperator)
	r.mux.HandleFunc("POST /api/operators/{id}/transfer", r.operatorHandler.TransferOwnership)

	// Verification endpoints
	r.mux.HandleFunc("POST /api/operators/{id}/verification-request", r.operatorHandler.RequestVerification)
	r.mux.HandleFunc("PUT /api/operators/{id}/verification", r.operatorHandler.SetVerification)

	// Review endpoints
	r.mux.HandleFunc("GET /api/operators/{id}/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/operators/{id}/reviews", r.reviewHandler.CreateReview)
	r.mux.HandleFunc("GET /api/operators/{id}/reviews/stats", r.reviewHandler.OperatorReviewStats)
	r.mux.HandleFunc("GET /api/reviews/{id}", r.reviewHandler.GetReview)
	r.mux.HandleFunc("PUT /api/reviews/{id}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.reviewHandler.DeleteReview)

	// Middleware chain, outermost first
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
