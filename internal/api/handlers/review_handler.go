package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviews *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ListReviews handles GET /api/operators/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	operatorID := r.PathValue("id")
	query := r.URL.Query()

	params := repositories.ReviewListParams{
		OperatorID: operatorID,
		AuthorID:   query.Get("author"),
		Query:      query.Get("q"),
		Skip:       parseIntParam(query.Get("skip"), 0),
		Limit:      parseIntParam(query.Get("limit"), 0),
	}

	switch query.Get("sort_by") {
	case "age":
		params.SortBy = repositories.ReviewSortAge
	case "", "rating":
		params.SortBy = repositories.ReviewSortRating
	default:
		respondWithError(w, http.StatusBadRequest, "invalid sort field")
		return
	}

	switch query.Get("sort_order") {
	case "asc":
		params.SortOrder = repositories.SortAsc
	case "", "desc":
		params.SortOrder = repositories.SortDesc
	default:
		respondWithError(w, http.StatusBadRequest, "invalid sort order")
		return
	}

	reviews, totalCount, err := h.reviews.ListReviews(r.Context(), params)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews":     reviews,
		"total_count": totalCount,
	})
}

// CreateReview handles POST /api/operators/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Rating   int    `json:"rating"`
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviews.CreateReview(r.Context(), services.CreateReviewInput{
		OperatorID: r.PathValue("id"),
		AuthorID:   caller.ID,
		Rating:     payload.Rating,
		Comments:   payload.Comments,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PUT /api/reviews/{id}. Author or admin only.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	review, err := h.reviews.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !services.CanModifyReview(review, caller) {
		respondWithError(w, http.StatusForbidden, "caller is not the review author")
		return
	}

	var payload struct {
		Rating   *int    `json:"rating"`
		Comments *string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.reviews.UpdateReview(r.Context(), review.ID, payload.Rating, payload.Comments)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteReview handles DELETE /api/reviews/{id}. Author or admin only.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	review, err := h.reviews.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !services.CanModifyReview(review, caller) {
		respondWithError(w, http.StatusForbidden, "caller is not the review author")
		return
	}

	deleted, err := h.reviews.DeleteReview(r.Context(), review.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// OperatorReviewStats handles GET /api/operators/{id}/reviews/stats
func (h *ReviewHandler) OperatorReviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviews.OperatorStats(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
