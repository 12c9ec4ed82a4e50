package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/entities"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

// OperatorHandler handles operator-related HTTP requests
type OperatorHandler struct {
	directory *services.DirectoryService
}

// NewOperatorHandler creates a new operator handler
func NewOperatorHandler(directory *services.DirectoryService) *OperatorHandler {
	return &OperatorHandler{directory: directory}
}

type operatorPayload struct {
	Slug        string                `json:"slug"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Address     string                `json:"address"`
	Phone       string                `json:"phone"`
	Email       string                `json:"email"`
	Website     string                `json:"website"`
	Location    *entities.Location    `json:"location"`
	LogoURL     string                `json:"logo_url"`
	BannerURL   string                `json:"banner_url"`
	Social      entities.SocialLinks  `json:"social"`
}

type operatorUpdatePayload struct {
	Slug        *string               `json:"slug"`
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Address     *string               `json:"address"`
	Phone       *string               `json:"phone"`
	Email       *string               `json:"email"`
	Website     *string               `json:"website"`
	Location    *entities.Location    `json:"location"`
	LogoURL     *string               `json:"logo_url"`
	BannerURL   *string               `json:"banner_url"`
	Social      *entities.SocialLinks `json:"social"`
	Active      *bool                 `json:"active"`
}

// SearchOperators handles GET /api/operators
func (h *OperatorHandler) SearchOperators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := services.SearchOptions{
		Query:    query.Get("q"),
		OwnerRef: query.Get("owner"),
		Skip:     parseIntParam(query.Get("skip"), 0),
		Limit:    parseIntParam(query.Get("limit"), 0),
	}

	if query.Get("show_inactive") == "true" {
		opts.ShowInactive = true
	}

	if statusParam := query.Get("verification_status"); statusParam != "" {
		status := entities.VerificationStatus(statusParam)
		switch status {
		case entities.VerificationUnverified, entities.VerificationPending,
			entities.VerificationVerified, entities.VerificationRejected:
			opts.VerificationStatus = &status
		default:
			respondWithError(w, http.StatusBadRequest, "invalid verification status")
			return
		}
	}

	latParam, lngParam, radiusParam := query.Get("lat"), query.Get("lng"), query.Get("radius_km")
	if latParam != "" && lngParam != "" && radiusParam != "" {
		lat, latErr := strconv.ParseFloat(latParam, 64)
		lng, lngErr := strconv.ParseFloat(lngParam, 64)
		radius, radiusErr := strconv.ParseFloat(radiusParam, 64)
		if latErr != nil || lngErr != nil || radiusErr != nil || radius < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid geo parameters")
			return
		}
		opts.Position = &entities.Location{Latitude: lat, Longitude: lng}
		opts.RadiusKm = &radius
	}

	operators, totalCount, err := h.directory.SearchOperators(r.Context(), opts)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	caller := callerFromRequest(r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operators":   services.RenderOperators(operators, caller),
		"total_count": totalCount,
	})
}

// SuggestOperators handles GET /api/operators/suggest
func (h *OperatorHandler) SuggestOperators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	operators, err := h.directory.Suggest(r.Context(), query.Get("q"), parseIntParam(query.Get("limit"), 10))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"operators": services.RenderOperators(operators, callerFromRequest(r)),
	})
}

// GetOperatorBySlug handles GET /api/operators/{slug}
func (h *OperatorHandler) GetOperatorBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "operator slug is required")
		return
	}

	operator, err := h.directory.GetOperatorBySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.RenderOperator(operator, callerFromRequest(r)))
}

// CheckSlug handles HEAD /api/operators/{slug}: an existence probe for
// pre-flight slug validation
func (h *OperatorHandler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	inUse, err := h.directory.IsSlugInUse(r.Context(), slug)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !inUse {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CreateOperator handles POST /api/operators
func (h *OperatorHandler) CreateOperator(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload operatorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	operator, err := h.directory.CreateOperator(r.Context(), services.CreateOperatorInput{
		Slug:        payload.Slug,
		Name:        payload.Name,
		Description: payload.Description,
		Address:     payload.Address,
		Phone:       payload.Phone,
		Email:       payload.Email,
		Website:     payload.Website,
		Location:    payload.Location,
		LogoURL:     payload.LogoURL,
		BannerURL:   payload.BannerURL,
		Social:      payload.Social,
	}, caller.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, services.RenderOperator(operator, caller))
}

// UpdateOperator handles PUT /api/operators/{id}
func (h *OperatorHandler) UpdateOperator(w http.ResponseWriter, r *http.Request) {
	caller, operator, ok := h.authorizeOwnerOrAdmin(w, r)
	if !ok {
		return
	}

	var payload operatorUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.directory.UpdateOperator(r.Context(), operator.ID, services.UpdateOperatorInput{
		Slug:        payload.Slug,
		Name:        payload.Name,
		Description: payload.Description,
		Address:     payload.Address,
		Phone:       payload.Phone,
		Email:       payload.Email,
		Website:     payload.Website,
		Location:    payload.Location,
		LogoURL:     payload.LogoURL,
		BannerURL:   payload.BannerURL,
		Social:      payload.Social,
		Active:      payload.Active,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.RenderOperator(updated, caller))
}

// DeleteOperator handles DELETE /api/operators/{id}
func (h *OperatorHandler) DeleteOperator(w http.ResponseWriter, r *http.Request) {
	_, operator, ok := h.authorizeOwnerOrAdmin(w, r)
	if !ok {
		return
	}

	deleted, err := h.directory.DeleteOperator(r.Context(), operator.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "operator not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TransferOwnership handles POST /api/operators/{id}/transfer
func (h *OperatorHandler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	caller, operator, ok := h.authorizeOwnerOrAdmin(w, r)
	if !ok {
		return
	}

	var payload struct {
		NewOwner string `json:"new_owner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.NewOwner == "" {
		respondWithError(w, http.StatusBadRequest, "new owner reference is required")
		return
	}

	updated, err := h.directory.TransferOwnership(r.Context(), operator.ID, payload.NewOwner)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.RenderOperator(updated, caller))
}

// RequestVerification handles POST /api/operators/{id}/verification-request
func (h *OperatorHandler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	caller, operator, ok := h.authorizeOwnerOrAdmin(w, r)
	if !ok {
		return
	}

	updated, err := h.directory.RequestVerification(r.Context(), operator.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.RenderOperator(updated, caller))
}

// SetVerification handles PUT /api/operators/{id}/verification. Admin only.
func (h *OperatorHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if !caller.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "administrator privilege required")
		return
	}

	id := r.PathValue("id")
	var payload struct {
		Verified bool   `json:"verified"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.directory.SetVerification(r.Context(), id, payload.Verified, payload.Message)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, services.RenderOperator(updated, caller))
}

// authorizeOwnerOrAdmin loads the operator from the path id and enforces the
// owner-or-admin precondition shared by the mutating endpoints
func (h *OperatorHandler) authorizeOwnerOrAdmin(w http.ResponseWriter, r *http.Request) (services.Caller, *entities.Operator, bool) {
	caller := callerFromRequest(r)
	if !caller.Authenticated {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return caller, nil, false
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "operator ID is required")
		return caller, nil, false
	}

	operator, err := h.directory.GetOperatorByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return caller, nil, false
	}

	if !caller.IsAdmin() && !operator.IsOwnedBy(caller.ID) {
		respondWithAppError(w, r, apperrors.NewForbiddenError("caller is not the operator owner"))
		return caller, nil, false
	}

	return caller, operator, true
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
