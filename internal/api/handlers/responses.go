package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/infrastructure/observability"
	apperrors "github.com/divetribe/divedirectory/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes.
// Internal details never leak to the caller.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	default:
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// callerFromRequest reads the identity established by the trusted gateway.
// Absent headers mean an anonymous caller.
func callerFromRequest(r *http.Request) services.Caller {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return services.Caller{}
	}

	role := entities.Role(r.Header.Get("X-User-Role"))
	if role != entities.RoleAdmin {
		role = entities.RoleUser
	}

	return services.Caller{
		ID:            id,
		Role:          role,
		Authenticated: true,
	}
}
