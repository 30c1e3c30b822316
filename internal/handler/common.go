// internal/handler/common.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/geo"
	"github.com/agrostack/fieldops/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithDomainError maps the core error taxonomy onto transport status
// codes. Broken chains are server faults: they indicate corrupted data, are
// logged, and never surfaced as user-recoverable.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var parseErr *geo.ParseError
	switch {
	case errors.As(err, &parseErr):
		respondWithError(w, http.StatusBadRequest, parseErr.Error())
	case errors.Is(err, domain.ErrNotOwner):
		respondWithError(w, http.StatusForbidden, domain.ErrNotOwner.Error())
	case errors.Is(err, domain.ErrOrphanReference),
		errors.Is(err, domain.ErrAmbiguousLink),
		errors.Is(err, domain.ErrInvalidGeometry),
		errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUniqueness), errors.Is(err, domain.ErrUsernameTaken):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrBrokenChain):
		slog.Error("broken ownership chain", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
	default:
		slog.Error("unhandled error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// actingUser pulls the authenticated user id from the request context,
// responding 401 if the middleware did not run.
func actingUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.ActingUser(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
	}
	return id, ok
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return pathUUID(w, r, "id")
}

// pathUUID parses a named uuid URL parameter.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var parseErr *geo.ParseError
		if errors.As(err, &parseErr) {
			respondWithError(w, http.StatusBadRequest, parseErr.Error())
			return false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
