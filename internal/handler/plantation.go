// internal/handler/plantation.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

type PivotHandler struct {
	plantations *service.PlantationService
}

func NewPivotHandler(plantations *service.PlantationService) *PivotHandler {
	return &PivotHandler{plantations: plantations}
}

func (h *PivotHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	pivots, err := h.plantations.ListPivots(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Pivots(pivots))
}

func (h *PivotHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.PivotInput
	if !decodeBody(w, r, &input) {
		return
	}
	pivot, err := h.plantations.CreatePivot(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Pivot(pivot))
}

func (h *PivotHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pivot, err := h.plantations.GetPivot(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Pivot(pivot))
}

func (h *PivotHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.PivotInput
	if !decodeBody(w, r, &input) {
		return
	}
	pivot, err := h.plantations.UpdatePivot(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Pivot(pivot))
}

func (h *PivotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.plantations.DeletePivot(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type FieldHandler struct {
	plantations *service.PlantationService
}

func NewFieldHandler(plantations *service.PlantationService) *FieldHandler {
	return &FieldHandler{plantations: plantations}
}

func (h *FieldHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	fields, err := h.plantations.ListFields(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Fields(fields))
}

func (h *FieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.FieldInput
	if !decodeBody(w, r, &input) {
		return
	}
	field, err := h.plantations.CreateField(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Field(field))
}

func (h *FieldHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	field, err := h.plantations.GetField(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Field(field))
}

func (h *FieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.FieldInput
	if !decodeBody(w, r, &input) {
		return
	}
	field, err := h.plantations.UpdateField(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Field(field))
}

func (h *FieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.plantations.DeleteField(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
