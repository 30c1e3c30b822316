// internal/handler/rotation.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

type RotationHandler struct {
	rotations *service.RotationService
}

func NewRotationHandler(rotations *service.RotationService) *RotationHandler {
	return &RotationHandler{rotations: rotations}
}

func (h *RotationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	rotations, err := h.rotations.ListRotations(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Rotations(rotations))
}

func (h *RotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.RotationInput
	if !decodeBody(w, r, &input) {
		return
	}
	rotation, err := h.rotations.CreateRotation(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Rotation(rotation))
}

func (h *RotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rotation, err := h.rotations.GetRotation(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Rotation(rotation))
}

func (h *RotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.RotationInput
	if !decodeBody(w, r, &input) {
		return
	}
	rotation, err := h.rotations.UpdateRotation(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Rotation(rotation))
}

func (h *RotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.rotations.DeleteRotation(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RotationHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.RotationEntryInput
	if !decodeBody(w, r, &input) {
		return
	}
	entry, err := h.rotations.AddEntry(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.RotationEntry(entry))
}

func (h *RotationHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryID")
	if !ok {
		return
	}
	entry, err := h.rotations.GetEntry(r.Context(), user, id, entryID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.RotationEntry(entry))
}

func (h *RotationHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryID")
	if !ok {
		return
	}
	var input service.RotationEntryInput
	if !decodeBody(w, r, &input) {
		return
	}
	entry, err := h.rotations.UpdateEntry(r.Context(), user, id, entryID, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.RotationEntry(entry))
}

func (h *RotationHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "entryID")
	if !ok {
		return
	}
	if err := h.rotations.DeleteEntry(r.Context(), user, id, entryID); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RotationHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.rotations.ListEntries(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.RotationEntries(entries))
}
