// internal/handler/sector.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

type SectorHandler struct {
	assets *service.AssetService
}

func NewSectorHandler(assets *service.AssetService) *SectorHandler {
	return &SectorHandler{assets: assets}
}

func (h *SectorHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	details, err := h.assets.ListSectors(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	out := make([]serializer.SectorResponse, 0, len(details))
	for _, d := range details {
		out = append(out, serializer.Sector(d.Sector, d.Stats))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *SectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.SectorInput
	if !decodeBody(w, r, &input) {
		return
	}
	detail, err := h.assets.CreateSector(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Sector(detail.Sector, detail.Stats))
}

func (h *SectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.assets.GetSector(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Sector(detail.Sector, detail.Stats))
}

func (h *SectorHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.SectorInput
	if !decodeBody(w, r, &input) {
		return
	}
	detail, err := h.assets.UpdateSector(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Sector(detail.Sector, detail.Stats))
}

func (h *SectorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.assets.DeleteSector(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
