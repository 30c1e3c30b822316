// internal/handler/region.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

type RegionHandler struct {
	assets *service.AssetService
}

func NewRegionHandler(assets *service.AssetService) *RegionHandler {
	return &RegionHandler{assets: assets}
}

func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	regions, err := h.assets.ListRegions(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Regions(regions))
}

func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.RegionInput
	if !decodeBody(w, r, &input) {
		return
	}
	region, err := h.assets.CreateRegion(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Region(region))
}

func (h *RegionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	region, err := h.assets.GetRegion(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Region(region))
}

func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.RegionInput
	if !decodeBody(w, r, &input) {
		return
	}
	region, err := h.assets.UpdateRegion(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Region(region))
}

func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.assets.DeleteRegion(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
