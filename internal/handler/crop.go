// internal/handler/crop.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

// CropHandler exposes the shared crop catalog. Auth middleware still guards
// the routes, but there is no per-record ownership check.
type CropHandler struct {
	crops *service.CropService
}

func NewCropHandler(crops *service.CropService) *CropHandler {
	return &CropHandler{crops: crops}
}

func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	crops, err := h.crops.ListCrops(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	out := make([]serializer.CropResponse, 0, len(crops))
	for _, c := range crops {
		out = append(out, serializer.Crop(c))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *CropHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	var input service.CropInput
	if !decodeBody(w, r, &input) {
		return
	}
	crop, err := h.crops.CreateCrop(r.Context(), input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Crop(crop))
}

func (h *CropHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := actingUser(w, r); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	crop, err := h.crops.GetCrop(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Crop(crop))
}
