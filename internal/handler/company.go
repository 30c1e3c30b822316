// internal/handler/company.go
package handler

import (
	"net/http"

	"github.com/agrostack/fieldops/internal/serializer"
	"github.com/agrostack/fieldops/internal/service"
)

type CompanyHandler struct {
	assets *service.AssetService
}

func NewCompanyHandler(assets *service.AssetService) *CompanyHandler {
	return &CompanyHandler{assets: assets}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	companies, err := h.assets.ListCompanies(r.Context(), user)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Companies(companies))
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	var input service.CompanyInput
	if !decodeBody(w, r, &input) {
		return
	}
	company, err := h.assets.CreateCompany(r.Context(), user, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, serializer.Company(company))
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	company, err := h.assets.GetCompany(r.Context(), user, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Company(company))
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input service.CompanyInput
	if !decodeBody(w, r, &input) {
		return
	}
	company, err := h.assets.UpdateCompany(r.Context(), user, id, input)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, serializer.Company(company))
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := actingUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.assets.DeleteCompany(r.Context(), user, id); err != nil {
		respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
