// internal/service/crop.go
package service

import (
	"context"
	"fmt"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CropService manages the shared crop catalog. Crops are referenced, never
// owned, so there is no ownership gate here; any authenticated user may
// read the catalog and add to it.
type CropService struct {
	crops    *repository.CropRepository
	validate *validator.Validate
}

func NewCropService(crops *repository.CropRepository) *CropService {
	return &CropService{crops: crops, validate: validator.New()}
}

type CropInput struct {
	Name       string  `json:"name" validate:"required,max=50"`
	Subtype    string  `json:"subtype" validate:"max=50"`
	BestSeason *string `json:"best_season"`
}

func (s *CropService) CreateCrop(ctx context.Context, input CropInput) (*model.Crop, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	crop := &model.Crop{
		Name:       input.Name,
		Subtype:    input.Subtype,
		BestSeason: input.BestSeason,
	}
	if err := s.crops.Create(ctx, crop); err != nil {
		return nil, err
	}
	return crop, nil
}

func (s *CropService) GetCrop(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	return s.crops.FindByID(ctx, id)
}

func (s *CropService) ListCrops(ctx context.Context) ([]*model.Crop, error) {
	return s.crops.FindAll(ctx)
}
