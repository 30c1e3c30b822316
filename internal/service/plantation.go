// internal/service/plantation.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agrostack/fieldops/internal/derive"
	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PlantationService owns both plantation kinds. Pivot area is never taken
// from caller input; it is recomputed from the radius on every write.
type PlantationService struct {
	pivots   *repository.PivotRepository
	fields   *repository.FieldRepository
	crops    *repository.CropRepository
	gate     *OwnerGate
	validate *validator.Validate
}

func NewPlantationService(
	pivots *repository.PivotRepository,
	fields *repository.FieldRepository,
	crops *repository.CropRepository,
	gate *OwnerGate,
) *PlantationService {
	return &PlantationService{
		pivots:   pivots,
		fields:   fields,
		crops:    crops,
		gate:     gate,
		validate: validator.New(),
	}
}

type PivotInput struct {
	LogicalName string      `json:"logical_name" validate:"max=10"`
	RadiusM     float64     `json:"radius_m"`
	Center      *string     `json:"center"`
	Color       string      `json:"color"`
	SeedingDate *time.Time  `json:"seeding_date"`
	HarvestDate *time.Time  `json:"harvest_date"`
	SectorID    uuid.UUID   `json:"sector_id" validate:"required"`
	CropIDs     []uuid.UUID `json:"crop_ids"`
}

func (s *PlantationService) CreatePivot(ctx context.Context, actingUser uuid.UUID, input PivotInput) (*model.CropPivot, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if input.RadiusM <= 0 {
		return nil, fmt.Errorf("%w: radius_m must be positive", domain.ErrInvalidGeometry)
	}
	_, _, company, err := s.gate.SectorChain(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	center, err := parsePoint(input.Center)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.FindByIDs(ctx, input.CropIDs)
	if err != nil {
		return nil, err
	}

	pivot := &model.CropPivot{
		LogicalName: input.LogicalName,
		RadiusM:     input.RadiusM,
		Area:        derive.PivotArea(input.RadiusM),
		Center:      center,
		Color:       input.Color,
		SeedingDate: input.SeedingDate,
		HarvestDate: input.HarvestDate,
		SectorID:    input.SectorID,
		Crops:       crops,
	}
	if err := s.pivots.Create(ctx, pivot); err != nil {
		return nil, err
	}
	return s.pivots.FindByID(ctx, pivot.ID)
}

func (s *PlantationService) GetPivot(ctx context.Context, actingUser, id uuid.UUID) (*model.CropPivot, error) {
	pivot, err := s.pivots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, _, company, err := s.gate.SectorChain(ctx, pivot.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	return pivot, nil
}

func (s *PlantationService) ListPivots(ctx context.Context, actingUser uuid.UUID) ([]*model.CropPivot, error) {
	return s.pivots.FindByOwner(ctx, actingUser)
}

func (s *PlantationService) UpdatePivot(ctx context.Context, actingUser, id uuid.UUID, input PivotInput) (*model.CropPivot, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if input.RadiusM <= 0 {
		return nil, fmt.Errorf("%w: radius_m must be positive", domain.ErrInvalidGeometry)
	}
	pivot, err := s.pivots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, _, company, err := s.gate.SectorChain(ctx, pivot.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	_, _, targetCompany, err := s.gate.SectorChain(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, targetCompany); err != nil {
		return nil, err
	}
	center, err := parsePoint(input.Center)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.FindByIDs(ctx, input.CropIDs)
	if err != nil {
		return nil, err
	}

	pivot.LogicalName = input.LogicalName
	pivot.RadiusM = input.RadiusM
	pivot.Area = derive.PivotArea(input.RadiusM)
	pivot.Center = center
	pivot.Color = input.Color
	pivot.SeedingDate = input.SeedingDate
	pivot.HarvestDate = input.HarvestDate
	pivot.SectorID = input.SectorID
	pivot.Crops = crops
	if err := s.pivots.Update(ctx, pivot); err != nil {
		return nil, err
	}
	return s.pivots.FindByID(ctx, pivot.ID)
}

func (s *PlantationService) DeletePivot(ctx context.Context, actingUser, id uuid.UUID) error {
	pivot, err := s.pivots.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, _, company, err := s.gate.SectorChain(ctx, pivot.SectorID)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return err
	}
	return s.pivots.Delete(ctx, id)
}

type FieldInput struct {
	LogicalName string      `json:"logical_name" validate:"max=10"`
	Area        float64     `json:"area" validate:"gte=0"`
	Shape       *string     `json:"shape"`
	Color       string      `json:"color"`
	SeedingDate *time.Time  `json:"seeding_date"`
	HarvestDate *time.Time  `json:"harvest_date"`
	SectorID    uuid.UUID   `json:"sector_id" validate:"required"`
	CropIDs     []uuid.UUID `json:"crop_ids"`
}

func (s *PlantationService) CreateField(ctx context.Context, actingUser uuid.UUID, input FieldInput) (*model.CropField, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	_, _, company, err := s.gate.SectorChain(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	shape, err := parsePolygon(input.Shape)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.FindByIDs(ctx, input.CropIDs)
	if err != nil {
		return nil, err
	}

	field := &model.CropField{
		LogicalName: input.LogicalName,
		Area:        input.Area,
		Shape:       shape,
		Color:       input.Color,
		SeedingDate: input.SeedingDate,
		HarvestDate: input.HarvestDate,
		SectorID:    input.SectorID,
		Crops:       crops,
	}
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, err
	}
	return s.fields.FindByID(ctx, field.ID)
}

func (s *PlantationService) GetField(ctx context.Context, actingUser, id uuid.UUID) (*model.CropField, error) {
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, _, company, err := s.gate.SectorChain(ctx, field.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *PlantationService) ListFields(ctx context.Context, actingUser uuid.UUID) ([]*model.CropField, error) {
	return s.fields.FindByOwner(ctx, actingUser)
}

func (s *PlantationService) UpdateField(ctx context.Context, actingUser, id uuid.UUID, input FieldInput) (*model.CropField, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, _, company, err := s.gate.SectorChain(ctx, field.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	_, _, targetCompany, err := s.gate.SectorChain(ctx, input.SectorID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, targetCompany); err != nil {
		return nil, err
	}
	shape, err := parsePolygon(input.Shape)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.FindByIDs(ctx, input.CropIDs)
	if err != nil {
		return nil, err
	}

	field.LogicalName = input.LogicalName
	field.Area = input.Area
	field.Shape = shape
	field.Color = input.Color
	field.SeedingDate = input.SeedingDate
	field.HarvestDate = input.HarvestDate
	field.SectorID = input.SectorID
	field.Crops = crops
	if err := s.fields.Update(ctx, field); err != nil {
		return nil, err
	}
	return s.fields.FindByID(ctx, field.ID)
}

func (s *PlantationService) DeleteField(ctx context.Context, actingUser, id uuid.UUID) error {
	field, err := s.fields.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, _, company, err := s.gate.SectorChain(ctx, field.SectorID)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return err
	}
	return s.fields.Delete(ctx, id)
}
