// internal/service/asset.go
package service

import (
	"context"
	"fmt"

	"github.com/agrostack/fieldops/internal/derive"
	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/geo"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AssetService owns create/update/delete/get/list for the three container
// levels of the asset tree. Every mutation authorizes, derives, then
// persists, with the acting user threaded explicitly through each call.
type AssetService struct {
	companies *repository.CompanyRepository
	regions   *repository.RegionRepository
	sectors   *repository.SectorRepository
	gate      *OwnerGate
	validate  *validator.Validate
}

func NewAssetService(
	companies *repository.CompanyRepository,
	regions *repository.RegionRepository,
	sectors *repository.SectorRepository,
	gate *OwnerGate,
) *AssetService {
	return &AssetService{
		companies: companies,
		regions:   regions,
		sectors:   sectors,
		gate:      gate,
		validate:  validator.New(),
	}
}

// parsePoint turns an optional WKT string into a point value.
func parsePoint(text *string) (*geo.Point, error) {
	if text == nil || *text == "" {
		return nil, nil
	}
	return geo.ParsePoint(*text)
}

// parsePolygon turns an optional WKT string into a polygon value.
func parsePolygon(text *string) (*geo.Polygon, error) {
	if text == nil || *text == "" {
		return nil, nil
	}
	return geo.ParsePolygon(*text)
}

type CompanyInput struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Center *string `json:"center"`
	Color  string  `json:"color"`
}

// CreateCompany creates a tenant root. The owner is always the acting user;
// caller input can never assign ownership elsewhere.
func (s *AssetService) CreateCompany(ctx context.Context, actingUser uuid.UUID, input CompanyInput) (*model.Company, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	center, err := parsePoint(input.Center)
	if err != nil {
		return nil, err
	}

	company := &model.Company{
		Name:    input.Name,
		Center:  center,
		Color:   input.Color,
		OwnerID: actingUser,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return s.companies.FindByID(ctx, company.ID)
}

func (s *AssetService) GetCompany(ctx context.Context, actingUser, id uuid.UUID) (*model.Company, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *AssetService) ListCompanies(ctx context.Context, actingUser uuid.UUID) ([]*model.Company, error) {
	return s.companies.FindByOwner(ctx, actingUser)
}

func (s *AssetService) UpdateCompany(ctx context.Context, actingUser, id uuid.UUID, input CompanyInput) (*model.Company, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	company, err := s.companies.FindByID(ctx, id)
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

	company.Name = input.Name
	company.Center = center
	company.Color = input.Color
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return s.companies.FindByID(ctx, company.ID)
}

func (s *AssetService) DeleteCompany(ctx context.Context, actingUser, id uuid.UUID) error {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return err
	}
	return s.companies.Delete(ctx, id)
}

type RegionInput struct {
	Name      string    `json:"name" validate:"required,max=100"`
	Center    *string   `json:"center"`
	Color     string    `json:"color"`
	CompanyID uuid.UUID `json:"company_id" validate:"required"`
}

func (s *AssetService) CreateRegion(ctx context.Context, actingUser uuid.UUID, input RegionInput) (*model.Region, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	company, err := s.gate.CompanyChain(ctx, input.CompanyID)
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

	region := &model.Region{
		Name:      input.Name,
		Center:    center,
		Color:     input.Color,
		CompanyID: company.ID,
	}
	if err := s.regions.Create(ctx, region); err != nil {
		return nil, err
	}
	return s.regions.FindByID(ctx, region.ID)
}

func (s *AssetService) GetRegion(ctx context.Context, actingUser, id uuid.UUID) (*model.Region, error) {
	region, err := s.regions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, company, err := s.gate.RegionChain(ctx, region.ID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *AssetService) ListRegions(ctx context.Context, actingUser uuid.UUID) ([]*model.Region, error) {
	return s.regions.FindByOwner(ctx, actingUser)
}

func (s *AssetService) UpdateRegion(ctx context.Context, actingUser, id uuid.UUID, input RegionInput) (*model.Region, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	region, _, err := s.gate.RegionChain(ctx, id)
	if err != nil {
		return nil, err
	}
	// Both the current and the requested company must belong to the acting
	// user, so a region cannot be moved into a foreign tenant's tree.
	current, err := s.companies.FindByID(ctx, region.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, current); err != nil {
		return nil, err
	}
	target, err := s.gate.CompanyChain(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, target); err != nil {
		return nil, err
	}
	center, err := parsePoint(input.Center)
	if err != nil {
		return nil, err
	}

	region.Name = input.Name
	region.Center = center
	region.Color = input.Color
	region.CompanyID = target.ID
	if err := s.regions.Update(ctx, region); err != nil {
		return nil, err
	}
	return s.regions.FindByID(ctx, region.ID)
}

func (s *AssetService) DeleteRegion(ctx context.Context, actingUser, id uuid.UUID) error {
	_, company, err := s.gate.RegionChain(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return err
	}
	return s.regions.Delete(ctx, id)
}

type SectorInput struct {
	Name                  string    `json:"name" validate:"required,max=100"`
	TotalWaterRequirement float64   `json:"total_water_requirement" validate:"gte=0"`
	Shape                 *string   `json:"shape"`
	Color                 string    `json:"color"`
	RegionID              uuid.UUID `json:"region_id" validate:"required"`
}

// SectorDetail pairs a sector with its read-time aggregates over the live
// child plantation set.
type SectorDetail struct {
	Sector *model.WaterwaySector
	Stats  *repository.PlantationStats
}

func (s *AssetService) CreateSector(ctx context.Context, actingUser uuid.UUID, input SectorInput) (*SectorDetail, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	_, company, err := s.gate.RegionChain(ctx, input.RegionID)
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

	sector := &model.WaterwaySector{
		Name:                  input.Name,
		TotalWaterRequirement: input.TotalWaterRequirement,
		Shape:                 shape,
		Color:                 input.Color,
		RegionID:              input.RegionID,
	}
	if area := derive.SectorArea(sector.Shape); area != nil {
		sector.AreaHa = area
	}
	if err := s.sectors.Create(ctx, sector); err != nil {
		return nil, err
	}
	return s.sectorDetail(ctx, sector.ID)
}

func (s *AssetService) GetSector(ctx context.Context, actingUser, id uuid.UUID) (*SectorDetail, error) {
	_, _, company, err := s.gate.SectorChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	return s.sectorDetail(ctx, id)
}

func (s *AssetService) ListSectors(ctx context.Context, actingUser uuid.UUID) ([]*SectorDetail, error) {
	sectors, err := s.sectors.FindByOwner(ctx, actingUser)
	if err != nil {
		return nil, err
	}
	details := make([]*SectorDetail, 0, len(sectors))
	for _, sector := range sectors {
		stats, err := s.sectors.Stats(ctx, sector.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &SectorDetail{Sector: sector, Stats: stats})
	}
	return details, nil
}

func (s *AssetService) UpdateSector(ctx context.Context, actingUser, id uuid.UUID, input SectorInput) (*SectorDetail, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	sector, _, company, err := s.gate.SectorChain(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}
	_, targetCompany, err := s.gate.RegionChain(ctx, input.RegionID)
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

	sector.Name = input.Name
	sector.TotalWaterRequirement = input.TotalWaterRequirement
	sector.Color = input.Color
	sector.RegionID = input.RegionID
	if shape != nil {
		// A sector with no digitized shape keeps its last-known area.
		sector.Shape = shape
		sector.AreaHa = derive.SectorArea(shape)
	}
	if err := s.sectors.Update(ctx, sector); err != nil {
		return nil, err
	}
	return s.sectorDetail(ctx, id)
}

func (s *AssetService) DeleteSector(ctx context.Context, actingUser, id uuid.UUID) error {
	_, _, company, err := s.gate.SectorChain(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return err
	}
	return s.sectors.Delete(ctx, id)
}

func (s *AssetService) sectorDetail(ctx context.Context, id uuid.UUID) (*SectorDetail, error) {
	sector, err := s.sectors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.sectors.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SectorDetail{Sector: sector, Stats: stats}, nil
}
