// internal/service/owner.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/google/uuid"
)

// OwnerGate validates that a mutation on any entity is performed by the user
// who owns the root company of that entity's chain. Every validator resolves
// its own immediate parent reference; existence is checked before ownership
// so a permission error never leaks whether a row exists.
type OwnerGate struct {
	companies *repository.CompanyRepository
	regions   *repository.RegionRepository
	sectors   *repository.SectorRepository
}

func NewOwnerGate(
	companies *repository.CompanyRepository,
	regions *repository.RegionRepository,
	sectors *repository.SectorRepository,
) *OwnerGate {
	return &OwnerGate{companies: companies, regions: regions, sectors: sectors}
}

// AuthorizeCompany checks that actingUser owns the given company.
func (g *OwnerGate) AuthorizeCompany(ctx context.Context, actingUser uuid.UUID, company *model.Company) error {
	if company.OwnerID != actingUser {
		return domain.ErrNotOwner
	}
	return nil
}

// CompanyChain resolves a company by id. A missing row surfaces as
// ErrOrphanReference: the caller supplied the reference.
func (g *OwnerGate) CompanyChain(ctx context.Context, companyID uuid.UUID) (*model.Company, error) {
	company, err := g.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: company %s", domain.ErrOrphanReference, companyID)
		}
		return nil, err
	}
	return company, nil
}

// RegionChain resolves a region and walks up to its company. The region
// itself missing is an orphan reference; a missing company above an existing
// region is a broken chain, which cascade deletes should make impossible.
func (g *OwnerGate) RegionChain(ctx context.Context, regionID uuid.UUID) (*model.Region, *model.Company, error) {
	region, err := g.regions.FindByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: region %s", domain.ErrOrphanReference, regionID)
		}
		return nil, nil, err
	}
	company, err := g.companies.FindByID(ctx, region.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("region points at missing company", "region_id", regionID, "company_id", region.CompanyID)
			return nil, nil, fmt.Errorf("%w: region %s has no company", domain.ErrBrokenChain, regionID)
		}
		return nil, nil, err
	}
	return region, company, nil
}

// SectorChain resolves a sector and walks up to its region and company.
func (g *OwnerGate) SectorChain(ctx context.Context, sectorID uuid.UUID) (*model.WaterwaySector, *model.Region, *model.Company, error) {
	sector, err := g.sectors.FindByID(ctx, sectorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: sector %s", domain.ErrOrphanReference, sectorID)
		}
		return nil, nil, nil, err
	}
	region, err := g.regions.FindByID(ctx, sector.RegionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("sector points at missing region", "sector_id", sectorID, "region_id", sector.RegionID)
			return nil, nil, nil, fmt.Errorf("%w: sector %s has no region", domain.ErrBrokenChain, sectorID)
		}
		return nil, nil, nil, err
	}
	company, err := g.companies.FindByID(ctx, region.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("region points at missing company", "region_id", region.ID, "company_id", region.CompanyID)
			return nil, nil, nil, fmt.Errorf("%w: region %s has no company", domain.ErrBrokenChain, region.ID)
		}
		return nil, nil, nil, err
	}
	return sector, region, company, nil
}
