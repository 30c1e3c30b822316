// internal/repository/sector.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SectorRepository struct {
	db *gorm.DB
}

func NewSectorRepository(db *gorm.DB) *SectorRepository {
	return &SectorRepository{db: db}
}

func (r *SectorRepository) Create(ctx context.Context, sector *model.WaterwaySector) error {
	if err := r.db.WithContext(ctx).Create(sector).Error; err != nil {
		return fmt.Errorf("creating sector: %w", err)
	}
	return nil
}

func (r *SectorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WaterwaySector, error) {
	var sector model.WaterwaySector
	if err := r.db.WithContext(ctx).Preload("Region").First(&sector, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding sector: %w", err)
	}
	return &sector, nil
}

// FindByOwner returns sectors whose chain resolves to a company owned by
// the given user.
func (r *SectorRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.WaterwaySector, error) {
	var sectors []*model.WaterwaySector
	if err := r.db.WithContext(ctx).Preload("Region").
		Joins("JOIN regions ON regions.id = waterway_sectors.region_id").
		Joins("JOIN companies ON companies.id = regions.company_id").
		Where("companies.owner_id = ?", ownerID).
		Order("waterway_sectors.name").
		Find(&sectors).Error; err != nil {
		return nil, fmt.Errorf("finding sectors by owner: %w", err)
	}
	return sectors, nil
}

func (r *SectorRepository) Update(ctx context.Context, sector *model.WaterwaySector) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(sector).Error; err != nil {
		return fmt.Errorf("updating sector: %w", err)
	}
	return nil
}

// Delete removes the sector and its plantations, nulling rotation links.
func (r *SectorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSectorsTx(tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("deleting sector tree: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// PlantationStats holds the read-time aggregates over a sector's live child
// set. Nothing here is stored; it is recomputed on every read.
type PlantationStats struct {
	PlantationCount     int64
	TotalPlantationArea float64
}

// Stats aggregates child pivots and fields for one sector.
func (r *SectorRepository) Stats(ctx context.Context, sectorID uuid.UUID) (*PlantationStats, error) {
	var stats PlantationStats

	var pivotCount, fieldCount int64
	var pivotArea, fieldArea float64

	db := r.db.WithContext(ctx)
	if err := db.Model(&model.CropPivot{}).Where("sector_id = ?", sectorID).
		Count(&pivotCount).Error; err != nil {
		return nil, fmt.Errorf("counting pivots: %w", err)
	}
	if err := db.Model(&model.CropField{}).Where("sector_id = ?", sectorID).
		Count(&fieldCount).Error; err != nil {
		return nil, fmt.Errorf("counting fields: %w", err)
	}
	if err := db.Model(&model.CropPivot{}).Where("sector_id = ?", sectorID).
		Select("COALESCE(SUM(area), 0)").Scan(&pivotArea).Error; err != nil {
		return nil, fmt.Errorf("summing pivot area: %w", err)
	}
	if err := db.Model(&model.CropField{}).Where("sector_id = ?", sectorID).
		Select("COALESCE(SUM(area), 0)").Scan(&fieldArea).Error; err != nil {
		return nil, fmt.Errorf("summing field area: %w", err)
	}

	stats.PlantationCount = pivotCount + fieldCount
	stats.TotalPlantationArea = pivotArea + fieldArea
	return &stats, nil
}
