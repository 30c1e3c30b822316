// internal/repository/region.go
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

type RegionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) Create(ctx context.Context, region *model.Region) error {
	if err := r.db.WithContext(ctx).Create(region).Error; err != nil {
		return fmt.Errorf("creating region: %w", err)
	}
	return nil
}

func (r *RegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Region, error) {
	var region model.Region
	if err := r.db.WithContext(ctx).Preload("Company").First(&region, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding region: %w", err)
	}
	return &region, nil
}

// FindByOwner returns regions under companies owned by the given user.
func (r *RegionRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Region, error) {
	var regions []*model.Region
	if err := r.db.WithContext(ctx).Preload("Company").
		Joins("JOIN companies ON companies.id = regions.company_id").
		Where("companies.owner_id = ?", ownerID).
		Order("regions.name").
		Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("finding regions by owner: %w", err)
	}
	return regions, nil
}

func (r *RegionRepository) Update(ctx context.Context, region *model.Region) error {
	// Omit associations so a stale preloaded Company cannot undo a reparent.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(region).Error; err != nil {
		return fmt.Errorf("updating region: %w", err)
	}
	return nil
}

// Delete removes the region and every descendant sector and plantation.
func (r *RegionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRegionsTx(tx, []uuid.UUID{id}); err != nil {
			return fmt.Errorf("deleting region tree: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
