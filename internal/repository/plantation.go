// internal/repository/plantation.go
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

type PivotRepository struct {
	db *gorm.DB
}

func NewPivotRepository(db *gorm.DB) *PivotRepository {
	return &PivotRepository{db: db}
}

func (r *PivotRepository) Create(ctx context.Context, pivot *model.CropPivot) error {
	if err := r.db.WithContext(ctx).Create(pivot).Error; err != nil {
		return fmt.Errorf("creating pivot: %w", err)
	}
	return nil
}

func (r *PivotRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CropPivot, error) {
	var pivot model.CropPivot
	if err := r.db.WithContext(ctx).Preload("Sector").Preload("Crops").
		First(&pivot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding pivot: %w", err)
	}
	return &pivot, nil
}

func (r *PivotRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.CropPivot, error) {
	var pivots []*model.CropPivot
	if err := r.db.WithContext(ctx).Preload("Sector").Preload("Crops").
		Joins("JOIN waterway_sectors ON waterway_sectors.id = crop_pivots.sector_id").
		Joins("JOIN regions ON regions.id = waterway_sectors.region_id").
		Joins("JOIN companies ON companies.id = regions.company_id").
		Where("companies.owner_id = ?", ownerID).
		Order("crop_pivots.logical_name").
		Find(&pivots).Error; err != nil {
		return nil, fmt.Errorf("finding pivots by owner: %w", err)
	}
	return pivots, nil
}

func (r *PivotRepository) Update(ctx context.Context, pivot *model.CropPivot) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(pivot).Association("Crops").Replace(pivot.Crops); err != nil {
			return fmt.Errorf("replacing pivot crops: %w", err)
		}
		if err := tx.Omit(clause.Associations).Save(pivot).Error; err != nil {
			return fmt.Errorf("updating pivot: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// Delete removes the pivot; rotations that reference it keep their rows with
// the link set to null.
func (r *PivotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePivotsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, field *model.CropField) error {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return fmt.Errorf("creating field: %w", err)
	}
	return nil
}

func (r *FieldRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CropField, error) {
	var field model.CropField
	if err := r.db.WithContext(ctx).Preload("Sector").Preload("Crops").
		First(&field, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding field: %w", err)
	}
	return &field, nil
}

func (r *FieldRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.CropField, error) {
	var fields []*model.CropField
	if err := r.db.WithContext(ctx).Preload("Sector").Preload("Crops").
		Joins("JOIN waterway_sectors ON waterway_sectors.id = crop_fields.sector_id").
		Joins("JOIN regions ON regions.id = waterway_sectors.region_id").
		Joins("JOIN companies ON companies.id = regions.company_id").
		Where("companies.owner_id = ?", ownerID).
		Order("crop_fields.logical_name").
		Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("finding fields by owner: %w", err)
	}
	return fields, nil
}

func (r *FieldRepository) Update(ctx context.Context, field *model.CropField) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(field).Association("Crops").Replace(field.Crops); err != nil {
			return fmt.Errorf("replacing field crops: %w", err)
		}
		if err := tx.Omit(clause.Associations).Save(field).Error; err != nil {
			return fmt.Errorf("updating field: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// Delete removes the field; rotations that reference it keep their rows with
// the link set to null.
func (r *FieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteFieldsTx(tx, []uuid.UUID{id})
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
