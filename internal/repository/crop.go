// internal/repository/crop.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CropRepository struct {
	db *gorm.DB
}

func NewCropRepository(db *gorm.DB) *CropRepository {
	return &CropRepository{db: db}
}

func (r *CropRepository) Create(ctx context.Context, crop *model.Crop) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Crop{}).
			Where("name = ? AND subtype = ?", crop.Name, crop.Subtype).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing crop: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: crop (%s, %s)", domain.ErrUniqueness, crop.Name, crop.Subtype)
		}
		if err := tx.Create(crop).Error; err != nil {
			return fmt.Errorf("creating crop: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUniqueness) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (r *CropRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Crop, error) {
	var crop model.Crop
	if err := r.db.WithContext(ctx).First(&crop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding crop: %w", err)
	}
	return &crop, nil
}

// FindByIDs resolves a set of crop ids, failing if any id is unknown.
func (r *CropRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Crop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var crops []model.Crop
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&crops).Error; err != nil {
		return nil, fmt.Errorf("finding crops: %w", err)
	}
	if len(crops) != len(ids) {
		return nil, fmt.Errorf("%w: one or more crops", domain.ErrNotFound)
	}
	return crops, nil
}

func (r *CropRepository) FindAll(ctx context.Context) ([]*model.Crop, error) {
	var crops []*model.Crop
	if err := r.db.WithContext(ctx).Order("name, subtype").Find(&crops).Error; err != nil {
		return nil, fmt.Errorf("finding all crops: %w", err)
	}
	return crops, nil
}
