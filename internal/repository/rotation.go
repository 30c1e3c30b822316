// internal/repository/rotation.go
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

type RotationRepository struct {
	db *gorm.DB
}

func NewRotationRepository(db *gorm.DB) *RotationRepository {
	return &RotationRepository{db: db}
}

// Create persists a rotation after checking the one-rotation-per-plantation-
// per-year rule inside the transaction.
func (r *RotationRepository) Create(ctx context.Context, rotation *model.CropRotation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRotationYearTx(tx, rotation); err != nil {
			return err
		}
		if err := tx.Create(rotation).Error; err != nil {
			return fmt.Errorf("creating rotation: %w", err)
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

func (r *RotationRepository) Update(ctx context.Context, rotation *model.CropRotation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRotationYearTx(tx, rotation); err != nil {
			return err
		}
		// Omit associations so stale preloaded links cannot undo a relink.
		if err := tx.Omit(clause.Associations).Save(rotation).Error; err != nil {
			return fmt.Errorf("updating rotation: %w", err)
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

// checkRotationYearTx enforces uniqueness of (plantation, year). The unique
// index cannot express this because one of the two link columns is always
// null, and nulls compare distinct.
func checkRotationYearTx(tx *gorm.DB, rotation *model.CropRotation) error {
	q := tx.Model(&model.CropRotation{}).Where("year = ?", rotation.Year)
	switch {
	case rotation.PivotID != nil:
		q = q.Where("pivot_id = ?", *rotation.PivotID)
	case rotation.FieldID != nil:
		q = q.Where("field_id = ?", *rotation.FieldID)
	default:
		return domain.ErrAmbiguousLink
	}
	if rotation.ID != uuid.Nil {
		q = q.Where("id <> ?", rotation.ID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("checking existing rotation year: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: rotation for year %d already exists", domain.ErrUniqueness, rotation.Year)
	}
	return nil
}

func (r *RotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CropRotation, error) {
	var rotation model.CropRotation
	if err := r.db.WithContext(ctx).Preload("Pivot").Preload("Field").
		First(&rotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding rotation: %w", err)
	}
	return &rotation, nil
}

// FindByOwner scopes by the denormalized company snapshot so that rotations
// whose plantation has been deleted still appear in their owner's ledger.
func (r *RotationRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.CropRotation, error) {
	var rotations []*model.CropRotation
	if err := r.db.WithContext(ctx).Preload("Pivot").Preload("Field").
		Joins("JOIN companies ON companies.id = crop_rotations.company_id").
		Where("companies.owner_id = ?", ownerID).
		Order("crop_rotations.year DESC").
		Find(&rotations).Error; err != nil {
		return nil, fmt.Errorf("finding rotations by owner: %w", err)
	}
	return rotations, nil
}

// Delete removes the rotation and its entries.
func (r *RotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rotation_id = ?", id).Delete(&model.CropRotationEntry{}).Error; err != nil {
			return fmt.Errorf("deleting rotation entries: %w", err)
		}
		if err := tx.Delete(&model.CropRotation{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting rotation: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// GetOrCreateEntry inserts an entry for (rotation, crop) or returns the
// existing one, so repeated seeding and import runs are safe to retry.
func (r *RotationRepository) GetOrCreateEntry(ctx context.Context, entry *model.CropRotationEntry) error {
	result := r.db.WithContext(ctx).
		Where("rotation_id = ? AND crop_id = ?", entry.RotationID, entry.CropID).
		FirstOrCreate(entry)
	if result.Error != nil {
		return fmt.Errorf("get-or-create rotation entry: %w", result.Error)
	}
	return nil
}

func (r *RotationRepository) FindEntryByID(ctx context.Context, id uuid.UUID) (*model.CropRotationEntry, error) {
	var entry model.CropRotationEntry
	if err := r.db.WithContext(ctx).Preload("Crop").
		First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding rotation entry: %w", err)
	}
	return &entry, nil
}

// UpdateEntry saves an entry, re-checking that its crop is not already held
// by another entry of the same rotation.
func (r *RotationRepository) UpdateEntry(ctx context.Context, entry *model.CropRotationEntry) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.CropRotationEntry{}).
			Where("rotation_id = ? AND crop_id = ? AND id <> ?", entry.RotationID, entry.CropID, entry.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing rotation entry: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: crop already recorded in this rotation", domain.ErrUniqueness)
		}
		if err := tx.Omit(clause.Associations).Save(entry).Error; err != nil {
			return fmt.Errorf("updating rotation entry: %w", err)
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

func (r *RotationRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.CropRotationEntry{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting rotation entry: %w", err)
	}
	return nil
}

func (r *RotationRepository) FindEntries(ctx context.Context, rotationID uuid.UUID) ([]*model.CropRotationEntry, error) {
	var entries []*model.CropRotationEntry
	if err := r.db.WithContext(ctx).Preload("Crop").
		Where("rotation_id = ?", rotationID).
		Order("created_at").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("finding rotation entries: %w", err)
	}
	return entries, nil
}
