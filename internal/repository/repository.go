// internal/repository/repository.go
package repository

import (
	"github.com/agrostack/fieldops/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The cascade helpers below implement depth-first deletion of the asset
// tree inside an existing transaction: plantations first, then sectors,
// regions, and finally the company row itself. Rotation rows are never
// deleted with their plantation: the plantation link is nulled so the
// rotation history survives.

func deletePivotsTx(tx *gorm.DB, pivotIDs []uuid.UUID) error {
	if len(pivotIDs) == 0 {
		return nil
	}
	if err := tx.Model(&model.CropRotation{}).Where("pivot_id IN ?", pivotIDs).
		Update("pivot_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM pivot_crops WHERE crop_pivot_id IN ?", pivotIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", pivotIDs).Delete(&model.CropPivot{}).Error
}

func deleteFieldsTx(tx *gorm.DB, fieldIDs []uuid.UUID) error {
	if len(fieldIDs) == 0 {
		return nil
	}
	if err := tx.Model(&model.CropRotation{}).Where("field_id IN ?", fieldIDs).
		Update("field_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM field_crops WHERE crop_field_id IN ?", fieldIDs).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", fieldIDs).Delete(&model.CropField{}).Error
}

func deleteSectorsTx(tx *gorm.DB, sectorIDs []uuid.UUID) error {
	if len(sectorIDs) == 0 {
		return nil
	}
	var pivotIDs []uuid.UUID
	if err := tx.Model(&model.CropPivot{}).Where("sector_id IN ?", sectorIDs).
		Pluck("id", &pivotIDs).Error; err != nil {
		return err
	}
	if err := deletePivotsTx(tx, pivotIDs); err != nil {
		return err
	}
	var fieldIDs []uuid.UUID
	if err := tx.Model(&model.CropField{}).Where("sector_id IN ?", sectorIDs).
		Pluck("id", &fieldIDs).Error; err != nil {
		return err
	}
	if err := deleteFieldsTx(tx, fieldIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", sectorIDs).Delete(&model.WaterwaySector{}).Error
}

func deleteRegionsTx(tx *gorm.DB, regionIDs []uuid.UUID) error {
	if len(regionIDs) == 0 {
		return nil
	}
	var sectorIDs []uuid.UUID
	if err := tx.Model(&model.WaterwaySector{}).Where("region_id IN ?", regionIDs).
		Pluck("id", &sectorIDs).Error; err != nil {
		return err
	}
	if err := deleteSectorsTx(tx, sectorIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", regionIDs).Delete(&model.Region{}).Error
}
