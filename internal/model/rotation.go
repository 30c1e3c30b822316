// internal/model/rotation.go
package model

import (
	"time"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlantationKind tags which variant a rotation is linked to.
type PlantationKind string

const (
	PlantationPivot PlantationKind = "pivot"
	PlantationField PlantationKind = "field"
)

// PlantationRef is the tagged union used at the service boundary: exactly one
// plantation kind, with its id. It exists so "exactly one of pivot/field" is
// enforced when the reference is constructed, not left to scattered checks.
type PlantationRef struct {
	Kind PlantationKind
	ID   uuid.UUID
}

// NewPlantationRef builds a reference from the two nullable ids a caller may
// supply. Zero or two set ids yield ErrAmbiguousLink.
func NewPlantationRef(pivotID, fieldID *uuid.UUID) (PlantationRef, error) {
	switch {
	case pivotID != nil && fieldID != nil:
		return PlantationRef{}, domain.ErrAmbiguousLink
	case pivotID != nil:
		return PlantationRef{Kind: PlantationPivot, ID: *pivotID}, nil
	case fieldID != nil:
		return PlantationRef{Kind: PlantationField, ID: *fieldID}, nil
	default:
		return PlantationRef{}, domain.ErrAmbiguousLink
	}
}

// CropRotation is one year's crop-planning record for a single plantation.
// SectorID, RegionID and CompanyID are snapshots of the plantation's
// ownership chain taken at write time; they are recomputed on every save and
// never independently writable. They deliberately carry no foreign-key
// constraint so the record survives deletion of any part of the chain.
type CropRotation struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Year    int       `gorm:"not null;index" json:"year"`
	Notes   string    `gorm:"type:text" json:"notes"`
	PivotID *uuid.UUID `gorm:"type:uuid;index" json:"pivot_id"`
	FieldID *uuid.UUID `gorm:"type:uuid;index" json:"field_id"`

	SectorID  uuid.UUID `gorm:"type:uuid" json:"sector_id"`
	RegionID  uuid.UUID `gorm:"type:uuid" json:"region_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;index" json:"company_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pivot   *CropPivot          `gorm:"foreignKey:PivotID;constraint:OnDelete:SET NULL" json:"-"`
	Field   *CropField          `gorm:"foreignKey:FieldID;constraint:OnDelete:SET NULL" json:"-"`
	Entries []CropRotationEntry `gorm:"foreignKey:RotationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *CropRotation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CropRotationEntry records one crop within a rotation year. A crop appears
// at most once per rotation; repeated inserts are get-or-create idempotent.
type CropRotationEntry struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RotationID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rotation_crop" json:"rotation_id"`
	CropID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rotation_crop" json:"crop_id"`
	SeedingDate       *time.Time `gorm:"type:date" json:"seeding_date"`
	HarvestDate       *time.Time `gorm:"type:date" json:"harvest_date"`
	ActualYieldTons   *float64   `json:"actual_yield_tons"`
	ExpectedYieldTons *float64   `json:"expected_yield_tons"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Rotation CropRotation `gorm:"foreignKey:RotationID" json:"-"`
	Crop     Crop         `gorm:"foreignKey:CropID" json:"-"`
}

func (e *CropRotationEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// All lists every model for migration, ordered parents first.
func All() []any {
	return []any{
		&User{},
		&Company{},
		&Region{},
		&WaterwaySector{},
		&CropPivot{},
		&CropField{},
		&Crop{},
		&CropRotation{},
		&CropRotationEntry{},
	}
}
