// internal/model/plantation.go
package model

import (
	"time"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CropPivot is a circular, irrigation-pivot-based plantation. Area is always
// derived from RadiusM and never accepted from caller input.
type CropPivot struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LogicalName string     `gorm:"type:text" json:"logical_name"`
	Area        float64    `json:"area"`
	SeedingDate *time.Time `gorm:"type:date" json:"seeding_date"`
	HarvestDate *time.Time `gorm:"type:date" json:"harvest_date"`
	Center      *geo.Point `gorm:"type:text" json:"center"`
	RadiusM     float64    `gorm:"not null" json:"radius_m"`
	Color       string     `gorm:"type:text" json:"color"`
	SectorID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sector_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Sector WaterwaySector `gorm:"foreignKey:SectorID" json:"-"`
	Crops  []Crop         `gorm:"many2many:pivot_crops" json:"crops"`
}

func (p *CropPivot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CropField is an arbitrary-polygon plantation. Unlike a pivot its area is
// supplied by the caller, typically measured off the digitized shape.
type CropField struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	LogicalName string       `gorm:"type:text" json:"logical_name"`
	Area        float64      `json:"area"`
	SeedingDate *time.Time   `gorm:"type:date" json:"seeding_date"`
	HarvestDate *time.Time   `gorm:"type:date" json:"harvest_date"`
	Shape       *geo.Polygon `gorm:"type:text" json:"shape"`
	Color       string       `gorm:"type:text" json:"color"`
	SectorID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"sector_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Sector WaterwaySector `gorm:"foreignKey:SectorID" json:"-"`
	Crops  []Crop         `gorm:"many2many:field_crops" json:"crops"`
}

func (f *CropField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
