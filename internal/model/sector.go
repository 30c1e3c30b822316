// internal/model/sector.go
package model

import (
	"time"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaterwaySector is the irrigation unit that directly contains plantations.
// AreaHa is derived from the digitized shape whenever one is present; a
// sector with no shape keeps its last-known value (or stays null).
type WaterwaySector struct {
	ID                    uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Name                  string       `gorm:"type:text;not null" json:"name"`
	AreaHa                *float64     `json:"area_ha"`
	TotalWaterRequirement float64      `gorm:"not null" json:"total_water_requirement"`
	Shape                 *geo.Polygon `gorm:"type:text" json:"shape"`
	Color                 string       `gorm:"type:text" json:"color"`
	RegionID              uuid.UUID    `gorm:"type:uuid;not null;index" json:"region_id"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`

	Region Region      `gorm:"foreignKey:RegionID" json:"-"`
	Pivots []CropPivot `gorm:"foreignKey:SectorID;constraint:OnDelete:CASCADE" json:"-"`
	Fields []CropField `gorm:"foreignKey:SectorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *WaterwaySector) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
