// internal/model/region.go
package model

import (
	"time"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Region is the second level of the containment tree, exclusively owned by
// its company and cascade-deleted with it.
type Region struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"type:text;not null" json:"name"`
	Center    *geo.Point `gorm:"type:text" json:"center"`
	Color     string     `gorm:"type:text" json:"color"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Company Company          `gorm:"foreignKey:CompanyID" json:"-"`
	Sectors []WaterwaySector `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
