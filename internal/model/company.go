// internal/model/company.go
package model

import (
	"time"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the root of a tenant's asset tree. Every descendant entity
// resolves its ownership chain up to exactly one company, and the company's
// owner is the only user allowed to mutate anything beneath it.
type Company struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Center    *geo.Point `gorm:"type:text" json:"center"`
	Color     string     `gorm:"type:text" json:"color"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Owner   User     `gorm:"foreignKey:OwnerID" json:"-"`
	Regions []Region `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
