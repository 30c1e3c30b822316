// internal/model/crop.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Crop is a catalog entry referenced by plantations and rotation entries.
// It is shared across tenants and never owned by a company.
type Crop struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"type:text;not null;uniqueIndex:idx_crop_name_subtype" json:"name"`
	Subtype    string    `gorm:"type:text;not null;uniqueIndex:idx_crop_name_subtype" json:"subtype"`
	BestSeason *string   `gorm:"type:text" json:"best_season"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Crop) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
