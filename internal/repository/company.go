// internal/repository/company.go
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

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Company{}).Where("name = ?", company.Name).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing company name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: company name %q", domain.ErrUniqueness, company.Name)
		}
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("creating company: %w", err)
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

func (r *CompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).Preload("Owner").First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return &company, nil
}

// FindByOwner returns every company owned by the given user.
func (r *CompanyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Company, error) {
	var companies []*model.Company
	if err := r.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).Order("name").
		Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("finding companies by owner: %w", err)
	}
	return companies, nil
}

// Update saves the company, re-checking name uniqueness against every other
// company so a rename cannot take a name that is already held.
func (r *CompanyRepository) Update(ctx context.Context, company *model.Company) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Company{}).
			Where("name = ? AND id <> ?", company.Name, company.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking existing company name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: company name %q", domain.ErrUniqueness, company.Name)
		}
		if err := tx.Omit(clause.Associations).Save(company).Error; err != nil {
			return fmt.Errorf("updating company: %w", err)
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

// Delete removes the company and, depth-first, every strict descendant.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var regionIDs []uuid.UUID
		if err := tx.Model(&model.Region{}).Where("company_id = ?", id).
			Pluck("id", &regionIDs).Error; err != nil {
			return fmt.Errorf("listing regions: %w", err)
		}
		if err := deleteRegionsTx(tx, regionIDs); err != nil {
			return fmt.Errorf("deleting regions: %w", err)
		}
		if err := tx.Delete(&model.Company{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting company: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
