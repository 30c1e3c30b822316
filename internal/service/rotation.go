// internal/service/rotation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RotationService manages the crop-rotation ledger. The sector/region/company
// references on every rotation are snapshots of the linked plantation's chain
// taken at write time; a later reassignment of the chain is not reflected
// until the rotation is next saved.
type RotationService struct {
	rotations *repository.RotationRepository
	pivots    *repository.PivotRepository
	fields    *repository.FieldRepository
	crops     *repository.CropRepository
	companies *repository.CompanyRepository
	gate      *OwnerGate
	validate  *validator.Validate
}

func NewRotationService(
	rotations *repository.RotationRepository,
	pivots *repository.PivotRepository,
	fields *repository.FieldRepository,
	crops *repository.CropRepository,
	companies *repository.CompanyRepository,
	gate *OwnerGate,
) *RotationService {
	return &RotationService{
		rotations: rotations,
		pivots:    pivots,
		fields:    fields,
		crops:     crops,
		companies: companies,
		gate:      gate,
		validate:  validator.New(),
	}
}

type RotationInput struct {
	Year    int        `json:"year" validate:"required,gte=1900,lte=2200"`
	Notes   string     `json:"notes"`
	PivotID *uuid.UUID `json:"pivot_id"`
	FieldID *uuid.UUID `json:"field_id"`
}

// chainSnapshot resolves the plantation behind ref and projects its current
// ownership chain. The plantation missing is an orphan reference; anything
// missing above it is a broken chain.
func (s *RotationService) chainSnapshot(ctx context.Context, ref model.PlantationRef) (sectorID, regionID, companyID uuid.UUID, err error) {
	var plantationSector uuid.UUID
	switch ref.Kind {
	case model.PlantationPivot:
		pivot, ferr := s.pivots.FindByID(ctx, ref.ID)
		if ferr != nil {
			if errors.Is(ferr, domain.ErrNotFound) {
				return uuid.Nil, uuid.Nil, uuid.Nil, fmt.Errorf("%w: pivot %s", domain.ErrOrphanReference, ref.ID)
			}
			return uuid.Nil, uuid.Nil, uuid.Nil, ferr
		}
		plantationSector = pivot.SectorID
	case model.PlantationField:
		field, ferr := s.fields.FindByID(ctx, ref.ID)
		if ferr != nil {
			if errors.Is(ferr, domain.ErrNotFound) {
				return uuid.Nil, uuid.Nil, uuid.Nil, fmt.Errorf("%w: field %s", domain.ErrOrphanReference, ref.ID)
			}
			return uuid.Nil, uuid.Nil, uuid.Nil, ferr
		}
		plantationSector = field.SectorID
	default:
		return uuid.Nil, uuid.Nil, uuid.Nil, domain.ErrAmbiguousLink
	}

	sector, region, company, err := s.gate.SectorChain(ctx, plantationSector)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return sector.ID, region.ID, company.ID, nil
}

func (s *RotationService) CreateRotation(ctx context.Context, actingUser uuid.UUID, input RotationInput) (*model.CropRotation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	ref, err := model.NewPlantationRef(input.PivotID, input.FieldID)
	if err != nil {
		return nil, err
	}
	sectorID, regionID, companyID, err := s.chainSnapshot(ctx, ref)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}

	rotation := &model.CropRotation{
		Year:      input.Year,
		Notes:     input.Notes,
		PivotID:   input.PivotID,
		FieldID:   input.FieldID,
		SectorID:  sectorID,
		RegionID:  regionID,
		CompanyID: companyID,
	}
	if err := s.rotations.Create(ctx, rotation); err != nil {
		return nil, err
	}
	return s.rotations.FindByID(ctx, rotation.ID)
}

// authorizeRotation walks the live chain when the plantation link is intact,
// and falls back to the company snapshot when the plantation is gone.
func (s *RotationService) authorizeRotation(ctx context.Context, actingUser uuid.UUID, rotation *model.CropRotation) error {
	companyID := rotation.CompanyID
	if rotation.PivotID != nil || rotation.FieldID != nil {
		ref, err := model.NewPlantationRef(rotation.PivotID, rotation.FieldID)
		if err != nil {
			return err
		}
		_, _, liveCompany, err := s.chainSnapshot(ctx, ref)
		if err != nil {
			return err
		}
		companyID = liveCompany
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: rotation %s has no company", domain.ErrBrokenChain, rotation.ID)
		}
		return err
	}
	return s.gate.AuthorizeCompany(ctx, actingUser, company)
}

func (s *RotationService) GetRotation(ctx context.Context, actingUser, id uuid.UUID) (*model.CropRotation, error) {
	rotation, err := s.rotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}
	return rotation, nil
}

func (s *RotationService) ListRotations(ctx context.Context, actingUser uuid.UUID) ([]*model.CropRotation, error) {
	return s.rotations.FindByOwner(ctx, actingUser)
}

func (s *RotationService) UpdateRotation(ctx context.Context, actingUser, id uuid.UUID, input RotationInput) (*model.CropRotation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rotation, err := s.rotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}

	ref, err := model.NewPlantationRef(input.PivotID, input.FieldID)
	if err != nil {
		return nil, err
	}
	sectorID, regionID, companyID, err := s.chainSnapshot(ctx, ref)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.AuthorizeCompany(ctx, actingUser, company); err != nil {
		return nil, err
	}

	rotation.Year = input.Year
	rotation.Notes = input.Notes
	rotation.PivotID = input.PivotID
	rotation.FieldID = input.FieldID
	rotation.SectorID = sectorID
	rotation.RegionID = regionID
	rotation.CompanyID = companyID
	if err := s.rotations.Update(ctx, rotation); err != nil {
		return nil, err
	}
	return s.rotations.FindByID(ctx, rotation.ID)
}

func (s *RotationService) DeleteRotation(ctx context.Context, actingUser, id uuid.UUID) error {
	rotation, err := s.rotations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return err
	}
	return s.rotations.Delete(ctx, id)
}

type RotationEntryInput struct {
	CropID            uuid.UUID  `json:"crop_id" validate:"required"`
	SeedingDate       *time.Time `json:"seeding_date"`
	HarvestDate       *time.Time `json:"harvest_date"`
	ActualYieldTons   *float64   `json:"actual_yield_tons"`
	ExpectedYieldTons *float64   `json:"expected_yield_tons"`
}

// AddEntry records a crop within the rotation year. Re-adding the same crop
// is idempotent: the existing entry is returned unchanged.
func (s *RotationService) AddEntry(ctx context.Context, actingUser, rotationID uuid.UUID, input RotationEntryInput) (*model.CropRotationEntry, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rotation, err := s.rotations.FindByID(ctx, rotationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}
	crop, err := s.crops.FindByID(ctx, input.CropID)
	if err != nil {
		return nil, err
	}

	entry := &model.CropRotationEntry{
		RotationID:        rotation.ID,
		CropID:            input.CropID,
		SeedingDate:       input.SeedingDate,
		HarvestDate:       input.HarvestDate,
		ActualYieldTons:   input.ActualYieldTons,
		ExpectedYieldTons: input.ExpectedYieldTons,
	}
	if err := s.rotations.GetOrCreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Crop = *crop
	return entry, nil
}

// entryForRotation resolves an entry and verifies it belongs to the given
// rotation, so an entry id cannot be addressed through a foreign rotation.
func (s *RotationService) entryForRotation(ctx context.Context, rotationID, entryID uuid.UUID) (*model.CropRotationEntry, error) {
	entry, err := s.rotations.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.RotationID != rotationID {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
	}
	return entry, nil
}

func (s *RotationService) GetEntry(ctx context.Context, actingUser, rotationID, entryID uuid.UUID) (*model.CropRotationEntry, error) {
	rotation, err := s.rotations.FindByID(ctx, rotationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}
	return s.entryForRotation(ctx, rotationID, entryID)
}

func (s *RotationService) UpdateEntry(ctx context.Context, actingUser, rotationID, entryID uuid.UUID, input RotationEntryInput) (*model.CropRotationEntry, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rotation, err := s.rotations.FindByID(ctx, rotationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}
	entry, err := s.entryForRotation(ctx, rotationID, entryID)
	if err != nil {
		return nil, err
	}
	crop, err := s.crops.FindByID(ctx, input.CropID)
	if err != nil {
		return nil, err
	}

	entry.CropID = input.CropID
	entry.SeedingDate = input.SeedingDate
	entry.HarvestDate = input.HarvestDate
	entry.ActualYieldTons = input.ActualYieldTons
	entry.ExpectedYieldTons = input.ExpectedYieldTons
	if err := s.rotations.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Crop = *crop
	return entry, nil
}

func (s *RotationService) DeleteEntry(ctx context.Context, actingUser, rotationID, entryID uuid.UUID) error {
	rotation, err := s.rotations.FindByID(ctx, rotationID)
	if err != nil {
		return err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return err
	}
	entry, err := s.entryForRotation(ctx, rotationID, entryID)
	if err != nil {
		return err
	}
	return s.rotations.DeleteEntry(ctx, entry.ID)
}

func (s *RotationService) ListEntries(ctx context.Context, actingUser, rotationID uuid.UUID) ([]*model.CropRotationEntry, error) {
	rotation, err := s.rotations.FindByID(ctx, rotationID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRotation(ctx, actingUser, rotation); err != nil {
		return nil, err
	}
	return s.rotations.FindEntries(ctx, rotationID)
}
