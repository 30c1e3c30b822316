// internal/service/service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agrostack/fieldops/internal/auth"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database so
// tests exercise the real authorize/derive/persist paths.
type testEnv struct {
	db *gorm.DB

	users       *UserService
	assets      *AssetService
	plantations *PlantationService
	cropsSvc    *CropService
	rotations   *RotationService

	cropRepo *repository.CropRepository
	seq      int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see a different empty memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.All()...))

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	sectorRepo := repository.NewSectorRepository(db)
	pivotRepo := repository.NewPivotRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	cropRepo := repository.NewCropRepository(db)
	rotationRepo := repository.NewRotationRepository(db)

	gate := NewOwnerGate(companyRepo, regionRepo, sectorRepo)
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		db:          db,
		users:       NewUserService(userRepo, hasher, tokens),
		assets:      NewAssetService(companyRepo, regionRepo, sectorRepo, gate),
		plantations: NewPlantationService(pivotRepo, fieldRepo, cropRepo, gate),
		cropsSvc:    NewCropService(cropRepo),
		rotations:   NewRotationService(rotationRepo, pivotRepo, fieldRepo, cropRepo, companyRepo, gate),
		cropRepo:    cropRepo,
	}
}

func (e *testEnv) user(t *testing.T) uuid.UUID {
	t.Helper()
	e.seq++
	u := &model.User{Username: fmt.Sprintf("user%d", e.seq), PasswordHash: "x"}
	require.NoError(t, e.db.Create(u).Error)
	return u.ID
}

func (e *testEnv) company(t *testing.T, owner uuid.UUID) *model.Company {
	t.Helper()
	e.seq++
	company, err := e.assets.CreateCompany(context.Background(), owner, CompanyInput{
		Name: fmt.Sprintf("company%d", e.seq),
	})
	require.NoError(t, err)
	return company
}

func (e *testEnv) region(t *testing.T, owner uuid.UUID, companyID uuid.UUID) *model.Region {
	t.Helper()
	e.seq++
	region, err := e.assets.CreateRegion(context.Background(), owner, RegionInput{
		Name:      fmt.Sprintf("region%d", e.seq),
		CompanyID: companyID,
	})
	require.NoError(t, err)
	return region
}

func (e *testEnv) sector(t *testing.T, owner uuid.UUID, regionID uuid.UUID) *model.WaterwaySector {
	t.Helper()
	e.seq++
	detail, err := e.assets.CreateSector(context.Background(), owner, SectorInput{
		Name:     fmt.Sprintf("sector%d", e.seq),
		RegionID: regionID,
	})
	require.NoError(t, err)
	return detail.Sector
}

// tree creates a full owner → company → region → sector chain.
func (e *testEnv) tree(t *testing.T) (uuid.UUID, *model.Company, *model.Region, *model.WaterwaySector) {
	t.Helper()
	owner := e.user(t)
	company := e.company(t, owner)
	region := e.region(t, owner, company.ID)
	sector := e.sector(t, owner, region.ID)
	return owner, company, region, sector
}

func (e *testEnv) pivot(t *testing.T, owner uuid.UUID, sectorID uuid.UUID, radius float64) *model.CropPivot {
	t.Helper()
	e.seq++
	pivot, err := e.plantations.CreatePivot(context.Background(), owner, PivotInput{
		LogicalName: fmt.Sprintf("P%d", e.seq%100),
		RadiusM:     radius,
		SectorID:    sectorID,
	})
	require.NoError(t, err)
	return pivot
}

func (e *testEnv) crop(t *testing.T, name string) *model.Crop {
	t.Helper()
	crop, err := e.cropsSvc.CreateCrop(context.Background(), CropInput{Name: name})
	require.NoError(t, err)
	return crop
}

func (e *testEnv) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
