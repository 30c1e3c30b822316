// internal/service/plantation_test.go
package service

import (
	"context"
	"testing"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePivotDerivesArea(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)

	pivot := env.pivot(t, owner, sector.ID, 50)
	assert.Equal(t, 0.79, pivot.Area)

	pivot = env.pivot(t, owner, sector.ID, 100)
	assert.Equal(t, 3.14, pivot.Area)
}

func TestCreatePivotRejectsNonPositiveRadius(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)

	for _, radius := range []float64{0, -10} {
		_, err := env.plantations.CreatePivot(context.Background(), owner, PivotInput{
			RadiusM:  radius,
			SectorID: sector.ID,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
	}
	assert.Zero(t, env.count(t, &model.CropPivot{}, ""))
}

func TestCreatePivotForeignSector(t *testing.T) {
	env := newTestEnv(t)
	_, _, _, sector := env.tree(t)
	stranger := env.user(t)

	_, err := env.plantations.CreatePivot(context.Background(), stranger, PivotInput{
		RadiusM:  100,
		SectorID: sector.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	assert.Zero(t, env.count(t, &model.CropPivot{}, ""))
}

func TestCreatePivotOrphanSector(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t)

	_, err := env.plantations.CreatePivot(context.Background(), owner, PivotInput{
		RadiusM:  100,
		SectorID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrOrphanReference)
}

func TestUpdatePivotRecomputesArea(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 50)

	updated, err := env.plantations.UpdatePivot(context.Background(), owner, pivot.ID, PivotInput{
		LogicalName: pivot.LogicalName,
		RadiusM:     400,
		SectorID:    sector.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.27, updated.Area)
}

func TestCreateFieldWithCrops(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	wheat := env.crop(t, "wheat")
	corn := env.crop(t, "corn")

	shape := "POLYGON ((0 0, 0 0.01, 0.01 0.01, 0.01 0, 0 0))"
	field, err := env.plantations.CreateField(context.Background(), owner, FieldInput{
		LogicalName: "F1",
		Area:        12.5,
		Shape:       &shape,
		SectorID:    sector.ID,
		CropIDs:     []uuid.UUID{wheat.ID, corn.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, field.Area)
	assert.Len(t, field.Crops, 2)
}

func TestCreateFieldUnknownCrop(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)

	_, err := env.plantations.CreateField(context.Background(), owner, FieldInput{
		Area:     1,
		SectorID: sector.ID,
		CropIDs:  []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePivotNullsRotationLink(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2023,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.plantations.DeletePivot(context.Background(), owner, pivot.ID))

	var kept model.CropRotation
	require.NoError(t, env.db.First(&kept, "id = ?", rotation.ID).Error)
	assert.Nil(t, kept.PivotID)
	assert.Equal(t, sector.ID, kept.SectorID)
}

func TestUpdatePivotReplacesCrops(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	wheat := env.crop(t, "wheat")
	corn := env.crop(t, "corn")

	pivot, err := env.plantations.CreatePivot(context.Background(), owner, PivotInput{
		RadiusM:  100,
		SectorID: sector.ID,
		CropIDs:  []uuid.UUID{wheat.ID},
	})
	require.NoError(t, err)
	require.Len(t, pivot.Crops, 1)

	updated, err := env.plantations.UpdatePivot(context.Background(), owner, pivot.ID, PivotInput{
		RadiusM:  100,
		SectorID: sector.ID,
		CropIDs:  []uuid.UUID{corn.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.Crops, 1)
	assert.Equal(t, corn.ID, updated.Crops[0].ID)
}
