// internal/service/rotation_test.go
package service

import (
	"context"
	"testing"

	"github.com/agrostack/fieldops/internal/domain"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRotationAmbiguousLink(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	shape := "POLYGON ((0 0, 0 0.01, 0.01 0.01, 0.01 0, 0 0))"
	field, err := env.plantations.CreateField(context.Background(), owner, FieldInput{
		Area:     1,
		Shape:    &shape,
		SectorID: sector.ID,
	})
	require.NoError(t, err)

	// Neither link set.
	_, err = env.rotations.CreateRotation(context.Background(), owner, RotationInput{Year: 2024})
	assert.ErrorIs(t, err, domain.ErrAmbiguousLink)

	// Both links set.
	_, err = env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
		FieldID: &field.ID,
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguousLink)
}

func TestCreateRotationSnapshotsChain(t *testing.T) {
	env := newTestEnv(t)
	owner, company, region, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		Notes:   "first season",
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, sector.ID, rotation.SectorID)
	assert.Equal(t, region.ID, rotation.RegionID)
	assert.Equal(t, company.ID, rotation.CompanyID)
}

func TestRotationYearUniquePerPlantation(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	other := env.pivot(t, owner, sector.ID, 120)

	_, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	_, err = env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	assert.ErrorIs(t, err, domain.ErrUniqueness)

	// A different plantation may reuse the year, as may the same plantation
	// in a different year.
	_, err = env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &other.ID,
	})
	assert.NoError(t, err)
	_, err = env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2025,
		PivotID: &pivot.ID,
	})
	assert.NoError(t, err)
}

func TestRotationSnapshotStaleUntilNextSave(t *testing.T) {
	env := newTestEnv(t)
	owner, _, region, sector := env.tree(t)
	second := env.sector(t, owner, region.ID)
	pivot := env.pivot(t, owner, sector.ID, 100)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	require.Equal(t, sector.ID, rotation.SectorID)

	// Move the pivot into the second sector. The stored snapshot must not
	// change until the rotation itself is saved again.
	_, err = env.plantations.UpdatePivot(context.Background(), owner, pivot.ID, PivotInput{
		RadiusM:  100,
		SectorID: second.ID,
	})
	require.NoError(t, err)

	got, err := env.rotations.GetRotation(context.Background(), owner, rotation.ID)
	require.NoError(t, err)
	assert.Equal(t, sector.ID, got.SectorID)

	updated, err := env.rotations.UpdateRotation(context.Background(), owner, rotation.ID, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.SectorID)
}

func TestRotationSurvivesPlantationDelete(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.plantations.DeletePivot(context.Background(), owner, pivot.ID))

	// Still readable and listable through the company snapshot.
	got, err := env.rotations.GetRotation(context.Background(), owner, rotation.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PivotID)

	list, err := env.rotations.ListRotations(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rotation.ID, list[0].ID)
}

func TestRotationForeignOwnerRejected(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	stranger := env.user(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	_, err := env.rotations.CreateRotation(context.Background(), stranger, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	_, err = env.rotations.GetRotation(context.Background(), stranger, rotation.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestAddEntryIdempotent(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	yield := 4.2
	first, err := env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{
		CropID:            wheat.ID,
		ExpectedYieldTons: &yield,
	})
	require.NoError(t, err)

	second, err := env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{
		CropID: wheat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	entries, err := env.rotations.ListEntries(context.Background(), owner, rotation.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wheat", entries[0].Crop.Name)
	require.NotNil(t, entries[0].ExpectedYieldTons)
	assert.Equal(t, yield, *entries[0].ExpectedYieldTons)
}

func TestAddEntryUnknownCrop(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)

	missing := env.user(t) // arbitrary uuid that is not a crop id
	_, err = env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{
		CropID: missing,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateEntry(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")
	corn := env.crop(t, "corn")

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	entry, err := env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{
		CropID: wheat.ID,
	})
	require.NoError(t, err)

	yield := 5.5
	updated, err := env.rotations.UpdateEntry(context.Background(), owner, rotation.ID, entry.ID, RotationEntryInput{
		CropID:          corn.ID,
		ActualYieldTons: &yield,
	})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID)
	assert.Equal(t, "corn", updated.Crop.Name)
	require.NotNil(t, updated.ActualYieldTons)
	assert.Equal(t, yield, *updated.ActualYieldTons)
}

func TestUpdateEntryDuplicateCrop(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")
	corn := env.crop(t, "corn")

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	_, err = env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{CropID: wheat.ID})
	require.NoError(t, err)
	cornEntry, err := env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{CropID: corn.ID})
	require.NoError(t, err)

	_, err = env.rotations.UpdateEntry(context.Background(), owner, rotation.ID, cornEntry.ID, RotationEntryInput{
		CropID: wheat.ID,
	})
	assert.ErrorIs(t, err, domain.ErrUniqueness)
}

func TestEntryScopedToItsRotation(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")

	first, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	second, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2025,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	entry, err := env.rotations.AddEntry(context.Background(), owner, first.ID, RotationEntryInput{CropID: wheat.ID})
	require.NoError(t, err)

	// Addressing the entry through the wrong rotation must not resolve it.
	_, err = env.rotations.GetEntry(context.Background(), owner, second.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = env.rotations.DeleteEntry(context.Background(), owner, second.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := env.rotations.GetEntry(context.Background(), owner, first.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	entry, err := env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{CropID: wheat.ID})
	require.NoError(t, err)

	require.NoError(t, env.rotations.DeleteEntry(context.Background(), owner, rotation.ID, entry.ID))

	entries, err := env.rotations.ListEntries(context.Background(), owner, rotation.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteRotationRemovesEntries(t *testing.T) {
	env := newTestEnv(t)
	owner, _, _, sector := env.tree(t)
	pivot := env.pivot(t, owner, sector.ID, 100)
	wheat := env.crop(t, "wheat")

	rotation, err := env.rotations.CreateRotation(context.Background(), owner, RotationInput{
		Year:    2024,
		PivotID: &pivot.ID,
	})
	require.NoError(t, err)
	_, err = env.rotations.AddEntry(context.Background(), owner, rotation.ID, RotationEntryInput{CropID: wheat.ID})
	require.NoError(t, err)

	require.NoError(t, env.rotations.DeleteRotation(context.Background(), owner, rotation.ID))

	_, err = env.rotations.GetRotation(context.Background(), owner, rotation.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, env.count(t, &model.CropRotationEntry{}, ""))
}
