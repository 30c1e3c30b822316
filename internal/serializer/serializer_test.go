// internal/serializer/serializer_test.go
package serializer

import (
	"testing"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCompanyResponseCarriesOwnerUsername(t *testing.T) {
	company := &model.Company{
		ID:     uuid.New(),
		Name:   "Acme Agro",
		Owner:  model.User{Username: "farmer"},
		Center: &geo.Point{Lon: 47.5, Lat: 40.1},
	}

	resp := Company(company)
	assert.Equal(t, "farmer", resp.Owner)
	assert.Equal(t, company.Center, resp.Center)
}

func TestRegionResponseCarriesCompanyName(t *testing.T) {
	companyID := uuid.New()
	region := &model.Region{
		ID:        uuid.New(),
		Name:      "North",
		CompanyID: companyID,
		Company:   model.Company{Name: "Acme Agro"},
	}

	resp := Region(region)
	assert.Equal(t, "Acme Agro", resp.Company)
	assert.Equal(t, companyID, resp.CompanyID)
}

func TestSectorResponseIncludesAggregates(t *testing.T) {
	area := 2447.5
	sector := &model.WaterwaySector{
		ID:     uuid.New(),
		Name:   "Canal 3",
		AreaHa: &area,
		Region: model.Region{Name: "North"},
	}
	stats := &repository.PlantationStats{PlantationCount: 2, TotalPlantationArea: 3.93}

	resp := Sector(sector, stats)
	assert.Equal(t, "North", resp.Region)
	assert.EqualValues(t, 2, resp.PlantationCount)
	assert.Equal(t, 3.93, resp.TotalPlantationArea)
}

func TestSectorResponseNilStats(t *testing.T) {
	resp := Sector(&model.WaterwaySector{ID: uuid.New()}, nil)
	assert.Zero(t, resp.PlantationCount)
	assert.Zero(t, resp.TotalPlantationArea)
}

func TestPivotResponseCrops(t *testing.T) {
	pivot := &model.CropPivot{
		ID:      uuid.New(),
		Area:    3.14,
		RadiusM: 100,
		Sector:  model.WaterwaySector{Name: "Canal 3"},
		Crops: []model.Crop{
			{ID: uuid.New(), Name: "wheat"},
			{ID: uuid.New(), Name: "corn"},
		},
	}

	resp := Pivot(pivot)
	assert.Equal(t, "Canal 3", resp.Sector)
	assert.Equal(t, 3.14, resp.Area)
	assert.Len(t, resp.Crops, 2)
	assert.Equal(t, "wheat", resp.Crops[0].Name)
}

func TestRotationEntryResponseEmbedsCrop(t *testing.T) {
	yield := 4.2
	entry := &model.CropRotationEntry{
		ID:              uuid.New(),
		RotationID:      uuid.New(),
		Crop:            model.Crop{ID: uuid.New(), Name: "barley"},
		ActualYieldTons: &yield,
	}

	resp := RotationEntry(entry)
	assert.Equal(t, "barley", resp.Crop.Name)
	assert.Equal(t, &yield, resp.ActualYieldTons)
}
