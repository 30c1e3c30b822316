// internal/serializer/serializer.go
//
// Response shaping for the API layer. Derived fields (pivot area, sector
// area, sector aggregates) and denormalized display names (owner username,
// parent names) are read-only here: they come from the persisted entity,
// never from caller input.
package serializer

import (
	"time"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/agrostack/fieldops/internal/repository"
	"github.com/google/uuid"
)

type CompanyResponse struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Owner  string     `json:"owner"`
	Center *geo.Point `json:"center"`
	Color  string     `json:"color"`
}

func Company(m *model.Company) CompanyResponse {
	return CompanyResponse{
		ID:     m.ID,
		Name:   m.Name,
		Owner:  m.Owner.Username,
		Center: m.Center,
		Color:  m.Color,
	}
}

func Companies(ms []*model.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, Company(m))
	}
	return out
}

type RegionResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Center    *geo.Point `json:"center"`
	Color     string     `json:"color"`
	Company   string     `json:"company"`
	CompanyID uuid.UUID  `json:"company_id"`
}

func Region(m *model.Region) RegionResponse {
	return RegionResponse{
		ID:        m.ID,
		Name:      m.Name,
		Center:    m.Center,
		Color:     m.Color,
		Company:   m.Company.Name,
		CompanyID: m.CompanyID,
	}
}

func Regions(ms []*model.Region) []RegionResponse {
	out := make([]RegionResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, Region(m))
	}
	return out
}

type SectorResponse struct {
	ID                    uuid.UUID    `json:"id"`
	Name                  string       `json:"name"`
	AreaHa                *float64     `json:"area_ha"`
	TotalWaterRequirement float64      `json:"total_water_requirement"`
	Shape                 *geo.Polygon `json:"shape"`
	Color                 string       `json:"color"`
	Region                string       `json:"region"`
	RegionID              uuid.UUID    `json:"region_id"`
	PlantationCount       int64        `json:"plantation_count"`
	TotalPlantationArea   float64      `json:"total_plantation_area"`
}

func Sector(m *model.WaterwaySector, stats *repository.PlantationStats) SectorResponse {
	resp := SectorResponse{
		ID:                    m.ID,
		Name:                  m.Name,
		AreaHa:                m.AreaHa,
		TotalWaterRequirement: m.TotalWaterRequirement,
		Shape:                 m.Shape,
		Color:                 m.Color,
		Region:                m.Region.Name,
		RegionID:              m.RegionID,
	}
	if stats != nil {
		resp.PlantationCount = stats.PlantationCount
		resp.TotalPlantationArea = stats.TotalPlantationArea
	}
	return resp
}

type CropResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Subtype    string    `json:"subtype"`
	BestSeason *string   `json:"best_season"`
}

func Crop(m *model.Crop) CropResponse {
	return CropResponse{
		ID:         m.ID,
		Name:       m.Name,
		Subtype:    m.Subtype,
		BestSeason: m.BestSeason,
	}
}

func Crops(ms []model.Crop) []CropResponse {
	out := make([]CropResponse, 0, len(ms))
	for i := range ms {
		out = append(out, Crop(&ms[i]))
	}
	return out
}

type PivotResponse struct {
	ID          uuid.UUID      `json:"id"`
	LogicalName string         `json:"logical_name"`
	Area        float64        `json:"area"`
	RadiusM     float64        `json:"radius_m"`
	Center      *geo.Point     `json:"center"`
	Color       string         `json:"color"`
	SeedingDate *time.Time     `json:"seeding_date"`
	HarvestDate *time.Time     `json:"harvest_date"`
	Sector      string         `json:"sector"`
	SectorID    uuid.UUID      `json:"sector_id"`
	Crops       []CropResponse `json:"crops"`
}

func Pivot(m *model.CropPivot) PivotResponse {
	return PivotResponse{
		ID:          m.ID,
		LogicalName: m.LogicalName,
		Area:        m.Area,
		RadiusM:     m.RadiusM,
		Center:      m.Center,
		Color:       m.Color,
		SeedingDate: m.SeedingDate,
		HarvestDate: m.HarvestDate,
		Sector:      m.Sector.Name,
		SectorID:    m.SectorID,
		Crops:       Crops(m.Crops),
	}
}

func Pivots(ms []*model.CropPivot) []PivotResponse {
	out := make([]PivotResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, Pivot(m))
	}
	return out
}

type FieldResponse struct {
	ID          uuid.UUID      `json:"id"`
	LogicalName string         `json:"logical_name"`
	Area        float64        `json:"area"`
	Shape       *geo.Polygon   `json:"shape"`
	Color       string         `json:"color"`
	SeedingDate *time.Time     `json:"seeding_date"`
	HarvestDate *time.Time     `json:"harvest_date"`
	Sector      string         `json:"sector"`
	SectorID    uuid.UUID      `json:"sector_id"`
	Crops       []CropResponse `json:"crops"`
}

func Field(m *model.CropField) FieldResponse {
	return FieldResponse{
		ID:          m.ID,
		LogicalName: m.LogicalName,
		Area:        m.Area,
		Shape:       m.Shape,
		Color:       m.Color,
		SeedingDate: m.SeedingDate,
		HarvestDate: m.HarvestDate,
		Sector:      m.Sector.Name,
		SectorID:    m.SectorID,
		Crops:       Crops(m.Crops),
	}
}

func Fields(ms []*model.CropField) []FieldResponse {
	out := make([]FieldResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, Field(m))
	}
	return out
}

type RotationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Year      int        `json:"year"`
	Notes     string     `json:"notes"`
	PivotID   *uuid.UUID `json:"pivot_id"`
	FieldID   *uuid.UUID `json:"field_id"`
	SectorID  uuid.UUID  `json:"sector_id"`
	RegionID  uuid.UUID  `json:"region_id"`
	CompanyID uuid.UUID  `json:"company_id"`
}

func Rotation(m *model.CropRotation) RotationResponse {
	return RotationResponse{
		ID:        m.ID,
		Year:      m.Year,
		Notes:     m.Notes,
		PivotID:   m.PivotID,
		FieldID:   m.FieldID,
		SectorID:  m.SectorID,
		RegionID:  m.RegionID,
		CompanyID: m.CompanyID,
	}
}

func Rotations(ms []*model.CropRotation) []RotationResponse {
	out := make([]RotationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, Rotation(m))
	}
	return out
}

type RotationEntryResponse struct {
	ID                uuid.UUID    `json:"id"`
	RotationID        uuid.UUID    `json:"rotation_id"`
	Crop              CropResponse `json:"crop"`
	SeedingDate       *time.Time   `json:"seeding_date"`
	HarvestDate       *time.Time   `json:"harvest_date"`
	ActualYieldTons   *float64     `json:"actual_yield_tons"`
	ExpectedYieldTons *float64     `json:"expected_yield_tons"`
}

func RotationEntry(m *model.CropRotationEntry) RotationEntryResponse {
	return RotationEntryResponse{
		ID:                m.ID,
		RotationID:        m.RotationID,
		Crop:              Crop(&m.Crop),
		SeedingDate:       m.SeedingDate,
		HarvestDate:       m.HarvestDate,
		ActualYieldTons:   m.ActualYieldTons,
		ExpectedYieldTons: m.ExpectedYieldTons,
	}
}

func RotationEntries(ms []*model.CropRotationEntry) []RotationEntryResponse {
	out := make([]RotationEntryResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, RotationEntry(m))
	}
	return out
}
