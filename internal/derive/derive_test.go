package derive_test

import (
	"testing"

	"github.com/agrostack/fieldops/internal/derive"
	"github.com/agrostack/fieldops/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotArea(t *testing.T) {
	tests := []struct {
		name    string
		radiusM float64
		want    float64
	}{
		{"50m pivot", 50, 0.79},
		{"100m pivot", 100, 3.14},
		{"400m pivot", 400, 50.27},
		{"zero radius", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, derive.PivotArea(tt.radiusM))
		})
	}
}

func TestSectorArea(t *testing.T) {
	t.Run("nil shape leaves value undetermined", func(t *testing.T) {
		assert.Nil(t, derive.SectorArea(nil))
	})

	t.Run("square shape scaled by hectare constant", func(t *testing.T) {
		shape, err := geo.ParsePolygon("POLYGON ((0 0, 0 0.05, 0.05 0.05, 0.05 0, 0 0))")
		require.NoError(t, err)
		got := derive.SectorArea(shape)
		require.NotNil(t, got)
		assert.InDelta(t, 0.0025*derive.HectaresPerDeg2, *got, 1e-9)
	})
}
