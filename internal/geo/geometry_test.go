package geo_test

import (
	"encoding/json"
	"testing"

	"github.com/agrostack/fieldops/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	t.Run("plain WKT", func(t *testing.T) {
		p, err := geo.ParsePoint("POINT (47.42 39.83)")
		require.NoError(t, err)
		assert.Equal(t, 47.42, p.Lon)
		assert.Equal(t, 39.83, p.Lat)
	})

	t.Run("EWKT with SRID prefix", func(t *testing.T) {
		p, err := geo.ParsePoint("SRID=4326;POINT (-10.5 2)")
		require.NoError(t, err)
		assert.Equal(t, -10.5, p.Lon)
		assert.Equal(t, 2.0, p.Lat)
	})

	t.Run("rejects wrong SRID", func(t *testing.T) {
		_, err := geo.ParsePoint("SRID=3857;POINT (1 2)")
		var parseErr *geo.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Text, "SRID=3857")
	})

	t.Run("malformed input names offending text", func(t *testing.T) {
		_, err := geo.ParsePoint("POINT (abc 39.83)")
		var parseErr *geo.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "POINT (abc 39.83)", parseErr.Text)
	})

	t.Run("round trip preserves lon lat order", func(t *testing.T) {
		p, err := geo.ParsePoint("SRID=4326;POINT (47.421967 39.832237)")
		require.NoError(t, err)
		assert.Equal(t, "SRID=4326;POINT (47.421967 39.832237)", p.WKT())
	})
}

func TestParsePolygon(t *testing.T) {
	square := "POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))"

	t.Run("unit square", func(t *testing.T) {
		poly, err := geo.ParsePolygon(square)
		require.NoError(t, err)
		require.Len(t, *poly, 1)
		assert.Len(t, (*poly)[0], 5)
	})

	t.Run("unclosed ring rejected", func(t *testing.T) {
		_, err := geo.ParsePolygon("POLYGON ((0 0, 0 1, 1 1, 1 0))")
		var parseErr *geo.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "ring is not closed", parseErr.Reason)
	})

	t.Run("too few points rejected", func(t *testing.T) {
		_, err := geo.ParsePolygon("POLYGON ((0 0, 1 1, 0 0))")
		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		poly, err := geo.ParsePolygon("SRID=4326;POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))")
		require.NoError(t, err)
		assert.Equal(t, "SRID=4326;POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))", poly.WKT())
	})
}

func TestPolygonArea(t *testing.T) {
	t.Run("unit square", func(t *testing.T) {
		poly, err := geo.ParsePolygon("POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, poly.Area(), 1e-12)
	})

	t.Run("winding order does not matter", func(t *testing.T) {
		cw, err := geo.ParsePolygon("POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, cw.Area(), 1e-12)
	})

	t.Run("hole is subtracted", func(t *testing.T) {
		poly, err := geo.ParsePolygon("POLYGON ((0 0, 0 4, 4 4, 4 0, 0 0), (1 1, 1 2, 2 2, 2 1, 1 1))")
		require.NoError(t, err)
		assert.InDelta(t, 15.0, poly.Area(), 1e-12)
	})

	t.Run("empty polygon", func(t *testing.T) {
		var poly geo.Polygon
		assert.Zero(t, poly.Area())
	})
}

func TestJSONEncoding(t *testing.T) {
	t.Run("point marshals to WKT string", func(t *testing.T) {
		data, err := json.Marshal(geo.Point{Lon: 47.4, Lat: 39.8})
		require.NoError(t, err)
		assert.JSONEq(t, `"SRID=4326;POINT (47.4 39.8)"`, string(data))
	})

	t.Run("polygon unmarshals from WKT string", func(t *testing.T) {
		var poly geo.Polygon
		err := json.Unmarshal([]byte(`"POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))"`), &poly)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, poly.Area(), 1e-12)
	})

	t.Run("non-string input rejected", func(t *testing.T) {
		var p geo.Point
		err := json.Unmarshal([]byte(`{"lon":1}`), &p)
		var parseErr *geo.ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestSQLRoundTrip(t *testing.T) {
	var p geo.Point
	require.NoError(t, p.Scan("SRID=4326;POINT (10 20)"))
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, "SRID=4326;POINT (10 20)", v)

	var poly geo.Polygon
	require.NoError(t, poly.Scan([]byte("POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))")))
	v, err = poly.Value()
	require.NoError(t, err)
	assert.Equal(t, "SRID=4326;POLYGON ((0 0, 0 1, 1 1, 1 0, 0 0))", v)
}
