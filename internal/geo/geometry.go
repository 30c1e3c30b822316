// internal/geo/geometry.go
//
// Well-known-text geometry value types. Coordinates are stored and
// serialized in (longitude, latitude) order with a fixed SRID of 4326;
// no reprojection is performed anywhere in the system.
package geo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SRID is the one spatial reference system used throughout.
const SRID = 4326

// ParseError reports malformed well-known text, naming the offending input.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing geometry %q: %s", e.Text, e.Reason)
}

// Point is a single lon/lat coordinate pair.
type Point struct {
	Lon float64
	Lat float64
}

// Ring is a closed sequence of points. The first and last point are expected
// to be equal, as produced by WKT polygon notation.
type Ring []Point

// Polygon is an exterior ring followed by zero or more interior (hole) rings.
type Polygon []Ring

// ParsePoint parses "POINT (lon lat)" with an optional "SRID=4326;" prefix.
func ParsePoint(text string) (*Point, error) {
	body, err := stripHeader(text, "POINT")
	if err != nil {
		return nil, err
	}
	coords, err := parseCoordList(text, body)
	if err != nil {
		return nil, err
	}
	if len(coords) != 1 {
		return nil, &ParseError{Text: text, Reason: "point must have exactly one coordinate pair"}
	}
	p := coords[0]
	return &p, nil
}

// ParsePolygon parses "POLYGON ((lon lat, ...), ...)" with an optional
// "SRID=4326;" prefix. The first ring is the exterior boundary, any further
// rings are holes.
func ParsePolygon(text string) (*Polygon, error) {
	body, err := stripHeader(text, "POLYGON")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return nil, &ParseError{Text: text, Reason: "polygon body must be parenthesized"}
	}
	var poly Polygon
	for _, part := range splitTopLevel(body[1 : len(body)-1]) {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, "(") || !strings.HasSuffix(part, ")") {
			return nil, &ParseError{Text: text, Reason: "ring must be parenthesized"}
		}
		coords, err := parseCoordList(text, part)
		if err != nil {
			return nil, err
		}
		if len(coords) < 4 {
			return nil, &ParseError{Text: text, Reason: "ring must have at least four points"}
		}
		if coords[0] != coords[len(coords)-1] {
			return nil, &ParseError{Text: text, Reason: "ring is not closed"}
		}
		poly = append(poly, coords)
	}
	if len(poly) == 0 {
		return nil, &ParseError{Text: text, Reason: "polygon has no rings"}
	}
	return &poly, nil
}

// WKT renders the point as EWKT with the fixed SRID prefix.
func (p Point) WKT() string {
	return fmt.Sprintf("SRID=%d;POINT (%s %s)", SRID, formatCoord(p.Lon), formatCoord(p.Lat))
}

// WKT renders the polygon as EWKT with the fixed SRID prefix.
func (p Polygon) WKT() string {
	rings := make([]string, len(p))
	for i, ring := range p {
		pts := make([]string, len(ring))
		for j, pt := range ring {
			pts[j] = formatCoord(pt.Lon) + " " + formatCoord(pt.Lat)
		}
		rings[i] = "(" + strings.Join(pts, ", ") + ")"
	}
	return fmt.Sprintf("SRID=%d;POLYGON (%s)", SRID, strings.Join(rings, ", "))
}

// Area returns the planar area of the polygon in squared coordinate units
// (degree² for lon/lat data). Holes are subtracted. Callers own any
// conversion to physical units.
func (p Polygon) Area() float64 {
	if len(p) == 0 {
		return 0
	}
	area := ringArea(p[0])
	for _, hole := range p[1:] {
		area -= ringArea(hole)
	}
	if area < 0 {
		area = -area
	}
	return area
}

// ringArea computes the absolute shoelace area of one ring, so winding
// order does not matter.
func ringArea(r Ring) float64 {
	var sum float64
	for i := 0; i < len(r)-1; i++ {
		sum += r[i].Lon*r[i+1].Lat - r[i+1].Lon*r[i].Lat
	}
	return math.Abs(sum) / 2
}

// Scan implements the sql.Scanner interface (EWKT text column).
func (p *Point) Scan(value interface{}) error {
	text, err := scanText(value, p)
	if err != nil {
		return err
	}
	parsed, err := ParsePoint(text)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Value implements the driver.Valuer interface.
func (p Point) Value() (driver.Value, error) {
	return p.WKT(), nil
}

// Scan implements the sql.Scanner interface (EWKT text column).
func (p *Polygon) Scan(value interface{}) error {
	text, err := scanText(value, p)
	if err != nil {
		return err
	}
	parsed, err := ParsePolygon(text)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Value implements the driver.Valuer interface.
func (p Polygon) Value() (driver.Value, error) {
	return p.WKT(), nil
}

// MarshalJSON renders the point as its EWKT string.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.WKT())
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return &ParseError{Text: string(data), Reason: "geometry must be a WKT string"}
	}
	parsed, err := ParsePoint(text)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// MarshalJSON renders the polygon as its EWKT string.
func (p Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.WKT())
}

func (p *Polygon) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return &ParseError{Text: string(data), Reason: "geometry must be a WKT string"}
	}
	parsed, err := ParsePolygon(text)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

func scanText(value interface{}, dst interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, dst)
	}
}

// stripHeader removes an optional SRID prefix and the geometry keyword,
// returning the parenthesized body.
func stripHeader(text, keyword string) (string, error) {
	s := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(s, "SRID="); ok {
		idx := strings.IndexByte(rest, ';')
		if idx < 0 {
			return "", &ParseError{Text: text, Reason: "SRID prefix missing ';'"}
		}
		srid, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return "", &ParseError{Text: text, Reason: "invalid SRID"}
		}
		if srid != SRID {
			return "", &ParseError{Text: text, Reason: fmt.Sprintf("unsupported SRID %d", srid)}
		}
		s = strings.TrimSpace(rest[idx+1:])
	}
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, keyword) {
		return "", &ParseError{Text: text, Reason: "expected " + keyword}
	}
	body := strings.TrimSpace(s[len(keyword):])
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return "", &ParseError{Text: text, Reason: "missing coordinate body"}
	}
	return body, nil
}

// parseCoordList parses "(lon lat, lon lat, ...)" into points.
func parseCoordList(original, body string) ([]Point, error) {
	inner := strings.TrimSpace(body[1 : len(body)-1])
	if inner == "" {
		return nil, &ParseError{Text: original, Reason: "empty coordinate list"}
	}
	var pts []Point
	for _, pair := range strings.Split(inner, ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, &ParseError{Text: original, Reason: fmt.Sprintf("coordinate %q must be two numbers", strings.TrimSpace(pair))}
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &ParseError{Text: original, Reason: fmt.Sprintf("invalid longitude %q", fields[0])}
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &ParseError{Text: original, Reason: fmt.Sprintf("invalid latitude %q", fields[1])}
		}
		pts = append(pts, Point{Lon: lon, Lat: lat})
	}
	return pts, nil
}

// splitTopLevel splits on commas that sit outside any parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
