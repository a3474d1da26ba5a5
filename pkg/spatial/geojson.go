// Package spatial answers "which polygon contains this point" over GeoJSON
// layers: the zone-boundary layer first, then the chosen zone's catchment
// layer. All inputs are assumed to share one CRS; reprojection is out of
// scope.
package spatial

import (
	"encoding/json"
	"fmt"
	"os"
)

// Point is a lon/lat coordinate in the dataset's CRS.
type Point struct {
	Lon float64
	Lat float64
}

// featureCollection mirrors just enough GeoJSON to find containing polygons.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// polygon is a list of rings: exterior first, holes after.
type polygon [][][2]float64

// polygons decodes the geometry into polygon form. Non-areal geometry types
// yield nil: they can never contain a point.
func (g geometry) polygons() ([]polygon, error) {
	switch g.Type {
	case "Polygon":
		var p polygon
		if err := json.Unmarshal(g.Coordinates, &p); err != nil {
			return nil, fmt.Errorf("bad Polygon coordinates: %w", err)
		}
		return []polygon{p}, nil
	case "MultiPolygon":
		var ps []polygon
		if err := json.Unmarshal(g.Coordinates, &ps); err != nil {
			return nil, fmt.Errorf("bad MultiPolygon coordinates: %w", err)
		}
		return ps, nil
	default:
		return nil, nil
	}
}

// contains applies even-odd ray casting per ring: inside the exterior an odd
// number of times overall means inside the polygon, holes included.
func (p polygon) contains(pt Point) bool {
	inside := false
	for _, ring := range p {
		if ringContains(ring, pt) {
			inside = !inside
		}
	}
	return inside
}

func ringContains(ring [][2]float64, pt Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > pt.Lat) != (yj > pt.Lat) &&
			pt.Lon < (xj-xi)*(pt.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

func loadFeatureCollection(path string) (*featureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer %s: %w", path, err)
	}
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse layer %s: %w", path, err)
	}
	return &fc, nil
}
