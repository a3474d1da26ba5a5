package spatial

import (
	"fmt"
	"strconv"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// Locator resolves a coordinate to its zone and to the drainage unit whose
// polygon encloses it. Implementations report ErrNoZone / ErrNoUnit when the
// point falls outside every candidate polygon.
type Locator interface {
	LocateZone(pt Point) (string, error)
	LocateUnit(pt Point, zone string) (hydrograph.UnitID, error)
}

// FeatureIndex is an in-memory polygon layer with a key property, answering
// point-in-polygon queries by linear scan. Layers here are consulted once or
// twice per delineation, so no spatial index is kept.
type FeatureIndex struct {
	keyProp  string
	features []indexedFeature
}

type indexedFeature struct {
	key      any
	polygons []polygon
}

// LoadFeatureIndex reads a GeoJSON layer and indexes it by the given property
// name. Features lacking the property or areal geometry are skipped.
func LoadFeatureIndex(path, keyProp string) (*FeatureIndex, error) {
	fc, err := loadFeatureCollection(path)
	if err != nil {
		return nil, err
	}

	fi := &FeatureIndex{keyProp: keyProp}
	for _, f := range fc.Features {
		key, ok := f.Properties[keyProp]
		if !ok {
			continue
		}
		polys, err := f.Geometry.polygons()
		if err != nil {
			return nil, err
		}
		if len(polys) == 0 {
			continue
		}
		fi.features = append(fi.features, indexedFeature{key: key, polygons: polys})
	}
	return fi, nil
}

// Len returns the number of indexed features.
func (fi *FeatureIndex) Len() int { return len(fi.features) }

// Locate returns the key property of the first feature containing the point.
func (fi *FeatureIndex) Locate(pt Point) (any, bool) {
	for _, f := range fi.features {
		for _, p := range f.polygons {
			if p.contains(pt) {
				return f.key, true
			}
		}
	}
	return nil, false
}

// keyString renders a key property for use as a zone identifier. Zone codes
// like "06" must keep their leading zero, so numeric JSON values are only a
// fallback.
func keyString(key any) string {
	switch v := key.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// keyUnit renders a key property as a drainage unit identifier.
func keyUnit(key any) (hydrograph.UnitID, bool) {
	switch v := key.(type) {
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return hydrograph.NoUnit, false
		}
		return hydrograph.UnitID(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return hydrograph.NoUnit, false
		}
		return hydrograph.UnitID(n), true
	default:
		return hydrograph.NoUnit, false
	}
}

// GeoLocator implements Locator over a zone-boundary layer plus per-zone
// catchment layers resolved lazily through a path callback.
type GeoLocator struct {
	zones         *FeatureIndex
	zoneProp      string
	unitProp      string
	catchmentPath func(zone string) string

	// catchment layers are large; cache per zone once loaded
	catchments map[string]*FeatureIndex
}

// NewGeoLocator builds a locator from the zone-boundary layer. zoneProp and
// unitProp name the key properties of the two layers (e.g. "VPU" and
// "FEATUREID"); catchmentPath maps a zone to its catchment layer path.
func NewGeoLocator(zoneLayerPath, zoneProp, unitProp string, catchmentPath func(zone string) string) (*GeoLocator, error) {
	zones, err := LoadFeatureIndex(zoneLayerPath, zoneProp)
	if err != nil {
		return nil, err
	}
	return &GeoLocator{
		zones:         zones,
		zoneProp:      zoneProp,
		unitProp:      unitProp,
		catchmentPath: catchmentPath,
		catchments:    make(map[string]*FeatureIndex),
	}, nil
}

// LocateZone finds the zone whose boundary polygon contains the point.
func (gl *GeoLocator) LocateZone(pt Point) (string, error) {
	key, ok := gl.zones.Locate(pt)
	if !ok {
		return "", fmt.Errorf("%w: (%f, %f)", ErrNoZone, pt.Lon, pt.Lat)
	}
	return keyString(key), nil
}

// LocateUnit finds the drainage unit whose catchment polygon contains the
// point, within the given zone's catchment layer.
func (gl *GeoLocator) LocateUnit(pt Point, zone string) (hydrograph.UnitID, error) {
	idx, ok := gl.catchments[zone]
	if !ok {
		var err error
		idx, err = LoadFeatureIndex(gl.catchmentPath(zone), gl.unitProp)
		if err != nil {
			return hydrograph.NoUnit, err
		}
		gl.catchments[zone] = idx
	}

	key, ok := idx.Locate(pt)
	if !ok {
		return hydrograph.NoUnit, fmt.Errorf("%w: (%f, %f) in zone %s", ErrNoUnit, pt.Lon, pt.Lat, zone)
	}
	unit, ok := keyUnit(key)
	if !ok || unit == hydrograph.NoUnit {
		return hydrograph.NoUnit, fmt.Errorf("%w: feature key %v is not a valid unit id", ErrNoUnit, key)
	}
	return unit, nil
}
