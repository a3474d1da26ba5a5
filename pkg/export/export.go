// Package export writes the delineation output: the subset of a unit-keyed
// geometry layer whose units are in the visited set, plus an optional
// compressed membership archive.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// ErrEmptyResult signals that no feature matched the visited set. It is
// returned instead of writing an empty layer, so callers can tell "nothing
// upstream matched" apart from a pipeline failure.
var ErrEmptyResult = errors.New("no features matched the upstream set")

// FilterFeatureCollection copies the features of a GeoJSON layer whose key
// property is in keep, preserving every other top-level member (crs, bbox,
// naming) untouched. Features are passed through byte-for-byte; only the key
// property is decoded. Returns the number of features written.
func FilterFeatureCollection(r io.Reader, w io.Writer, keyProp string, keep hydrograph.UnitSet) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read layer: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse layer: %w", err)
	}

	var features []json.RawMessage
	if raw, ok := doc["features"]; ok {
		if err := json.Unmarshal(raw, &features); err != nil {
			return 0, fmt.Errorf("failed to parse features: %w", err)
		}
	}

	matched := make([]json.RawMessage, 0, len(features))
	for _, raw := range features {
		unit, ok := featureUnit(raw, keyProp)
		if ok && keep.Has(unit) {
			matched = append(matched, raw)
		}
	}

	if len(matched) == 0 {
		return 0, ErrEmptyResult
	}

	filtered, err := json.Marshal(matched)
	if err != nil {
		return 0, err
	}
	doc["features"] = filtered

	out, err := json.Marshal(doc)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(out); err != nil {
		return 0, fmt.Errorf("failed to write layer: %w", err)
	}
	return len(matched), nil
}

// featureUnit extracts the unit identifier from a feature's key property.
func featureUnit(raw json.RawMessage, keyProp string) (hydrograph.UnitID, bool) {
	var f struct {
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return hydrograph.NoUnit, false
	}
	switch v := f.Properties[keyProp].(type) {
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

// FilterFile is FilterFeatureCollection over file paths. On ErrEmptyResult no
// output file is created.
func FilterFile(inPath, outPath, keyProp string, keep hydrograph.UnitSet) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open layer %s: %w", inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output %s: %w", outPath, err)
	}

	n, err := FilterFeatureCollection(in, out, keyProp, keep)
	closeErr := out.Close()
	if err != nil {
		os.Remove(outPath)
		return 0, err
	}
	if closeErr != nil {
		return 0, closeErr
	}
	return n, nil
}
