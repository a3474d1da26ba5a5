package nhd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// table wraps a CSV reader with header-driven, case-insensitive column
// lookup. The attribute exports in the wild disagree on column casing and
// trailing columns, so rows are read loosely: variable field counts are
// allowed and cell-level problems are left to the caller to count and skip.
type table struct {
	r       *csv.Reader
	columns map[string]int
}

func newTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return &table{r: cr, columns: columns}, nil
}

// require resolves column names to indexes, failing if any is absent.
func (t *table) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		col, ok := t.columns[strings.ToUpper(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		idx[i] = col
	}
	return idx, nil
}

// next reads one data row, or io.EOF.
func (t *table) next() ([]string, error) {
	return t.r.Read()
}

// cell returns the trimmed value at a column index, or "" when the row is
// short.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseUnit parses a drainage unit identifier. Attribute exports carry these
// as plain integers, occasionally as float-formatted values ("12345.0").
// Returns NoUnit plus false for anything unparseable.
func parseUnit(s string) (hydrograph.UnitID, bool) {
	if s == "" {
		return hydrograph.NoUnit, false
	}
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return hydrograph.UnitID(v), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == float64(uint64(f)) {
		return hydrograph.UnitID(f), true
	}
	return hydrograph.NoUnit, false
}
