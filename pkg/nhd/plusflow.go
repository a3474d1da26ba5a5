package nhd

import (
	"fmt"
	"io"
	"os"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// ReadPlusFlow parses a PlusFlow routing table into flow records. Rows whose
// FROMCOMID or TOCOMID cannot be parsed are skipped and counted; the builder
// downstream applies the semantic cleaning (sentinels, self-loops, terminals),
// so nothing is filtered here beyond parseability.
func ReadPlusFlow(r io.Reader) ([]hydrograph.FlowRecord, int, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, 0, err
	}
	cols, err := t.require("FROMCOMID", "TOCOMID")
	if err != nil {
		return nil, 0, err
	}

	var records []hydrograph.FlowRecord
	skipped := 0
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		from, okFrom := parseUnit(cell(row, cols[0]))
		to, okTo := parseUnit(cell(row, cols[1]))
		if !okFrom || !okTo {
			skipped++
			continue
		}
		records = append(records, hydrograph.FlowRecord{From: from, To: to})
	}
	return records, skipped, nil
}

// LoadPlusFlow reads the routing table for one zone from a Layout.
func LoadPlusFlow(layout Layout, zone string) ([]hydrograph.FlowRecord, int, error) {
	f, err := os.Open(layout.PlusFlowPath(zone))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open routing table for zone %s: %w", zone, err)
	}
	defer f.Close()
	return ReadPlusFlow(f)
}
