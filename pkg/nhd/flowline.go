package nhd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// DefaultTerminalClass is the flowline type classification that marks a
// network outlet with no valid upstream contribution.
const DefaultTerminalClass = "Coastline"

// ZoneAttributes holds what the flowline attribute table contributes to a
// build: the zone's full unit membership (used to detect stray cross-zone
// sources) and the terminal subset.
type ZoneAttributes struct {
	Units     hydrograph.UnitSet
	Terminals hydrograph.UnitSet
}

// ReadFlowlines extracts zone membership and terminal units from a flowline
// attribute table. terminalClass is matched case-insensitively against the
// FTYPE column; empty means DefaultTerminalClass.
func ReadFlowlines(r io.Reader, terminalClass string) (ZoneAttributes, error) {
	if terminalClass == "" {
		terminalClass = DefaultTerminalClass
	}

	attrs := ZoneAttributes{
		Units:     make(hydrograph.UnitSet),
		Terminals: make(hydrograph.UnitSet),
	}

	t, err := newTable(r)
	if err != nil {
		return attrs, err
	}
	cols, err := t.require("COMID", "FTYPE")
	if err != nil {
		return attrs, err
	}

	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		id, ok := parseUnit(cell(row, cols[0]))
		if !ok || id == hydrograph.NoUnit {
			continue
		}
		attrs.Units.Add(id)
		if strings.EqualFold(cell(row, cols[1]), terminalClass) {
			attrs.Terminals.Add(id)
		}
	}
	return attrs, nil
}

// LoadFlowlines reads the flowline attributes for one zone from a Layout.
func LoadFlowlines(layout Layout, zone, terminalClass string) (ZoneAttributes, error) {
	f, err := os.Open(layout.FlowlinePath(zone))
	if err != nil {
		return ZoneAttributes{}, fmt.Errorf("failed to open flowline table for zone %s: %w", zone, err)
	}
	defer f.Close()
	return ReadFlowlines(f, terminalClass)
}
