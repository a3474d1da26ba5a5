package nhd

import (
	"fmt"
	"io"
	"os"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// ReadInterVPU parses the cross-zone correction table. One CSV row can carry
// up to three independent facts, each emitted as its own correction entry:
//
//   - FROMCOMID + TOZONE + UPCOMADD: force-connect FROMCOMID into UPCOMADD's
//     upstream list when processing TOZONE (UPCOMADD of zero means the row
//     needs no injection);
//   - REMOVECOMS: a routing source known to be spurious in every zone;
//   - THRUCOMIDS: a routing source approved to cross the zone boundary.
//
// Unparseable cells void only the fact they belong to; the rest of the row
// still applies.
func ReadInterVPU(r io.Reader) (hydrograph.CorrectionTable, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	cols, err := t.require("FROMCOMID", "TOZONE", "UPCOMADD", "REMOVECOMS", "THRUCOMIDS")
	if err != nil {
		return nil, err
	}

	var table hydrograph.CorrectionTable
	for {
		row, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		zone := cell(row, cols[1])
		source, okSource := parseUnit(cell(row, cols[0]))
		dest, okDest := parseUnit(cell(row, cols[2]))
		if okSource && okDest && source != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{
				Zone:   zone,
				Source: source,
				Dest:   dest,
			})
		}

		if remove, ok := parseUnit(cell(row, cols[3])); ok && remove != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{Source: remove, Remove: true})
		}
		if thru, ok := parseUnit(cell(row, cols[4])); ok && thru != hydrograph.NoUnit {
			table = append(table, hydrograph.Correction{Source: thru, PassThrough: true})
		}
	}
	return table, nil
}

// LoadInterVPU reads the correction table from a Layout.
func LoadInterVPU(layout Layout) (hydrograph.CorrectionTable, error) {
	f, err := os.Open(layout.InterVPUPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open correction table: %w", err)
	}
	defer f.Close()
	return ReadInterVPU(f)
}
