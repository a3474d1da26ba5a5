package delineate

import (
	"context"

	"github.com/cmorran/watershed/pkg/hydrograph"
	"github.com/cmorran/watershed/pkg/nhd"
)

// Source supplies the tabular inputs of a build, scoped to one zone. The
// file-backed implementation reads NHDPlus-style CSV exports; a
// Postgres-backed one lives in pkg/store.
type Source interface {
	// Records returns the raw routing table for a zone, plus the count of
	// rows skipped as unparseable.
	Records(ctx context.Context, zone string) ([]hydrograph.FlowRecord, int, error)
	// Corrections returns the full cross-zone correction table.
	Corrections(ctx context.Context) (hydrograph.CorrectionTable, error)
	// ZoneAttributes returns the zone's unit membership and terminal units.
	ZoneAttributes(ctx context.Context, zone string) (nhd.ZoneAttributes, error)
}

// FileSource reads build inputs from an NHDPlus-style directory tree.
type FileSource struct {
	Layout        nhd.Layout
	TerminalClass string
}

// Records reads the zone's routing table.
func (fs FileSource) Records(ctx context.Context, zone string) ([]hydrograph.FlowRecord, int, error) {
	return nhd.LoadPlusFlow(fs.Layout, zone)
}

// Corrections reads the cross-zone correction table.
func (fs FileSource) Corrections(ctx context.Context) (hydrograph.CorrectionTable, error) {
	return nhd.LoadInterVPU(fs.Layout)
}

// ZoneAttributes reads the zone's flowline attributes.
func (fs FileSource) ZoneAttributes(ctx context.Context, zone string) (nhd.ZoneAttributes, error) {
	return nhd.LoadFlowlines(fs.Layout, zone, fs.TerminalClass)
}
