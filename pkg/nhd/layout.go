// Package nhd reads the NHDPlus-style tabular datasets that feed a
// delineation: per-zone routing tables, the cross-zone correction table, and
// the flowline attributes that identify coastline outlets. Tables are CSV
// exports of the distribution's attribute files; geometry stays in companion
// GeoJSON layers handled elsewhere.
package nhd

import (
	"fmt"
	"path/filepath"
)

// Layout resolves dataset paths inside an NHDPlus-style directory tree. Zone
// datasets live under nested NHDPlus<zone> directories, mirroring the
// distribution layout.
type Layout struct {
	Root string
}

// zoneDir returns the doubled NHDPlus<zone>/NHDPlus<zone> prefix used by the
// distribution.
func (l Layout) zoneDir(zone string) string {
	z := "NHDPlus" + zone
	return filepath.Join(l.Root, z, z)
}

// PlusFlowPath returns the routing table for a zone.
func (l Layout) PlusFlowPath(zone string) string {
	return filepath.Join(l.zoneDir(zone), "NHDPlusAttributes", "PlusFlow.csv")
}

// FlowlinePath returns the flowline attribute table for a zone.
func (l Layout) FlowlinePath(zone string) string {
	return filepath.Join(l.zoneDir(zone), "NHDSnapshot", "Hydrography", "NHDFlowline.csv")
}

// CatchmentPath returns the catchment polygon layer for a zone.
func (l Layout) CatchmentPath(zone string) string {
	return filepath.Join(l.zoneDir(zone), "NHDPlusCatchment", "Catchment.geojson")
}

// InterVPUPath returns the cross-zone correction table, which covers all
// zones and lives at the dataset root.
func (l Layout) InterVPUPath() string {
	return filepath.Join(l.Root, "interVPU.csv")
}

// ZoneBoundaryPath returns the zone boundary polygon layer.
func (l Layout) ZoneBoundaryPath() string {
	return filepath.Join(l.Root, "VPU_zones.geojson")
}

func (l Layout) String() string {
	return fmt.Sprintf("nhd.Layout(%s)", l.Root)
}
