package hydrograph

import (
	"reflect"
	"testing"
)

func TestBuild_DropsSentinelAndSelfLoops(t *testing.T) {
	records := []FlowRecord{
		{From: 0, To: 5},
		{From: 3, To: 3},
		{From: 3, To: 4},
	}

	index, stats := Build(records, nil, "06", nil, nil)

	if len(index) != 1 {
		t.Fatalf("Expected 1 key, got %d: %v", len(index), index)
	}
	if !reflect.DeepEqual(index[4], []UnitID{3}) {
		t.Errorf("Expected 4 -> [3], got %v", index[4])
	}
	if stats.DroppedSentinel != 1 {
		t.Errorf("Expected 1 sentinel drop, got %d", stats.DroppedSentinel)
	}
	if stats.DroppedSelfLoop != 1 {
		t.Errorf("Expected 1 self-loop drop, got %d", stats.DroppedSelfLoop)
	}
	if stats.Kept != 1 {
		t.Errorf("Expected 1 kept, got %d", stats.Kept)
	}
}

func TestBuild_ZeroToUnitDropped(t *testing.T) {
	records := []FlowRecord{{From: 7, To: 0}}

	index, stats := Build(records, nil, "06", nil, nil)

	if len(index) != 0 {
		t.Errorf("Expected empty index, got %v", index)
	}
	if stats.DroppedSentinel != 1 {
		t.Errorf("Expected 1 sentinel drop, got %d", stats.DroppedSentinel)
	}
}

func TestBuild_DropsTerminalSources(t *testing.T) {
	records := []FlowRecord{
		{From: 11, To: 12}, // 11 is coastline
		{From: 13, To: 12},
	}
	terminals := NewUnitSet(11)

	index, stats := Build(records, nil, "06", terminals, nil)

	if !reflect.DeepEqual(index[12], []UnitID{13}) {
		t.Errorf("Expected 12 -> [13], got %v", index[12])
	}
	if stats.DroppedTerminal != 1 {
		t.Errorf("Expected 1 terminal drop, got %d", stats.DroppedTerminal)
	}
}

func TestBuild_DropsRemovedSources(t *testing.T) {
	records := []FlowRecord{
		{From: 21, To: 22},
		{From: 23, To: 22},
	}
	corrections := CorrectionTable{
		{Zone: "14", Source: 21, Remove: true}, // removals apply across zones
	}

	index, stats := Build(records, corrections, "06", nil, nil)

	if !reflect.DeepEqual(index[22], []UnitID{23}) {
		t.Errorf("Expected 22 -> [23], got %v", index[22])
	}
	if stats.DroppedRemoved != 1 {
		t.Errorf("Expected 1 removed drop, got %d", stats.DroppedRemoved)
	}
}

func TestBuild_CrossZoneNoiseFiltered(t *testing.T) {
	// 99 is not one of the zone's own units and is not an approved
	// pass-through, so its edge is stray cross-partition noise.
	records := []FlowRecord{
		{From: 99, To: 5},
		{From: 6, To: 5},
	}
	zoneUnits := NewUnitSet(5, 6)

	index, stats := Build(records, nil, "06", nil, zoneUnits)

	if !reflect.DeepEqual(index[5], []UnitID{6}) {
		t.Errorf("Expected 5 -> [6], got %v", index[5])
	}
	if stats.DroppedCrossZone != 1 {
		t.Errorf("Expected 1 cross-zone drop, got %d", stats.DroppedCrossZone)
	}
}

func TestBuild_PassThroughSurvivesCrossZoneFilter(t *testing.T) {
	records := []FlowRecord{{From: 99, To: 5}}
	zoneUnits := NewUnitSet(5)
	corrections := CorrectionTable{
		{Zone: "14", Source: 99, PassThrough: true},
	}

	index, stats := Build(records, corrections, "06", nil, zoneUnits)

	if !reflect.DeepEqual(index[5], []UnitID{99}) {
		t.Errorf("Expected 5 -> [99], got %v", index[5])
	}
	if stats.DroppedCrossZone != 0 {
		t.Errorf("Expected no cross-zone drops, got %d", stats.DroppedCrossZone)
	}
}

func TestBuild_NilZoneUnitsDisablesCrossZoneFilter(t *testing.T) {
	records := []FlowRecord{{From: 99, To: 5}}

	index, _ := Build(records, nil, "06", nil, nil)

	if !reflect.DeepEqual(index[5], []UnitID{99}) {
		t.Errorf("Expected 5 -> [99], got %v", index[5])
	}
}

func TestBuild_CorrectionInjection(t *testing.T) {
	corrections := CorrectionTable{
		{Zone: "2", Source: 10, Dest: 20},
		{Zone: "3", Source: 30, Dest: 40}, // other zone, not applied
		{Zone: "2", Source: 50, Dest: 0},  // no override target, skipped
	}

	index, stats := Build(nil, corrections, "2", nil, nil)

	if !reflect.DeepEqual(index[20], []UnitID{10}) {
		t.Errorf("Expected 20 -> [10], got %v", index[20])
	}
	if len(index) != 1 {
		t.Errorf("Expected only the injected edge, got %v", index)
	}
	if stats.Injected != 1 {
		t.Errorf("Expected 1 injection, got %d", stats.Injected)
	}
}

func TestBuild_EmptyInputYieldsEmptyIndex(t *testing.T) {
	index, stats := Build(nil, nil, "06", nil, nil)

	if len(index) != 0 {
		t.Errorf("Expected empty index, got %v", index)
	}
	if stats.Kept != 0 || stats.Dropped() != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestBuild_DuplicateEdgesAreHarmless(t *testing.T) {
	records := []FlowRecord{
		{From: 3, To: 4},
		{From: 3, To: 4},
	}

	index, stats := Build(records, nil, "06", nil, nil)

	// Multiplicity is irrelevant to the traversal; both copies are kept.
	if !reflect.DeepEqual(index[4], []UnitID{3, 3}) {
		t.Errorf("Expected 4 -> [3, 3], got %v", index[4])
	}
	if stats.Kept != 2 {
		t.Errorf("Expected 2 kept, got %d", stats.Kept)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	records := []FlowRecord{
		{From: 1, To: 2},
		{From: 3, To: 2},
		{From: 2, To: 4},
		{From: 0, To: 4},
	}
	corrections := CorrectionTable{
		{Zone: "06", Source: 77, Dest: 4},
	}
	zoneUnits := NewUnitSet(1, 2, 3, 4)

	first, firstStats := Build(records, corrections, "06", nil, zoneUnits)
	second, secondStats := Build(records, corrections, "06", nil, zoneUnits)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical indexes, got %v vs %v", first, second)
	}
	if firstStats != secondStats {
		t.Errorf("Expected identical stats, got %+v vs %+v", firstStats, secondStats)
	}
}

func TestCorrectionTable_Subsets(t *testing.T) {
	ct := CorrectionTable{
		{Zone: "06", Source: 1, Dest: 2},
		{Zone: "06", Source: 3, Remove: true},
		{Zone: "14", Source: 5, PassThrough: true},
		{Zone: "14", Source: 0, Remove: true}, // sentinel source, ignored
	}

	if got := ct.ForZone("06"); len(got) != 1 || got[0].Source != 1 {
		t.Errorf("ForZone(06): got %v", got)
	}
	if !ct.Removals().Has(3) || ct.Removals().Has(0) {
		t.Errorf("Removals: got %v", ct.Removals())
	}
	if !ct.PassThroughs().Has(5) {
		t.Errorf("PassThroughs: got %v", ct.PassThroughs())
	}
}

func TestUpstreamIndex_EdgeCount(t *testing.T) {
	ix := UpstreamIndex{
		2: {1},
		4: {3, 7},
	}
	if ix.EdgeCount() != 3 {
		t.Errorf("Expected 3 edges, got %d", ix.EdgeCount())
	}
	if ix.Upstream(9) != nil {
		t.Errorf("Expected nil for missing key, got %v", ix.Upstream(9))
	}
}
