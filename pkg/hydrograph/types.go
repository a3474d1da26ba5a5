package hydrograph

// UnitID identifies one discrete drainage unit (a catchment polygon, or an
// NHDPlus COMID). Zero is reserved as the "no unit" sentinel and never appears
// as a valid node in the flow network.
type UnitID uint64

// NoUnit is the sentinel for "no unit" / network terminus.
const NoUnit UnitID = 0

// FlowRecord is one row of a routing table: From drains directly into To.
type FlowRecord struct {
	From UnitID
	To   UnitID
}

// Correction is one row of the cross-zone override table. It patches known
// discontinuities where a network's upstream extent crosses a zone boundary.
//
//   - Source/Dest describe a forced connection: when processing Zone and Dest
//     is positive, Source is injected into Dest's upstream list even though the
//     raw routing table never expresses that edge.
//   - Remove flags Source as a known-bad routing source whose raw edges must be
//     dropped in every zone.
//   - PassThrough approves Source as a legitimate out-of-zone contributor, so
//     raw edges from it survive the cross-zone noise filter.
type Correction struct {
	Zone        string
	Source      UnitID
	Dest        UnitID
	Remove      bool
	PassThrough bool
}

// CorrectionTable is the full override table, covering potentially many zones.
type CorrectionTable []Correction

// ForZone returns the rows whose injection applies to the given zone:
// matching zone and a positive Dest.
func (ct CorrectionTable) ForZone(zone string) []Correction {
	var out []Correction
	for _, c := range ct {
		if c.Zone == zone && c.Dest != NoUnit {
			out = append(out, c)
		}
	}
	return out
}

// Removals returns every source unit flagged for removal, across all zones.
func (ct CorrectionTable) Removals() UnitSet {
	s := make(UnitSet)
	for _, c := range ct {
		if c.Remove && c.Source != NoUnit {
			s.Add(c.Source)
		}
	}
	return s
}

// PassThroughs returns every source unit approved as a cross-zone
// contributor, across all zones.
func (ct CorrectionTable) PassThroughs() UnitSet {
	s := make(UnitSet)
	for _, c := range ct {
		if c.PassThrough && c.Source != NoUnit {
			s.Add(c.Source)
		}
	}
	return s
}

// UnitSet is a set of drainage unit identifiers.
type UnitSet map[UnitID]struct{}

// NewUnitSet builds a set from the given identifiers.
func NewUnitSet(ids ...UnitID) UnitSet {
	s := make(UnitSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts a unit into the set.
func (s UnitSet) Add(id UnitID) { s[id] = struct{}{} }

// Has reports whether the unit is in the set. A nil set contains nothing.
func (s UnitSet) Has(id UnitID) bool {
	_, ok := s[id]
	return ok
}

// UpstreamIndex maps each unit to the units that drain directly into it.
// A unit absent from the index has no known upstream contributors; that is
// the normal headwater condition, not an error.
type UpstreamIndex map[UnitID][]UnitID

// Upstream returns the immediate contributors of a unit. Missing keys yield
// nil, which callers treat as an empty leaf.
func (ix UpstreamIndex) Upstream(u UnitID) []UnitID {
	return ix[u]
}

// EdgeCount returns the total number of edges held by the index.
func (ix UpstreamIndex) EdgeCount() int {
	n := 0
	for _, ups := range ix {
		n += len(ups)
	}
	return n
}
