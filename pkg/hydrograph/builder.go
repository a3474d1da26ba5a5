package hydrograph

// BuildStats counts what happened to the raw routing records during a build.
// The builder is a best-effort data cleaner: malformed rows are dropped and
// counted, never surfaced as errors.
type BuildStats struct {
	Kept             int // records folded into the index
	DroppedSentinel  int // zero From or To
	DroppedSelfLoop  int // From == To
	DroppedTerminal  int // source is a terminal/coastline unit
	DroppedRemoved   int // source flagged for removal by the correction table
	DroppedCrossZone int // out-of-zone source with no pass-through approval
	Injected         int // edges manufactured from correction rows
}

// Dropped returns the total number of discarded records.
func (s BuildStats) Dropped() int {
	return s.DroppedSentinel + s.DroppedSelfLoop + s.DroppedTerminal +
		s.DroppedRemoved + s.DroppedCrossZone
}

// Build folds raw routing records into an UpstreamIndex for one zone,
// applying the boundary corrections:
//
//  1. records with a zero sentinel on either side, or From == To, are dropped;
//  2. records whose source is a terminal (coastline-type) unit are dropped;
//  3. records whose source the correction table flags for removal are dropped;
//  4. records whose source is outside zoneUnits are dropped unless the source
//     is an approved pass-through in the correction table;
//  5. correction rows matching zone with a positive Dest inject one edge each,
//     bridging topology gaps the raw table does not express.
//
// A nil zoneUnits set disables step 4 (the caller has no zone membership data,
// so out-of-zone sources cannot be told apart from in-zone ones).
//
// The result is deterministic for identical inputs. Per-key contributor order
// follows input order; traversal does not depend on it.
func Build(records []FlowRecord, corrections CorrectionTable, zone string, terminals, zoneUnits UnitSet) (UpstreamIndex, BuildStats) {
	var stats BuildStats
	index := make(UpstreamIndex)

	removals := corrections.Removals()
	passThroughs := corrections.PassThroughs()

	for _, rec := range records {
		switch {
		case rec.From == NoUnit || rec.To == NoUnit:
			stats.DroppedSentinel++
		case rec.From == rec.To:
			stats.DroppedSelfLoop++
		case terminals.Has(rec.From):
			stats.DroppedTerminal++
		case removals.Has(rec.From):
			stats.DroppedRemoved++
		case zoneUnits != nil && !zoneUnits.Has(rec.From) && !passThroughs.Has(rec.From):
			stats.DroppedCrossZone++
		default:
			index[rec.To] = append(index[rec.To], rec.From)
			stats.Kept++
		}
	}

	for _, c := range corrections.ForZone(zone) {
		if c.Source == NoUnit || c.Source == c.Dest {
			continue
		}
		index[c.Dest] = append(index[c.Dest], c.Source)
		stats.Injected++
	}

	return index, stats
}
