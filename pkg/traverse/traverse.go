package traverse

import (
	"slices"

	"golang.org/x/exp/maps"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// Options configures an upstream traversal.
type Options struct {
	MaxUnits int // 0 = unlimited; hitting the cap truncates the result
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{}
}

// Result holds the outcome of an upstream traversal.
type Result struct {
	Start   hydrograph.UnitID
	Visited hydrograph.UnitSet
	// Order is the discovery order. Informational only: the set is the
	// contract, discovery order is not.
	Order     []hydrograph.UnitID
	Truncated bool
}

// Contains reports whether the unit was reached.
func (r Result) Contains(u hydrograph.UnitID) bool {
	return r.Visited.Has(u)
}

// Count returns the number of units reached, including the start unit.
func (r Result) Count() int {
	return len(r.Visited)
}

// Units returns the visited set as a sorted slice.
func (r Result) Units() []hydrograph.UnitID {
	ids := maps.Keys(r.Visited)
	slices.Sort(ids)
	return ids
}

// Upstream performs a BFS over the reversed flow relation from start,
// returning every unit that transitively drains into it. The visited set
// guards against duplicate enqueues and cycles, so traversal terminates in at
// most one dequeue per distinct reachable unit. A start unit unknown to the
// index yields the singleton set (an isolated or headwater unit, not an
// error). The result always contains start.
func Upstream(index hydrograph.UpstreamIndex, start hydrograph.UnitID, opts Options) Result {
	visited := make(hydrograph.UnitSet)
	var order []hydrograph.UnitID

	queue := []hydrograph.UnitID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.Has(current) {
			continue
		}
		visited.Add(current)
		order = append(order, current)

		if opts.MaxUnits > 0 && len(visited) >= opts.MaxUnits {
			// Cap reached. The set so far is returned as-is; callers see the
			// flag rather than an error.
			return Result{Start: start, Visited: visited, Order: order, Truncated: true}
		}

		for _, contributor := range index.Upstream(current) {
			if !visited.Has(contributor) {
				queue = append(queue, contributor)
			}
		}
	}

	return Result{Start: start, Visited: visited, Order: order}
}
