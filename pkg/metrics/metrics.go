package metrics

import (
	"time"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDelineation records a finished delineation request
func (r *Registry) RecordDelineation(status string, duration time.Duration) {
	r.DelineationsTotal.WithLabelValues(status).Inc()
	r.DelineationDuration.Observe(duration.Seconds())
}

// RecordBuild records the builder's record dispositions for one zone build
func (r *Registry) RecordBuild(stats hydrograph.BuildStats) {
	r.RoutingRecordsTotal.WithLabelValues("kept").Add(float64(stats.Kept))
	r.RoutingRecordsTotal.WithLabelValues("sentinel").Add(float64(stats.DroppedSentinel))
	r.RoutingRecordsTotal.WithLabelValues("self_loop").Add(float64(stats.DroppedSelfLoop))
	r.RoutingRecordsTotal.WithLabelValues("terminal").Add(float64(stats.DroppedTerminal))
	r.RoutingRecordsTotal.WithLabelValues("removed").Add(float64(stats.DroppedRemoved))
	r.RoutingRecordsTotal.WithLabelValues("cross_zone").Add(float64(stats.DroppedCrossZone))
	r.EdgesInjectedTotal.Add(float64(stats.Injected))
}

// RecordTraversal records one upstream traversal
func (r *Registry) RecordTraversal(visited int, duration time.Duration) {
	r.TraversalVisited.Observe(float64(visited))
	r.TraversalDuration.Observe(duration.Seconds())
}

// RecordExport records an export outcome
func (r *Registry) RecordExport(features int, empty bool) {
	r.ExportFeaturesTotal.Add(float64(features))
	if empty {
		r.EmptyResultsTotal.Inc()
	}
}
