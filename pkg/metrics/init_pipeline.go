package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.DelineationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watershed_delineations_total",
			Help: "Total number of delineation requests by outcome",
		},
		[]string{"status"},
	)

	r.DelineationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watershed_delineation_duration_seconds",
			Help:    "End-to-end delineation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RoutingRecordsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "watershed_routing_records_total",
			Help: "Raw routing records processed by the builder, by disposition",
		},
		[]string{"disposition"},
	)

	r.EdgesInjectedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "watershed_edges_injected_total",
			Help: "Edges manufactured from cross-zone correction rows",
		},
	)

	r.TraversalVisited = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watershed_traversal_visited_units",
			Help:    "Units reached per upstream traversal",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watershed_traversal_duration_seconds",
			Help:    "Upstream traversal latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.ExportFeaturesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "watershed_export_features_total",
			Help: "Catchment features written by the export step",
		},
	)

	r.EmptyResultsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "watershed_empty_results_total",
			Help: "Delineations whose export matched no features",
		},
	)
}
