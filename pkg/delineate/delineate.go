// Package delineate orchestrates one watershed delineation: resolve the
// start unit from a coordinate, build the upstream flow graph for its zone,
// traverse it, and hand the visited set to the export step. Jobs share no
// mutable state, so any number may run concurrently over the same Service.
package delineate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmorran/watershed/pkg/hydrograph"
	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/metrics"
	"github.com/cmorran/watershed/pkg/spatial"
	"github.com/cmorran/watershed/pkg/traverse"
)

// Request is one delineation request.
type Request struct {
	Point spatial.Point
	// MaxUnits caps the traversal (0 = unlimited).
	MaxUnits int
}

// Job is the outcome of one delineation.
type Job struct {
	ID        string
	Zone      string
	StartUnit hydrograph.UnitID
	Result    traverse.Result
	Stats     hydrograph.BuildStats
	Skipped   int // unparseable routing rows
	Elapsed   time.Duration
}

// Service wires the collaborators of the pipeline.
type Service struct {
	source  Source
	locator spatial.Locator
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewService creates a delineation service. A nil logger falls back to the
// global default; a nil registry disables metrics recording.
func NewService(source Source, locator spatial.Locator, logger logging.Logger, reg *metrics.Registry) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{source: source, locator: locator, logger: logger, metrics: reg}
}

// Run executes one delineation. The only hard failures are an unresolvable
// start point and unreadable datasets; data-quality noise inside the routing
// tables is cleaned silently and reported through Job.Stats.
func (s *Service) Run(ctx context.Context, req Request) (*Job, error) {
	start := time.Now()
	jobID := uuid.NewString()
	log := s.logger.With(logging.Job(jobID))

	zone, err := s.locator.LocateZone(req.Point)
	if err != nil {
		s.recordOutcome("unresolved_zone", start)
		return nil, fmt.Errorf("resolving zone: %w", err)
	}
	log = log.With(logging.Zone(zone))

	startUnit, err := s.locator.LocateUnit(req.Point, zone)
	if err != nil {
		s.recordOutcome("unresolved_unit", start)
		return nil, fmt.Errorf("resolving start unit in zone %s: %w", zone, err)
	}
	log.Info("start unit resolved", logging.Unit(uint64(startUnit)))

	index, stats, skipped, err := s.buildIndex(ctx, zone, log)
	if err != nil {
		s.recordOutcome("dataset_error", start)
		return nil, err
	}

	traversalStart := time.Now()
	result := traverse.Upstream(index, startUnit, traverse.Options{MaxUnits: req.MaxUnits})
	if s.metrics != nil {
		s.metrics.RecordTraversal(result.Count(), time.Since(traversalStart))
	}
	log.Info("upstream traversal complete",
		logging.Count(result.Count()),
		logging.Bool("truncated", result.Truncated),
		logging.Latency(time.Since(traversalStart)))

	elapsed := time.Since(start)
	s.recordOutcome("ok", start)

	return &Job{
		ID:        jobID,
		Zone:      zone,
		StartUnit: startUnit,
		Result:    result,
		Stats:     stats,
		Skipped:   skipped,
		Elapsed:   elapsed,
	}, nil
}

// buildIndex loads the zone's tables and folds them into the upstream index.
func (s *Service) buildIndex(ctx context.Context, zone string, log logging.Logger) (hydrograph.UpstreamIndex, hydrograph.BuildStats, int, error) {
	timer := logging.StartTimer(log, "flow graph built", logging.Stage("build"))

	records, skipped, err := s.source.Records(ctx, zone)
	if err != nil {
		timer.EndError(err)
		return nil, hydrograph.BuildStats{}, 0, fmt.Errorf("loading routing table for zone %s: %w", zone, err)
	}

	corrections, err := s.source.Corrections(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, hydrograph.BuildStats{}, 0, fmt.Errorf("loading correction table: %w", err)
	}

	attrs, err := s.source.ZoneAttributes(ctx, zone)
	if err != nil {
		timer.EndError(err)
		return nil, hydrograph.BuildStats{}, 0, fmt.Errorf("loading zone attributes for zone %s: %w", zone, err)
	}

	index, stats := hydrograph.Build(records, corrections, zone, attrs.Terminals, attrs.Units)
	if s.metrics != nil {
		s.metrics.RecordBuild(stats)
	}
	timer.End(
		logging.Int("edges", index.EdgeCount()),
		logging.Int("dropped", stats.Dropped()),
		logging.Int("injected", stats.Injected),
		logging.Int("skipped_rows", skipped))
	return index, stats, skipped, nil
}

func (s *Service) recordOutcome(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordDelineation(status, time.Since(start))
	}
}
