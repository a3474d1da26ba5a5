package fetch

import (
	"context"
	"sync"

	"github.com/cmorran/watershed/pkg/hydrograph"
	"github.com/cmorran/watershed/pkg/nhd"
)

// sourceReader is the subset of the pipeline's input source this decorator
// wraps. It matches delineate.Source without importing it.
type sourceReader interface {
	Records(ctx context.Context, zone string) ([]hydrograph.FlowRecord, int, error)
	Corrections(ctx context.Context) (hydrograph.CorrectionTable, error)
	ZoneAttributes(ctx context.Context, zone string) (nhd.ZoneAttributes, error)
}

// FetchingSource decorates a file-backed source so a zone's dataset files
// come down from S3 the first time that zone is requested.
type FetchingSource struct {
	inner   sourceReader
	fetcher *Fetcher

	mu      sync.Mutex
	fetched map[string]bool
}

// NewFetchingSource wraps inner with on-demand zone fetching.
func NewFetchingSource(inner sourceReader, fetcher *Fetcher) *FetchingSource {
	return &FetchingSource{
		inner:   inner,
		fetcher: fetcher,
		fetched: make(map[string]bool),
	}
}

// ensureZone downloads the zone's files once per process. Errors are not
// cached: a failed fetch retries on the next request.
func (s *FetchingSource) ensureZone(ctx context.Context, zone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched[zone] {
		return nil
	}
	if err := s.fetcher.FetchZone(ctx, zone); err != nil {
		return err
	}
	s.fetched[zone] = true
	return nil
}

func (s *FetchingSource) Records(ctx context.Context, zone string) ([]hydrograph.FlowRecord, int, error) {
	if err := s.ensureZone(ctx, zone); err != nil {
		return nil, 0, err
	}
	return s.inner.Records(ctx, zone)
}

func (s *FetchingSource) Corrections(ctx context.Context) (hydrograph.CorrectionTable, error) {
	return s.inner.Corrections(ctx)
}

func (s *FetchingSource) ZoneAttributes(ctx context.Context, zone string) (nhd.ZoneAttributes, error) {
	if err := s.ensureZone(ctx, zone); err != nil {
		return nhd.ZoneAttributes{}, err
	}
	return s.inner.ZoneAttributes(ctx, zone)
}
