package delineate

import (
	"errors"
	"time"

	"github.com/cmorran/watershed/pkg/export"
	"github.com/cmorran/watershed/pkg/logging"
)

// Export writes the job's matching catchment features to outPath. The
// ErrEmptyResult signal passes through to the caller: an upstream set that
// matches nothing is a reportable outcome, not a crash.
func (s *Service) Export(job *Job, inPath, outPath, keyProp string) (int, error) {
	log := s.logger.With(logging.Job(job.ID), logging.Zone(job.Zone))
	timer := logging.StartTimer(log, "export complete", logging.Stage("export"), logging.Path(outPath))

	n, err := export.FilterFile(inPath, outPath, keyProp, job.Result.Visited)
	if err != nil {
		if errors.Is(err, export.ErrEmptyResult) {
			if s.metrics != nil {
				s.metrics.RecordExport(0, true)
			}
			log.Warn("export matched no features", logging.Stage("export"))
			return 0, err
		}
		timer.EndError(err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordExport(n, false)
	}
	timer.End(logging.Count(n))
	return n, nil
}

// WriteArchive writes the job's compressed membership snapshot.
func (s *Service) WriteArchive(job *Job, path string) error {
	return export.WriteArchive(path, export.Archive{
		JobID:     job.ID,
		Zone:      job.Zone,
		StartUnit: job.StartUnit,
		Units:     job.Result.Units(),
		CreatedAt: time.Now(),
	})
}
