package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang/snappy"

	"github.com/cmorran/watershed/pkg/hydrograph"
)

// Archive is a compact snapshot of one delineation result, written alongside
// the geometry export. Membership lists for large watersheds run to hundreds
// of thousands of identifiers, so the snapshot is snappy-compressed on disk.
type Archive struct {
	JobID     string              `json:"job_id"`
	Zone      string              `json:"zone"`
	StartUnit hydrograph.UnitID   `json:"start_unit"`
	Units     []hydrograph.UnitID `json:"units"`
	CreatedAt time.Time           `json:"created_at"`
}

// WriteArchive writes a snappy-compressed JSON snapshot.
func WriteArchive(path string, a Archive) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}
	compressed := snappy.Encode(nil, data)
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", path, err)
	}
	return nil
}

// ReadArchive reads a snapshot written by WriteArchive.
func ReadArchive(path string) (Archive, error) {
	var a Archive
	compressed, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("failed to read archive %s: %w", path, err)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return a, fmt.Errorf("failed to decompress archive %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("failed to parse archive %s: %w", path, err)
	}
	return a, nil
}
