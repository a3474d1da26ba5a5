package nhd

import "errors"

// Sentinel errors for dataset reading
var (
	ErrMissingColumn = errors.New("required column not found in header")
	ErrEmptyTable    = errors.New("table has no header row")
)
