package spatial

import "errors"

// Sentinel errors for spatial lookups. An unresolved start point is the one
// hard failure of the delineation pipeline: the core has no defined behavior
// without a valid start unit, so these surface to the caller before it runs.
var (
	ErrNoZone = errors.New("point is not inside any zone boundary")
	ErrNoUnit = errors.New("point is not inside any drainage unit")
)
