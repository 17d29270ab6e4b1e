package domain

import "errors"

// Error kinds shared across the search and activity subsystems. Callers
// classify failures with errors.Is; wrap with fmt.Errorf("%w: ...", kind).
var (
	// ErrValidation marks a request rejected because of bad input,
	// e.g. a missing activity type.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced product or user that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDependency marks a failure of the catalog store itself. The main
	// search pipeline propagates it unchanged; best-effort endpoints
	// (similar, trending, recommendations) degrade instead.
	ErrDependency = errors.New("dependency failure")
)
