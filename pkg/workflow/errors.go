// pkg/workflow/errors.go
package workflow

import "errors"

// Halt conditions. Each one stops the current session path and maps to
// a user-visible message at the boundary; none propagate as faults and
// none are retried.
var (
	ErrNoModuleSelected   = errors.New("no module selected")
	ErrInvalidModule      = errors.New("module must be an integer")
	ErrUnknownModule      = errors.New("module not found in override catalog")
	ErrNoTablesConfigured = errors.New("no tables configured for module")
	ErrNoTableSelected    = errors.New("no table selected")
	ErrUnknownSourceTable = errors.New("table is not configured for this module")
	ErrDataUnavailable    = errors.New("source data unavailable")
	ErrNoBaseline         = errors.New("no baseline loaded for submit")
)
