package control

import "errors"

// Every error here means the request did not apply; none leaves the
// controller in a partial state.
var (
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrDuplicateUnit = errors.New("unit already exists")
	ErrNotSelected   = errors.New("unit is not selected")
	ErrAlreadyMoved  = errors.New("unit has already moved this turn")
	ErrInvalidState  = errors.New("operation not valid in current selection state")
	ErrNoPath        = errors.New("no path to commit")
	ErrStaleGrid     = errors.New("grid changed since the path was computed")
	ErrOutOfGrid     = errors.New("coordinate is outside the grid")
	ErrImpassable    = errors.New("tile is impassable")
	ErrBadBudget     = errors.New("movement budget must be positive")
)
