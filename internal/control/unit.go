// Package control sequences unit selection, targeting and movement on top
// of the movement engines.
package control

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/hex-tactics/internal/world"
)

// UnitID uniquely identifies a unit for the lifetime of a match.
type UnitID string

// NewUnitID mints a fresh unit ID.
func NewUnitID() UnitID {
	return UnitID(uuid.New().String())
}

// Short returns the first eight characters of the ID, for logs and text
// output.
func (id UnitID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// Unit is a movable piece on the grid.
type Unit struct {
	ID        UnitID         `json:"id"`
	Owner     int            `json:"owner"` // 1-based player index
	Name      string         `json:"name"`
	Position  world.HexCoord `json:"position"`
	Budget    int            `json:"budget"`     // movement points left this turn
	MaxBudget int            `json:"max_budget"` // restored at turn start
	HasMoved  bool           `json:"has_moved"`
}

func (u Unit) String() string {
	return fmt.Sprintf("%s[%s] p%d at %v (%d/%d)", u.Name, u.ID.Short(), u.Owner, u.Position, u.Budget, u.MaxBudget)
}

// SelectionState is the per-unit orchestration state. At most one unit is in
// a state other than Idle.
type SelectionState uint8

const (
	Idle SelectionState = iota
	Selected
	FieldComputed
	TargetSet
	PathComputed
	Moved
)

var selectionStateNames = [...]string{
	Idle:          "Idle",
	Selected:      "Selected",
	FieldComputed: "FieldComputed",
	TargetSet:     "TargetSet",
	PathComputed:  "PathComputed",
	Moved:         "Moved",
}

func (s SelectionState) String() string {
	if int(s) < len(selectionStateNames) {
		return selectionStateNames[s]
	}
	return fmt.Sprintf("SelectionState(%d)", s)
}

// canTarget reports whether SetTarget is legal in s.
func (s SelectionState) canTarget() bool {
	switch s {
	case Selected, FieldComputed, TargetSet, PathComputed:
		return true
	}
	return false
}
