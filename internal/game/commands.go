package game

import (
	"fmt"

	"github.com/talgya/hex-tactics/internal/control"
	"github.com/talgya/hex-tactics/internal/world"
)

// Command is an intent forwarded by the input layer. The set is closed.
type Command interface {
	Kind() string
	isCommand()
}

// Select selects a unit. Any unit may be selected for inspection.
type Select struct {
	Unit control.UnitID
}

// SetTarget sets the move destination of the selected unit.
type SetTarget struct {
	Unit  control.UnitID
	Coord world.HexCoord
}

// Commit moves the selected unit along its computed path.
type Commit struct {
	Unit control.UnitID
}

// Deselect clears the selection of a unit.
type Deselect struct {
	Unit   control.UnitID
	Reason string
}

// EndTurn ends the turn of Player. Player 0 ends whoever is active.
type EndTurn struct {
	Player int
}

// SetBudget changes the per-turn movement budget of a unit.
type SetBudget struct {
	Unit   control.UnitID
	Budget int
}

// Regenerate swaps in a freshly generated grid. Seed 0 picks a random seed.
type Regenerate struct {
	Seed int64
}

func (Select) Kind() string     { return "select" }
func (SetTarget) Kind() string  { return "set_target" }
func (Commit) Kind() string     { return "commit" }
func (Deselect) Kind() string   { return "deselect" }
func (SetBudget) Kind() string  { return "set_budget" }
func (EndTurn) Kind() string    { return "end_turn" }
func (Regenerate) Kind() string { return "regenerate" }

func (Select) isCommand()     {}
func (SetTarget) isCommand()  {}
func (Commit) isCommand()     {}
func (Deselect) isCommand()   {}
func (SetBudget) isCommand()  {}
func (EndTurn) isCommand()    {}
func (Regenerate) isCommand() {}

func (c Select) String() string    { return fmt.Sprintf("select %s", c.Unit.Short()) }
func (c SetTarget) String() string { return fmt.Sprintf("target %s %v", c.Unit.Short(), c.Coord) }
func (c Commit) String() string    { return fmt.Sprintf("commit %s", c.Unit.Short()) }
func (c SetBudget) String() string { return fmt.Sprintf("budget %s %d", c.Unit.Short(), c.Budget) }
