package control

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hex-tactics/internal/movement"
	"github.com/talgya/hex-tactics/internal/world"
)

// GridSource supplies the current grid snapshot. *world.Provider satisfies
// it.
type GridSource interface {
	Current() *world.Map
}

// Result reports the outcome of a targeting or commit request.
type Result struct {
	Applied bool
	State   SelectionState
	Path    movement.Path
}

// selection is the derived state of the selected unit.
type selection struct {
	state       SelectionState
	target      *world.HexCoord
	field       movement.Field
	path        movement.Path
	gridVersion uint64 // grid the field and path were computed against
}

func (s *selection) clearDerived() {
	s.target = nil
	s.field = nil
	s.path = movement.Path{}
}

// Controller holds the unit roster and the single selected unit. It is not
// safe for concurrent use; the game serialises access.
type Controller struct {
	grid         GridSource
	keepSelected bool

	units map[UnitID]*Unit
	order []UnitID

	selected UnitID
	sel      *selection
	cache    movement.FieldCache
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeepSelected sets whether a unit stays selected after it moves.
func WithKeepSelected(keep bool) Option {
	return func(c *Controller) { c.keepSelected = keep }
}

// New returns an empty controller reading terrain from grid.
func New(grid GridSource, opts ...Option) *Controller {
	c := &Controller{
		grid:         grid,
		keepSelected: true,
		units:        make(map[UnitID]*Unit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddUnit adds u to the roster. A missing ID is minted; a zero Budget starts
// at MaxBudget.
func (c *Controller) AddUnit(u *Unit) error {
	if u.ID == "" {
		u.ID = NewUnitID()
	}
	if _, exists := c.units[u.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, u.ID)
	}
	if u.MaxBudget <= 0 {
		return fmt.Errorf("%w: %d", ErrBadBudget, u.MaxBudget)
	}
	m := c.grid.Current()
	if !m.Contains(u.Position) {
		return fmt.Errorf("%w: %v", ErrOutOfGrid, u.Position)
	}
	if _, ok := m.Cost(u.Position); !ok {
		return fmt.Errorf("%w: %v", ErrImpassable, u.Position)
	}
	if u.Budget == 0 {
		u.Budget = u.MaxBudget
	}
	c.units[u.ID] = u
	c.order = append(c.order, u.ID)
	return nil
}

// Unit returns a copy of the unit.
func (c *Controller) Unit(id UnitID) (Unit, bool) {
	u, ok := c.units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Units returns copies of every unit in insertion order.
func (c *Controller) Units() []Unit {
	out := make([]Unit, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.units[id])
	}
	return out
}

// UnitsOf returns copies of the units owned by player.
func (c *Controller) UnitsOf(owner int) []Unit {
	var out []Unit
	for _, id := range c.order {
		if u := c.units[id]; u.Owner == owner {
			out = append(out, *u)
		}
	}
	return out
}

// UnitsAt returns the units standing on coord.
func (c *Controller) UnitsAt(coord world.HexCoord) []Unit {
	var out []Unit
	for _, id := range c.order {
		if u := c.units[id]; u.Position == coord {
			out = append(out, *u)
		}
	}
	return out
}

// Selected returns the selected unit, if any.
func (c *Controller) Selected() (UnitID, bool) {
	return c.selected, c.sel != nil
}

// State returns the selection state of a unit. Units that are not selected
// are Idle.
func (c *Controller) State(id UnitID) SelectionState {
	if c.sel == nil || c.selected != id {
		return Idle
	}
	return c.sel.state
}

// Select makes id the selected unit, fully deselecting any other unit first.
// A unit that has not moved gets its field of movement computed right away.
func (c *Controller) Select(id UnitID) error {
	u, ok := c.units[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if c.sel != nil {
		if c.selected == id {
			return nil
		}
		c.clearSelection("replaced")
	}

	m := c.grid.Current()
	c.selected = id
	c.sel = &selection{state: Selected, gridVersion: m.Version}
	if !u.HasMoved {
		c.refreshField(u, m)
	}
	slog.Debug("unit selected", "unit", id.Short(), "at", u.Position, "state", c.sel.state)
	return nil
}

// Deselect clears every piece of derived state for id.
func (c *Controller) Deselect(id UnitID, reason string) error {
	if _, ok := c.units[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if c.sel == nil || c.selected != id {
		return ErrNotSelected
	}
	c.clearSelection(reason)
	return nil
}

func (c *Controller) clearSelection(reason string) {
	slog.Debug("unit deselected", "unit", c.selected.Short(), "reason", reason)
	c.sel.clearDerived()
	c.sel = nil
	c.selected = ""
}

// ComputeField returns the selected unit's field of movement, computing it if
// it is missing or belongs to an older grid.
func (c *Controller) ComputeField(id UnitID) (movement.Field, error) {
	u, err := c.active(id)
	if err != nil {
		return nil, err
	}
	m := c.grid.Current()
	if c.sel.field == nil || c.sel.gridVersion != m.Version {
		c.refreshField(u, m)
	}
	return c.sel.field, nil
}

// refreshField recomputes the field against m and drops any target and path
// computed against an older grid.
func (c *Controller) refreshField(u *Unit, m *world.Map) {
	if c.sel.gridVersion != m.Version {
		c.sel.clearDerived()
		c.sel.gridVersion = m.Version
	}
	c.sel.field = c.cache.Get(u.Position, u.Budget, m.Version, m.Cost)
	if c.sel.state == Selected || c.sel.target == nil {
		c.sel.state = FieldComputed
	}
}

// SetTarget stores a move target for the selected unit and computes a path
// to it. When no move toward the target is possible the target is kept with
// an empty path.
func (c *Controller) SetTarget(id UnitID, target world.HexCoord) (Result, error) {
	u, err := c.active(id)
	if err != nil {
		return Result{State: c.State(id)}, err
	}
	if !c.sel.state.canTarget() {
		return Result{State: c.sel.state}, fmt.Errorf("%w: %s", ErrInvalidState, c.sel.state)
	}

	field, err := c.ComputeField(id)
	if err != nil {
		return Result{State: c.sel.state}, err
	}
	m := c.grid.Current()

	t := target
	c.sel.target = &t
	path, ok := movement.FindPath(u.Position, target, m.Cost, u.Budget, field)
	if ok {
		c.sel.path = path
		c.sel.state = PathComputed
	} else {
		c.sel.path = movement.Path{}
		c.sel.state = TargetSet
	}
	slog.Debug("target set", "unit", id.Short(), "target", target, "steps", path.Len(), "cost", path.Cost, "truncated", path.Truncated)
	return Result{Applied: true, State: c.sel.state, Path: c.sel.path}, nil
}

// Commit moves the selected unit along its computed path and spends the path
// cost. The path must have been computed against the current grid.
func (c *Controller) Commit(id UnitID) (Result, error) {
	u, err := c.active(id)
	if err != nil {
		return Result{State: c.State(id)}, err
	}
	if c.sel.state != PathComputed {
		return Result{State: c.sel.state}, fmt.Errorf("%w: %s", ErrInvalidState, c.sel.state)
	}
	if c.sel.path.Len() < 2 {
		return Result{State: c.sel.state}, ErrNoPath
	}

	m := c.grid.Current()
	if c.sel.gridVersion != m.Version {
		c.refreshField(u, m)
		return Result{State: c.sel.state}, ErrStaleGrid
	}

	path := c.sel.path
	end, _ := path.End()
	from := u.Position
	u.Position = end
	u.Budget -= path.Cost
	u.HasMoved = true
	c.cache.Invalidate()

	slog.Info("unit moved", "unit", id.Short(), "from", from, "to", end, "cost", path.Cost, "budget", u.Budget)

	if c.keepSelected {
		c.sel.clearDerived()
		c.sel.state = Moved
		return Result{Applied: true, State: Moved, Path: path}, nil
	}
	c.clearSelection("moved")
	return Result{Applied: true, State: Idle, Path: path}, nil
}

// active returns the unit if it is the selected unit and may still move.
func (c *Controller) active(id UnitID) (*Unit, error) {
	u, ok := c.units[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if c.sel == nil || c.selected != id {
		return nil, ErrNotSelected
	}
	if u.HasMoved {
		return nil, ErrAlreadyMoved
	}
	return u, nil
}

// Field returns the selected unit's current field of movement.
func (c *Controller) Field(id UnitID) (movement.Field, bool) {
	if c.sel == nil || c.selected != id || c.sel.field == nil {
		return nil, false
	}
	return c.sel.field, true
}

// Path returns the selected unit's computed path.
func (c *Controller) Path(id UnitID) (movement.Path, bool) {
	if c.sel == nil || c.selected != id || c.sel.path.Empty() {
		return movement.Path{}, false
	}
	return c.sel.path, true
}

// Target returns the selected unit's move target.
func (c *Controller) Target(id UnitID) (world.HexCoord, bool) {
	if c.sel == nil || c.selected != id || c.sel.target == nil {
		return world.HexCoord{}, false
	}
	return *c.sel.target, true
}

// ReachableHandles returns the tile handles of the selected unit's field, or
// nil if the field is missing or was computed against an older grid.
func (c *Controller) ReachableHandles(id UnitID) []world.Handle {
	f, ok := c.Field(id)
	if !ok {
		return nil
	}
	m := c.grid.Current()
	if c.sel.gridVersion != m.Version {
		return nil
	}
	return m.HandlesOf(f.Coords())
}

// PathHandles returns the tile handles along the selected unit's path.
func (c *Controller) PathHandles(id UnitID) []world.Handle {
	p, ok := c.Path(id)
	if !ok {
		return nil
	}
	m := c.grid.Current()
	if c.sel.gridVersion != m.Version {
		return nil
	}
	return m.HandlesOf(p.Steps)
}

// ResetMoves restores the budget of every unit owned by owner and clears its
// has-moved flag. Hooked to the start of that player's turn.
func (c *Controller) ResetMoves(owner int) {
	n := 0
	for _, id := range c.order {
		u := c.units[id]
		if u.Owner != owner {
			continue
		}
		u.HasMoved = false
		u.Budget = u.MaxBudget
		n++
	}
	if c.sel != nil {
		if u := c.units[c.selected]; u.Owner == owner {
			c.sel.clearDerived()
			c.sel.state = Selected
			c.refreshField(u, c.grid.Current())
		}
	}
	c.cache.Invalidate()
	slog.Debug("moves reset", "player", owner, "units", n)
}

// SetBudget changes a unit's per-turn movement budget. A unit that has not
// moved also gets its remaining budget set.
func (c *Controller) SetBudget(id UnitID, budget int) error {
	u, ok := c.units[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if budget <= 0 {
		return fmt.Errorf("%w: %d", ErrBadBudget, budget)
	}
	u.MaxBudget = budget
	if !u.HasMoved {
		u.Budget = budget
		if c.sel != nil && c.selected == id {
			c.sel.clearDerived()
			c.sel.state = Selected
			c.refreshField(u, c.grid.Current())
		}
	}
	return nil
}

// InvalidateGrid drops every cached field, path and target after the grid
// was regenerated. A selected unit that can still move gets a fresh field.
func (c *Controller) InvalidateGrid() {
	c.cache.Invalidate()
	if c.sel == nil {
		return
	}
	c.sel.clearDerived()
	m := c.grid.Current()
	c.sel.gridVersion = m.Version
	u := c.units[c.selected]
	if u.HasMoved {
		return
	}
	c.sel.state = Selected
	c.refreshField(u, m)
}
