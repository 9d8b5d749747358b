package control

import (
	"errors"
	"testing"

	"github.com/talgya/hex-tactics/internal/world"
)

func hex(q, r int) world.HexCoord { return world.HexCoord{Q: q, R: r} }

func newTestController(t *testing.T, opts ...Option) (*Controller, *world.Provider, *Unit, *Unit) {
	t.Helper()
	p := world.NewStaticProvider(world.FromLayout(4, world.BiomePlains, map[world.HexCoord]world.Biome{
		hex(0, -2): world.BiomeMountain,
	}))
	c := New(p, opts...)

	a := &Unit{Owner: 1, Name: "scout", Position: world.Origin, MaxBudget: 3}
	b := &Unit{Owner: 2, Name: "rider", Position: hex(2, 0), MaxBudget: 2}
	for _, u := range []*Unit{a, b} {
		if err := c.AddUnit(u); err != nil {
			t.Fatalf("AddUnit(%s): %v", u.Name, err)
		}
	}
	return c, p, a, b
}

func TestAddUnit(t *testing.T) {
	c, _, a, _ := newTestController(t)

	if a.ID == "" || a.Budget != 3 {
		t.Errorf("AddUnit should mint an ID and fill the budget, got %+v", a)
	}
	if err := c.AddUnit(&Unit{ID: a.ID, Owner: 1, MaxBudget: 1}); !errors.Is(err, ErrDuplicateUnit) {
		t.Errorf("duplicate ID error = %v", err)
	}
	if err := c.AddUnit(&Unit{Owner: 1, Position: hex(9, 0), MaxBudget: 1}); !errors.Is(err, ErrOutOfGrid) {
		t.Errorf("outside grid error = %v", err)
	}
	if err := c.AddUnit(&Unit{Owner: 1, Position: hex(0, -2), MaxBudget: 1}); !errors.Is(err, ErrImpassable) {
		t.Errorf("impassable tile error = %v", err)
	}
	if err := c.AddUnit(&Unit{Owner: 1, Position: hex(1, 0)}); !errors.Is(err, ErrBadBudget) {
		t.Errorf("zero budget error = %v", err)
	}
	if got := len(c.UnitsOf(1)); got != 1 {
		t.Errorf("UnitsOf(1) = %d units, want 1", got)
	}
}

func TestSelectComputesField(t *testing.T) {
	c, _, a, _ := newTestController(t)

	if err := c.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	if s := c.State(a.ID); s != FieldComputed {
		t.Errorf("state = %v, want FieldComputed", s)
	}
	f, ok := c.Field(a.ID)
	if !ok {
		t.Fatal("field missing after select")
	}
	if f.Contains(hex(0, -2)) {
		t.Error("impassable tile in field")
	}
	if got := len(c.ReachableHandles(a.ID)); got != f.Len() {
		t.Errorf("ReachableHandles = %d, want %d", got, f.Len())
	}
}

func TestSelectionExclusivity(t *testing.T) {
	c, _, a, b := newTestController(t)

	c.Select(a.ID)
	if _, err := c.SetTarget(a.ID, hex(1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Select(b.ID); err != nil {
		t.Fatal(err)
	}

	if s := c.State(a.ID); s != Idle {
		t.Errorf("A state = %v, want Idle", s)
	}
	if _, ok := c.Target(a.ID); ok {
		t.Error("A still has a target")
	}
	if _, ok := c.Path(a.ID); ok {
		t.Error("A still has a path")
	}
	if _, ok := c.Field(a.ID); ok {
		t.Error("A still has a field")
	}
	if id, ok := c.Selected(); !ok || id != b.ID {
		t.Errorf("Selected() = %v, %v, want B", id, ok)
	}
	if s := c.State(b.ID); s != FieldComputed {
		t.Errorf("B state = %v, want FieldComputed", s)
	}
}

func TestTargetAndCommit(t *testing.T) {
	c, _, a, _ := newTestController(t)
	c.Select(a.ID)

	res, err := c.SetTarget(a.ID, hex(2, -1))
	if err != nil {
		t.Fatal(err)
	}
	if res.State != PathComputed || res.Path.Cost != 2 {
		t.Fatalf("SetTarget = %+v", res)
	}
	if got := len(c.PathHandles(a.ID)); got != res.Path.Len() {
		t.Errorf("PathHandles = %d, want %d", got, res.Path.Len())
	}

	res, err = c.Commit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Applied || res.State != Moved {
		t.Errorf("Commit = %+v", res)
	}
	u, _ := c.Unit(a.ID)
	if u.Position != hex(2, -1) || u.Budget != 1 || !u.HasMoved {
		t.Errorf("unit after commit = %+v", u)
	}
	if _, ok := c.Path(a.ID); ok {
		t.Error("path should be cleared after commit")
	}
}

func TestCommitDeselectsWhenConfigured(t *testing.T) {
	c, _, a, _ := newTestController(t, WithKeepSelected(false))
	c.Select(a.ID)
	c.SetTarget(a.ID, hex(1, 0))

	res, err := c.Commit(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Idle {
		t.Errorf("state = %v, want Idle", res.State)
	}
	if _, ok := c.Selected(); ok {
		t.Error("unit should be deselected after moving")
	}
}

func TestMovedUnitRejectsMoves(t *testing.T) {
	c, _, a, _ := newTestController(t)
	c.Select(a.ID)
	c.SetTarget(a.ID, hex(1, 0))
	c.Commit(a.ID)

	if _, err := c.SetTarget(a.ID, hex(1, 1)); !errors.Is(err, ErrAlreadyMoved) {
		t.Errorf("SetTarget after move error = %v", err)
	}
	if _, err := c.Commit(a.ID); !errors.Is(err, ErrAlreadyMoved) {
		t.Errorf("Commit after move error = %v", err)
	}

	// Reselecting a moved unit is allowed for inspection only.
	c.Deselect(a.ID, "test")
	if err := c.Select(a.ID); err != nil {
		t.Fatal(err)
	}
	if s := c.State(a.ID); s != Selected {
		t.Errorf("state = %v, want Selected", s)
	}
	if _, ok := c.Field(a.ID); ok {
		t.Error("a moved unit gets no field")
	}

	c.ResetMoves(1)
	u, _ := c.Unit(a.ID)
	if u.HasMoved || u.Budget != u.MaxBudget {
		t.Errorf("after reset: %+v", u)
	}
	if s := c.State(a.ID); s != FieldComputed {
		t.Errorf("state after reset = %v, want FieldComputed", s)
	}
	if _, err := c.SetTarget(a.ID, hex(1, 1)); err != nil {
		t.Errorf("SetTarget after reset: %v", err)
	}
}

func TestRejectsUnselected(t *testing.T) {
	c, _, a, b := newTestController(t)
	c.Select(a.ID)

	if _, err := c.SetTarget(b.ID, hex(1, 0)); !errors.Is(err, ErrNotSelected) {
		t.Errorf("SetTarget on unselected error = %v", err)
	}
	if _, err := c.Commit(b.ID); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Commit on unselected error = %v", err)
	}
	if err := c.Deselect(b.ID, "test"); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Deselect on unselected error = %v", err)
	}
	if err := c.Select("nope"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Select unknown error = %v", err)
	}
}

func TestCommitRequiresPath(t *testing.T) {
	c, _, a, _ := newTestController(t)
	c.Select(a.ID)

	if _, err := c.Commit(a.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Commit without target error = %v", err)
	}

	// A target on the unit's own tile yields a one-step path: nothing to commit.
	c.SetTarget(a.ID, world.Origin)
	if _, err := c.Commit(a.ID); !errors.Is(err, ErrNoPath) {
		t.Errorf("Commit of zero-length path error = %v", err)
	}
}

func TestTargetWithoutMoveKeepsTarget(t *testing.T) {
	p := world.NewStaticProvider(world.FromLayout(3, world.BiomePlains, map[world.HexCoord]world.Biome{
		hex(1, 0): world.BiomeSnow,
	}))
	c := New(p)
	u := &Unit{Owner: 1, Position: world.Origin, MaxBudget: 1}
	c.AddUnit(u)
	c.Select(u.ID)

	res, err := c.SetTarget(u.ID, hex(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if res.State != TargetSet || !res.Path.Empty() {
		t.Errorf("SetTarget = %+v, want TargetSet with empty path", res)
	}
	if tgt, ok := c.Target(u.ID); !ok || tgt != hex(1, 0) {
		t.Errorf("Target() = %v, %v", tgt, ok)
	}
	if _, err := c.Commit(u.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Commit in TargetSet error = %v", err)
	}
}

func TestStaleCommitRejected(t *testing.T) {
	c, p, a, _ := newTestController(t)
	c.Select(a.ID)
	if _, err := c.SetTarget(a.ID, hex(1, 0)); err != nil {
		t.Fatal(err)
	}

	p.Replace(world.FromLayout(4, world.BiomeForest, nil))

	if _, err := c.Commit(a.ID); !errors.Is(err, ErrStaleGrid) {
		t.Fatalf("Commit against a replaced grid error = %v", err)
	}
	u, _ := c.Unit(a.ID)
	if u.Position != world.Origin || u.HasMoved {
		t.Errorf("stale commit moved the unit: %+v", u)
	}
	if s := c.State(a.ID); s != FieldComputed {
		t.Errorf("state = %v, want FieldComputed", s)
	}
	f, _ := c.Field(a.ID)
	// Forest costs 2, so budget 3 reaches only ring 1.
	if f.Len() != 7 {
		t.Errorf("field on new grid has %d coords, want 7", f.Len())
	}
}

func TestInvalidateGrid(t *testing.T) {
	c, p, a, _ := newTestController(t)
	c.Select(a.ID)
	c.SetTarget(a.ID, hex(1, 1))

	p.Replace(world.FromLayout(4, world.BiomePlains, nil))
	c.InvalidateGrid()

	if _, ok := c.Path(a.ID); ok {
		t.Error("path survived regeneration")
	}
	if _, ok := c.Target(a.ID); ok {
		t.Error("target survived regeneration")
	}
	if s := c.State(a.ID); s != FieldComputed {
		t.Errorf("state = %v, want FieldComputed", s)
	}
	if got := len(c.ReachableHandles(a.ID)); got != 37 {
		t.Errorf("ReachableHandles = %d, want 37", got)
	}
}

func TestComputeFieldOnStaleGrid(t *testing.T) {
	c, p, a, _ := newTestController(t)

	if _, err := c.ComputeField(a.ID); !errors.Is(err, ErrNotSelected) {
		t.Errorf("ComputeField without selection error = %v", err)
	}

	c.Select(a.ID)
	if _, err := c.SetTarget(a.ID, hex(1, 1)); err != nil {
		t.Fatal(err)
	}
	if s := c.State(a.ID); s != PathComputed {
		t.Fatalf("state = %v, want PathComputed", s)
	}

	p.Replace(world.FromLayout(4, world.BiomeForest, nil))
	f, err := c.ComputeField(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 7 {
		t.Errorf("field on the forest grid has %d coords, want 7", f.Len())
	}
	if s := c.State(a.ID); s != FieldComputed {
		t.Errorf("state = %v, want FieldComputed", s)
	}
	if _, ok := c.Target(a.ID); ok {
		t.Error("target survived the grid change")
	}
	if _, ok := c.Path(a.ID); ok {
		t.Error("path survived the grid change")
	}
	if got := len(c.ReachableHandles(a.ID)); got != 7 {
		t.Errorf("ReachableHandles = %d, want 7", got)
	}

	// A current field is returned as is.
	again, _ := c.ComputeField(a.ID)
	if again.Len() != f.Len() {
		t.Errorf("second ComputeField has %d coords, want %d", again.Len(), f.Len())
	}
}

func TestSetBudget(t *testing.T) {
	c, _, a, _ := newTestController(t)
	c.Select(a.ID)

	if err := c.SetBudget(a.ID, 1); err != nil {
		t.Fatal(err)
	}
	f, _ := c.Field(a.ID)
	if f.Len() != 7 {
		t.Errorf("field with budget 1 has %d coords, want 7", f.Len())
	}
	if err := c.SetBudget(a.ID, 0); !errors.Is(err, ErrBadBudget) {
		t.Errorf("SetBudget(0) error = %v", err)
	}
}

func TestSelectionStateString(t *testing.T) {
	if PathComputed.String() != "PathComputed" {
		t.Errorf("String() = %q", PathComputed.String())
	}
	if SelectionState(42).String() != "SelectionState(42)" {
		t.Errorf("String() = %q", SelectionState(42).String())
	}
}
