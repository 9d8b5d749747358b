// Package movement computes where a unit may go: the field of movement
// reachable within a budget, and cost-aware paths with a budget fallback.
// Everything here is a pure function over a grid snapshot.
package movement

import (
	"sync"

	"github.com/talgya/hex-tactics/internal/world"
)

// CostFunc returns the cost of entering a coordinate, or false if the
// coordinate is impassable or outside the grid. (*world.Map).Cost fits.
// A CostFunc may also describe an unbounded plane: searches that run
// without a budget stop after searchLimit settled coordinates.
type CostFunc func(world.HexCoord) (int, bool)

// searchLimit caps the coordinates settled by a search without a budget.
// It is far above the tile count of any playable grid.
var searchLimit = 1 << 20

// Field maps each reachable coordinate to its minimal cost-to-enter.
type Field map[world.HexCoord]int

// Contains reports whether c is reachable.
func (f Field) Contains(c world.HexCoord) bool {
	_, ok := f[c]
	return ok
}

// Len returns the number of reachable coordinates.
func (f Field) Len() int {
	return len(f)
}

// Coords returns the reachable coordinates in (q, r) order.
func (f Field) Coords() []world.HexCoord {
	out := make([]world.HexCoord, 0, len(f))
	for c := range f {
		out = append(out, c)
	}
	world.SortCoords(out)
	return out
}

// Reachable returns every coordinate that can be entered from origin with an
// accumulated cost no greater than budget. The origin is always included at
// cost 0, whatever its own terrain. The budget is the only bound, so an
// unbounded CostFunc needs a finite budget.
func Reachable(origin world.HexCoord, budget int, cost CostFunc) Field {
	return reachable(origin, budget, cost, 0)
}

// reachable is Reachable that stops expanding once limit coordinates have
// been settled. A zero limit never stops early.
func reachable(origin world.HexCoord, budget int, cost CostFunc, limit int) Field {
	if budget < 0 {
		budget = 0
	}
	best := Field{origin: 0}

	var q queue
	q.push(origin, 0, 0)

	settled := 0
	for !q.empty() {
		cur := q.pop()
		if cur.cost > best[cur.coord] {
			continue // stale entry
		}
		settled++
		if limit > 0 && settled > limit {
			break
		}
		for _, n := range cur.coord.Neighbors() {
			step, ok := cost(n)
			if !ok {
				continue
			}
			acc := cur.cost + step
			if acc > budget {
				continue
			}
			if prev, seen := best[n]; seen && prev <= acc {
				continue
			}
			best[n] = acc
			q.push(n, acc, acc)
		}
	}
	return best
}

type fieldKey struct {
	origin  world.HexCoord
	budget  int
	version uint64
}

// FieldCache remembers the last field computed for an (origin, budget,
// grid version) key. It only saves work; a miss recomputes.
type FieldCache struct {
	mu    sync.Mutex
	key   fieldKey
	field Field
}

// Get returns the cached field for the key or computes and stores it.
func (fc *FieldCache) Get(origin world.HexCoord, budget int, version uint64, cost CostFunc) Field {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	k := fieldKey{origin: origin, budget: budget, version: version}
	if fc.field != nil && fc.key == k {
		return fc.field
	}
	fc.key = k
	fc.field = Reachable(origin, budget, cost)
	return fc.field
}

// Invalidate drops the cached field.
func (fc *FieldCache) Invalidate() {
	fc.mu.Lock()
	fc.field = nil
	fc.mu.Unlock()
}
