package movement

import (
	"math"

	"github.com/talgya/hex-tactics/internal/world"
)

// unbounded disables the budget check in search.
const unbounded = -1

// Path is an ordered route from a unit's position. Steps[0] is the start.
type Path struct {
	Steps     []world.HexCoord `json:"steps"`
	Cost      int              `json:"cost"`
	Truncated bool             `json:"truncated,omitempty"`
}

// Len returns the number of coordinates in the path, start included.
func (p Path) Len() int {
	return len(p.Steps)
}

// Empty reports whether the path has no steps.
func (p Path) Empty() bool {
	return len(p.Steps) == 0
}

// End returns the last coordinate of the path.
func (p Path) End() (world.HexCoord, bool) {
	if len(p.Steps) == 0 {
		return world.HexCoord{}, false
	}
	return p.Steps[len(p.Steps)-1], true
}

// PathCost sums the entry cost of every step after the first. It is false if
// any step is impassable or two consecutive steps are not adjacent.
func PathCost(steps []world.HexCoord, cost CostFunc) (int, bool) {
	total := 0
	for i := 1; i < len(steps); i++ {
		if world.Distance(steps[i-1], steps[i]) != 1 {
			return 0, false
		}
		c, ok := cost(steps[i])
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}

// FindPath returns the cheapest route from start to goal whose cost fits in
// budget. When no such route exists it falls back to the best-effort route
// toward goal, cut at the last coordinate on it that belongs to field. A nil
// field is computed from (start, budget).
//
// The result is false when no move is possible: the goal is passable but
// cannot be reached at all, or the fallback route makes no progress within
// the budget.
func FindPath(start, goal world.HexCoord, cost CostFunc, budget int, field Field) (Path, bool) {
	if start == goal {
		return Path{Steps: []world.HexCoord{start}}, true
	}
	if budget < 0 {
		budget = 0
	}

	if steps, total, ok := search(start, goal, cost, budget); ok {
		return Path{Steps: steps, Cost: total}, true
	}

	var route []world.HexCoord
	if _, passable := cost(goal); passable {
		steps, _, ok := search(start, goal, cost, unbounded)
		if !ok {
			return Path{}, false
		}
		route = steps
	} else {
		route = toward(start, goal, cost)
	}

	if field == nil {
		field = Reachable(start, budget, cost)
	}
	cut := 0
	for i := len(route) - 1; i > 0; i-- {
		if field.Contains(route[i]) {
			cut = i
			break
		}
	}
	if cut == 0 {
		return Path{}, false
	}

	steps := route[:cut+1]
	total, ok := PathCost(steps, cost)
	if !ok || total > budget {
		// The route wandered out of the field before the cut point.
		steps, total, ok = search(start, route[cut], cost, budget)
		if !ok {
			return Path{}, false
		}
	}
	return Path{Steps: steps, Cost: total, Truncated: true}, true
}

// search is A* with the hex distance heuristic. Every passable entry costs at
// least 1, so the heuristic is consistent and closed nodes carry optimal
// cost. A non-negative limit rejects expansions whose cumulative cost would
// exceed it. The search gives up after settling searchLimit coordinates.
func search(start, goal world.HexCoord, cost CostFunc, limit int) ([]world.HexCoord, int, bool) {
	g := map[world.HexCoord]int{start: 0}
	from := make(map[world.HexCoord]world.HexCoord)
	closed := make(map[world.HexCoord]bool)

	var q queue
	q.push(start, 0, world.Distance(start, goal))

	for !q.empty() {
		cur := q.pop()
		if closed[cur.coord] {
			continue
		}
		if cur.coord == goal {
			return trace(from, start, goal), cur.cost, true
		}
		if len(closed) >= searchLimit {
			break
		}
		closed[cur.coord] = true

		for _, n := range cur.coord.Neighbors() {
			if closed[n] {
				continue
			}
			step, ok := cost(n)
			if !ok {
				continue
			}
			acc := cur.cost + step
			if limit != unbounded && acc > limit {
				continue
			}
			if prev, seen := g[n]; seen && prev <= acc {
				continue
			}
			g[n] = acc
			from[n] = cur.coord
			q.push(n, acc, acc+world.Distance(n, goal))
		}
	}
	return nil, 0, false
}

// toward explores the coordinates reachable from start, up to searchLimit of
// them, and returns the cheapest route to the one closest to goal. It serves
// goals that can never be entered themselves; ties go to lower cost, then
// (q, r) order.
func toward(start, goal world.HexCoord, cost CostFunc) []world.HexCoord {
	best := reachable(start, math.MaxInt, cost, searchLimit)

	target := start
	for c, acc := range best {
		if closer(c, acc, target, best[target], goal) {
			target = c
		}
	}
	steps, _, ok := search(start, target, cost, unbounded)
	if !ok {
		return []world.HexCoord{start}
	}
	return steps
}

func closer(a world.HexCoord, costA int, b world.HexCoord, costB int, goal world.HexCoord) bool {
	da, db := world.Distance(a, goal), world.Distance(b, goal)
	if da != db {
		return da < db
	}
	if costA != costB {
		return costA < costB
	}
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}

func trace(from map[world.HexCoord]world.HexCoord, start, goal world.HexCoord) []world.HexCoord {
	var rev []world.HexCoord
	for c := goal; c != start; c = from[c] {
		rev = append(rev, c)
	}
	rev = append(rev, start)

	steps := make([]world.HexCoord, len(rev))
	for i, c := range rev {
		steps[len(rev)-1-i] = c
	}
	return steps
}
