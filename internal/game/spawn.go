package game

import (
	"fmt"

	"github.com/talgya/hex-tactics/internal/control"
	"github.com/talgya/hex-tactics/internal/world"
)

// startPosition spreads players around the grid: player k of n stands half
// a radius out along one of the six hex directions.
func startPosition(k, n, radius int) world.HexCoord {
	dir := world.HexNeighborDirections[(k*6/n)%6]
	return world.Origin.Add(dir.Scale(radius / 2))
}

// spawnUnits places UnitsPerPlayer units for every player on the passable,
// unoccupied tiles nearest to that player's start position.
func (g *Game) spawnUnits() error {
	m := g.grid.Current()
	occupied := make(map[world.HexCoord]bool)

	for k := 0; k < g.cfg.Players; k++ {
		player := k + 1
		anchor := startPosition(k, g.cfg.Players, m.Radius)
		candidates := world.Spiral(anchor, 2*m.Radius)

		next := 0
		for i := 0; i < g.cfg.UnitsPerPlayer; i++ {
			placed := false
			for ; next < len(candidates); next++ {
				c := candidates[next]
				if occupied[c] {
					continue
				}
				if _, ok := m.Cost(c); !ok {
					continue
				}
				u := &control.Unit{
					Owner:     player,
					Name:      fmt.Sprintf("p%d-u%d", player, i+1),
					Position:  c,
					MaxBudget: g.cfg.MovementBudget,
				}
				if err := g.units.AddUnit(u); err != nil {
					return err
				}
				occupied[c] = true
				placed = true
				next++
				break
			}
			if !placed {
				return fmt.Errorf("%w: player %d unit %d", ErrNoSpawn, player, i+1)
			}
		}
	}
	return nil
}
