package game

import (
	"github.com/talgya/hex-tactics/internal/control"
	"github.com/talgya/hex-tactics/internal/turn"
	"github.com/talgya/hex-tactics/internal/world"
)

// View is a read-only snapshot for the presentation layer.
type View struct {
	MatchID      string                 `json:"match_id"`
	Phase        turn.Phase             `json:"phase"`
	Turn         int                    `json:"turn"`
	MaxTurns     int                    `json:"max_turns"`
	ActivePlayer int                    `json:"active_player"` // 0 in GameOver
	GameOver     bool                   `json:"game_over"`
	GridVersion  uint64                 `json:"grid_version"`
	Seed         int64                  `json:"seed"`
	Radius       int                    `json:"radius"`
	Selected     control.UnitID         `json:"selected,omitempty"`
	Selection    control.SelectionState `json:"selection"`
	Target       *world.HexCoord        `json:"target,omitempty"`
	Reachable    []world.Handle         `json:"reachable,omitempty"`
	Path         []world.Handle         `json:"path,omitempty"`
	PathCost     int                    `json:"path_cost"`
	Units        []control.Unit         `json:"units"`
}

// Snapshot returns the current view.
func (g *Game) Snapshot() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.grid.Current()
	v := View{
		MatchID:     g.id,
		Phase:       g.turns.Phase(),
		Turn:        g.turns.Turn(),
		MaxTurns:    g.turns.MaxTurns(),
		GameOver:    g.turns.IsGameOver(),
		GridVersion: g.grid.Version(),
		Seed:        m.Seed,
		Radius:      m.Radius,
		Units:       g.units.Units(),
	}
	v.ActivePlayer, _ = g.turns.ActivePlayer()

	if id, ok := g.units.Selected(); ok {
		v.Selected = id
		v.Selection = g.units.State(id)
		if t, ok := g.units.Target(id); ok {
			v.Target = &t
		}
		v.Reachable = g.units.ReachableHandles(id)
		v.Path = g.units.PathHandles(id)
		if p, ok := g.units.Path(id); ok {
			v.PathCost = p.Cost
		}
	}
	return v
}

// TileInfo describes one tile for inspection.
type TileInfo struct {
	Coord     world.HexCoord `json:"coord"`
	Handle    world.Handle   `json:"handle"`
	Biome     world.Biome    `json:"biome"`
	Cost      int            `json:"cost"`
	Passable  bool           `json:"passable"`
	Elevation float64        `json:"elevation"`
	Moisture  float64        `json:"moisture"`
	Food      int            `json:"food"`
	Wood      int            `json:"wood"`
	Stone     int            `json:"stone"`
	Resources []string       `json:"resources,omitempty"`
	Units     []control.Unit `json:"units,omitempty"`
}

// Inspect describes the tile at coord, or false if it is outside the grid.
func (g *Game) Inspect(coord world.HexCoord) (TileInfo, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m := g.grid.Current()
	t := m.Get(coord)
	if t == nil {
		return TileInfo{}, false
	}
	h, _ := m.Handle(coord)
	info := TileInfo{
		Coord:     coord,
		Handle:    h,
		Biome:     t.Biome,
		Elevation: t.Elevation,
		Moisture:  t.Moisture,
		Food:      t.Food,
		Wood:      t.Wood,
		Stone:     t.Stone,
		Units:     g.units.UnitsAt(coord),
	}
	info.Cost, info.Passable = t.Cost()
	for _, r := range t.Resources {
		if r != world.ResourceNone {
			info.Resources = append(info.Resources, r.String())
		}
	}
	return info, true
}
