// Package game is the application boundary: it owns the grid, the turn
// machine and the unit controller, and applies commands one at a time.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hex-tactics/internal/config"
	"github.com/talgya/hex-tactics/internal/control"
	"github.com/talgya/hex-tactics/internal/journal"
	"github.com/talgya/hex-tactics/internal/movement"
	"github.com/talgya/hex-tactics/internal/turn"
	"github.com/talgya/hex-tactics/internal/world"
)

// Outcome reports what a command did.
type Outcome struct {
	Kind       string
	Applied    bool
	Err        error
	Phase      turn.Phase
	Turn       int
	Selection  control.SelectionState
	Path       movement.Path
	Reachable  []world.Handle
	Transition *turn.Transition // set for end_turn
}

// Game holds one match.
type Game struct {
	mu sync.Mutex

	id    string
	cfg   config.Match
	grid  *world.Provider
	turns *turn.Machine
	units *control.Controller

	journal journal.Recorder
	log     *slog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithRecorder journals every applied command to r.
func WithRecorder(r journal.Recorder) Option {
	return func(g *Game) { g.journal = r }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithGrid plays on a prebuilt map instead of a generated one.
func WithGrid(m *world.Map) Option {
	return func(g *Game) { g.grid = world.NewStaticProvider(m) }
}

// New builds the grid, places every player's units and starts the first
// turn.
func New(cfg config.Match, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	maxTurns, err := cfg.MaxTurnCount()
	if err != nil {
		return nil, err
	}

	g := &Game{
		id:  uuid.New().String(),
		cfg: cfg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.grid == nil {
		g.grid = world.NewProvider(cfg.GenConfig())
	}

	g.turns, err = turn.New(cfg.Players, maxTurns)
	if err != nil {
		return nil, err
	}
	g.units = control.New(g.grid, control.WithKeepSelected(cfg.KeepSelectedAfterMove))
	if err := g.spawnUnits(); err != nil {
		return nil, err
	}

	g.turns.OnTurnStart(func(player, n int) {
		g.units.ResetMoves(player)
		g.log.Info("turn started", "player", player, "turn", humanize.Ordinal(n))
	})

	m := g.grid.Current()
	if g.journal != nil {
		err := g.journal.StartMatch(journal.Match{
			ID:       g.id,
			Seed:     m.Seed,
			Radius:   m.Radius,
			Players:  cfg.Players,
			MaxTurns: maxTurns,
		})
		if err != nil {
			g.log.Warn("journal unavailable", "error", err)
			g.journal = nil
		}
	}

	g.log.Info("match created",
		"match", g.id,
		"seed", m.Seed,
		"tiles", humanize.Comma(int64(m.TileCount())),
		"players", cfg.Players,
		"units", len(g.units.Units()),
	)
	g.turns.Start()
	return g, nil
}

// ID returns the match ID.
func (g *Game) ID() string {
	return g.id
}

// Map returns the current grid snapshot.
func (g *Game) Map() *world.Map {
	return g.grid.Current()
}

// Dispatch applies one command to completion. A rejected command leaves the
// game unchanged and reports why in Outcome.Err.
func (g *Game) Dispatch(ctx context.Context, cmd Command) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Kind: cmd.Kind(), Err: err}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := Outcome{Kind: cmd.Kind()}
	var ev journal.Event

	switch c := cmd.(type) {
	case Select:
		out.Err = g.unitCommand(c.Unit, false)
		if out.Err == nil {
			out.Err = g.units.Select(c.Unit)
		}
		ev.UnitID = string(c.Unit)

	case SetTarget:
		out.Err = g.unitCommand(c.Unit, true)
		if out.Err == nil {
			var res control.Result
			res, out.Err = g.units.SetTarget(c.Unit, c.Coord)
			ev.Detail = journal.Detail(pathDetail(res.Path))
		}
		ev.UnitID = string(c.Unit)
		ev.At(c.Coord.Q, c.Coord.R)

	case Commit:
		out.Err = g.unitCommand(c.Unit, true)
		if out.Err == nil {
			var res control.Result
			res, out.Err = g.units.Commit(c.Unit)
			if end, ok := res.Path.End(); ok {
				ev.At(end.Q, end.R)
			}
			ev.Detail = journal.Detail(pathDetail(res.Path))
			out.Path = res.Path
		}
		ev.UnitID = string(c.Unit)

	case Deselect:
		reason := c.Reason
		if reason == "" {
			reason = "requested"
		}
		out.Err = g.units.Deselect(c.Unit, reason)
		ev.UnitID = string(c.Unit)
		ev.Detail = journal.Detail(map[string]string{"reason": reason})

	case SetBudget:
		out.Err = g.unitCommand(c.Unit, false)
		if out.Err == nil {
			out.Err = g.units.SetBudget(c.Unit, c.Budget)
		}
		ev.UnitID = string(c.Unit)
		ev.Detail = journal.Detail(map[string]int{"budget": c.Budget})

	case EndTurn:
		var tr turn.Transition
		tr, out.Err = g.endTurn(c.Player)
		out.Transition = &tr
		ev.Detail = journal.Detail(map[string]any{
			"from":    tr.From.String(),
			"to":      tr.To.String(),
			"wrapped": tr.Wrapped,
		})

	case Regenerate:
		m := g.grid.Regenerate(c.Seed)
		g.units.InvalidateGrid()
		ev.Detail = journal.Detail(map[string]any{
			"seed":    m.Seed,
			"version": m.Version,
			"biomes":  biomeSummary(m),
		})

	default:
		out.Err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	out.Applied = out.Err == nil
	g.fill(&out)

	if out.Applied {
		g.log.Info("command applied", "command", out.Kind, "phase", out.Phase, "turn", out.Turn, "selection", out.Selection)
		g.record(ev, out)
	} else {
		g.log.Debug("command rejected", "command", out.Kind, "error", out.Err)
	}
	return out
}

// unitCommand checks that a unit command may run now. Moves are reserved for
// the active player's own units.
func (g *Game) unitCommand(id control.UnitID, move bool) error {
	if g.turns.IsGameOver() {
		return ErrGameOver
	}
	u, ok := g.units.Unit(id)
	if !ok {
		return fmt.Errorf("%w: %s", control.ErrUnknownUnit, id)
	}
	if !move {
		return nil
	}
	if active, _ := g.turns.ActivePlayer(); u.Owner != active {
		return fmt.Errorf("%w: unit belongs to player %d", ErrNotYourTurn, u.Owner)
	}
	return nil
}

func (g *Game) endTurn(player int) (turn.Transition, error) {
	active, ok := g.turns.ActivePlayer()
	if !ok {
		return g.turns.EndTurn(), ErrGameOver
	}
	if player != 0 && player != active {
		return g.turns.EndTurnFor(player), fmt.Errorf("%w: player %d is active", ErrNotYourTurn, active)
	}
	if id, ok := g.units.Selected(); ok {
		if err := g.units.Deselect(id, "turn ended"); err != nil {
			g.log.Debug("deselect at turn end failed", "unit", id.Short(), "error", err)
		}
	}
	return g.turns.EndTurn(), nil
}

// fill copies the current phase and selection into out.
func (g *Game) fill(out *Outcome) {
	out.Phase = g.turns.Phase()
	out.Turn = g.turns.Turn()
	id, ok := g.units.Selected()
	if !ok {
		return
	}
	out.Selection = g.units.State(id)
	if p, ok := g.units.Path(id); ok {
		out.Path = p
	}
	out.Reachable = g.units.ReachableHandles(id)
}

func (g *Game) record(ev journal.Event, out Outcome) {
	if g.journal == nil {
		return
	}
	ev.MatchID = g.id
	ev.Kind = out.Kind
	ev.Turn = out.Turn
	ev.Phase = out.Phase.String()
	if _, err := g.journal.Append(ev); err != nil {
		g.log.Warn("journal append failed", "command", out.Kind, "error", err)
	}
}

func pathDetail(p movement.Path) map[string]any {
	return map[string]any{
		"steps":     p.Len(),
		"cost":      p.Cost,
		"truncated": p.Truncated,
	}
}

func biomeSummary(m *world.Map) map[string]int {
	out := make(map[string]int)
	for b, n := range m.BiomeCounts() {
		out[b.String()] = n
	}
	return out
}
