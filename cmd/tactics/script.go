package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/talgya/hex-tactics/internal/control"
	"github.com/talgya/hex-tactics/internal/game"
	"github.com/talgya/hex-tactics/internal/journal"
	"github.com/talgya/hex-tactics/internal/movement"
	"github.com/talgya/hex-tactics/internal/world"
)

const scriptHelp = `commands:
  select <unit>              select a unit (name like p1-u1 or ID prefix)
  target <unit> <q,r>        set a move target
  commit <unit>              move along the computed path
  deselect <unit> [reason]   clear the selection
  budget <unit> <n>          set a unit's movement budget
  end [player]               end the active player's turn
  regen [seed]               regenerate the grid
  inspect <q,r>              describe a tile
  show                       print the board
  help                       this text`

func (a *app) playAction(ctx context.Context, cmd *cli.Command) error {
	var opts []game.Option
	if a.cfg.JournalPath != "" {
		db, err := journal.Open(a.cfg.JournalPath)
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, game.WithRecorder(db))
		slog.Info("journal opened", "path", a.cfg.JournalPath)
	}

	g, err := game.New(a.cfg, opts...)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if path := cmd.Args().Get(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	s := &session{g: g, out: os.Stdout}
	s.show()
	return s.run(ctx, in)
}

// session reads command lines and dispatches them to a game.
type session struct {
	g   *game.Game
	out io.Writer
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := s.exec(ctx, text); err != nil {
			fmt.Fprintf(s.out, "line %d: %v\n", line, err)
		}
		if s.g.Snapshot().GameOver {
			fmt.Fprintln(s.out, "game over")
			break
		}
	}
	return sc.Err()
}

// exec runs one script line. Errors are parse errors; rejected commands are
// printed as outcomes.
func (s *session) exec(ctx context.Context, text string) error {
	fields := strings.Fields(text)
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "help":
		fmt.Fprintln(s.out, scriptHelp)
		return nil
	case "show":
		s.show()
		return nil
	case "inspect":
		if len(args) != 1 {
			return fmt.Errorf("usage: inspect <q,r>")
		}
		c, err := parseCoord(args[0])
		if err != nil {
			return err
		}
		s.inspect(c)
		return nil
	}

	cmd, err := s.parse(verb, args)
	if err != nil {
		return err
	}
	s.report(s.g.Dispatch(ctx, cmd))
	return nil
}

func (s *session) parse(verb string, args []string) (game.Command, error) {
	switch verb {
	case "select", "commit", "deselect":
		if len(args) < 1 {
			return nil, fmt.Errorf("usage: %s <unit>", verb)
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return nil, err
		}
		switch verb {
		case "select":
			return game.Select{Unit: id}, nil
		case "commit":
			return game.Commit{Unit: id}, nil
		}
		return game.Deselect{Unit: id, Reason: strings.Join(args[1:], " ")}, nil

	case "target":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: target <unit> <q,r>")
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return nil, err
		}
		c, err := parseCoord(args[1])
		if err != nil {
			return nil, err
		}
		return game.SetTarget{Unit: id, Coord: c}, nil

	case "budget":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: budget <unit> <n>")
		}
		id, err := s.resolve(args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("budget %q: %w", args[1], err)
		}
		return game.SetBudget{Unit: id, Budget: n}, nil

	case "end":
		var player int
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("player %q: %w", args[0], err)
			}
			player = n
		}
		return game.EndTurn{Player: player}, nil

	case "regen":
		var seed int64
		if len(args) > 0 {
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("seed %q: %w", args[0], err)
			}
			seed = n
		}
		return game.Regenerate{Seed: seed}, nil
	}
	return nil, fmt.Errorf("unknown command %q (try help)", verb)
}

// resolve finds a unit by name or ID prefix.
func (s *session) resolve(ref string) (control.UnitID, error) {
	var match control.UnitID
	for _, u := range s.g.Snapshot().Units {
		if strings.EqualFold(u.Name, ref) {
			return u.ID, nil
		}
		if strings.HasPrefix(string(u.ID), ref) {
			if match != "" {
				return "", fmt.Errorf("unit %q is ambiguous", ref)
			}
			match = u.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no unit %q", ref)
	}
	return match, nil
}

func (s *session) report(out game.Outcome) {
	if !out.Applied {
		fmt.Fprintf(s.out, "%-10s rejected: %v\n", out.Kind, out.Err)
		return
	}
	fmt.Fprintf(s.out, "%-10s ok  %v, %s turn", out.Kind, out.Phase, humanize.Ordinal(out.Turn))
	if out.Selection != control.Idle {
		fmt.Fprintf(s.out, ", selection %v, %d reachable", out.Selection, len(out.Reachable))
	}
	if !out.Path.Empty() {
		fmt.Fprintf(s.out, ", path %s", describePath(out.Path))
	}
	fmt.Fprintln(s.out)
}

func describePath(p movement.Path) string {
	steps := make([]string, len(p.Steps))
	for i, c := range p.Steps {
		steps[i] = c.String()
	}
	desc := fmt.Sprintf("%s cost %d", strings.Join(steps, "->"), p.Cost)
	if p.Truncated {
		desc += " (truncated)"
	}
	return desc
}

func (s *session) show() {
	v := s.g.Snapshot()
	m := s.g.Map()

	status := fmt.Sprintf("%v, %s turn", v.Phase, humanize.Ordinal(v.Turn))
	if v.MaxTurns > 0 {
		status += fmt.Sprintf(" of %d", v.MaxTurns)
	}
	fmt.Fprintf(s.out, "match %s  grid v%d seed %d  %s\n", v.MatchID[:8], v.GridVersion, v.Seed, status)

	o := overlay{units: make(map[world.HexCoord]rune)}
	for _, u := range v.Units {
		o.units[u.Position] = rune('0' + u.Owner%10)
		moved := ""
		if u.HasMoved {
			moved = " moved"
		}
		marker := " "
		if u.ID == v.Selected {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %-6s p%d %-8v budget %d/%d%s\n", marker, u.Name, u.Owner, u.Position, u.Budget, u.MaxBudget, moved)
	}
	if v.Selected != "" {
		if f, ok := fieldOf(m, v); ok {
			o.reachable = f
		}
		if p, ok := pathOf(m, v); ok {
			o.path = p
		}
	}
	fmt.Fprint(s.out, render(m, o))
}

// fieldOf maps the view's reachable handles back to coordinates.
func fieldOf(m *world.Map, v game.View) (movement.Field, bool) {
	if len(v.Reachable) == 0 {
		return nil, false
	}
	f := make(movement.Field, len(v.Reachable))
	for _, h := range v.Reachable {
		if c, ok := m.Coord(h); ok {
			f[c] = 0
		}
	}
	return f, true
}

func pathOf(m *world.Map, v game.View) ([]world.HexCoord, bool) {
	if len(v.Path) == 0 {
		return nil, false
	}
	out := make([]world.HexCoord, 0, len(v.Path))
	for _, h := range v.Path {
		if c, ok := m.Coord(h); ok {
			out = append(out, c)
		}
	}
	return out, true
}

func (s *session) inspect(c world.HexCoord) {
	info, ok := s.g.Inspect(c)
	if !ok {
		fmt.Fprintf(s.out, "%v is outside the grid\n", c)
		return
	}
	cost := "impassable"
	if info.Passable {
		cost = fmt.Sprintf("cost %d", info.Cost)
	}
	fmt.Fprintf(s.out, "%v %s (%s) elevation %.2f moisture %.2f food %d wood %d stone %d\n",
		c, info.Biome, cost, info.Elevation, info.Moisture, info.Food, info.Wood, info.Stone)
	if len(info.Resources) > 0 {
		fmt.Fprintf(s.out, "  resources: %s\n", strings.Join(info.Resources, ", "))
	}
	for _, u := range info.Units {
		fmt.Fprintf(s.out, "  unit %s\n", u)
	}
}
