// Command tactics runs the hex-grid movement and turn engine from the
// terminal: grid summaries, reachability and path queries, and scripted
// matches.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/talgya/hex-tactics/internal/config"
	"github.com/talgya/hex-tactics/internal/movement"
	"github.com/talgya/hex-tactics/internal/world"
)

// app carries the resolved configuration from Before into the actions.
type app struct {
	cfg config.Match
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	a := &app{}
	cmd := &cli.Command{
		Name:  "tactics",
		Usage: "hex-grid tactical movement and turn engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "match config JSON file"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "environment file loaded before TACTICS_* overrides"},
			&cli.Int64Flag{Name: "seed", Usage: "grid seed (0 = random)"},
			&cli.IntFlag{Name: "radius", Usage: "grid radius"},
			&cli.StringFlag{Name: "journal", Usage: "SQLite journal path for play"},
			&cli.BoolFlag{Name: "debug", Usage: "debug logging"},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:  "map",
				Usage: "generate a grid and print it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "biome", Usage: "highlight every tile of this biome"},
				},
				Action: a.mapAction,
			},
			{
				Name:  "reach",
				Usage: "print the field of movement from a tile",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "q"},
					&cli.IntFlag{Name: "r"},
					&cli.IntFlag{Name: "budget", Value: 4},
				},
				Action: a.reachAction,
			},
			{
				Name:  "path",
				Usage: "find a path between two tiles",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Value: "0,0", Usage: "start tile as q,r"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "goal tile as q,r"},
					&cli.IntFlag{Name: "budget", Value: 4},
				},
				Action: a.pathAction,
			},
			{
				Name:      "play",
				Usage:     "play a match from a command script (stdin if omitted)",
				ArgsUsage: "[script]",
				Action:    a.playAction,
			},
			{
				Name:      "journal",
				Usage:     "list journaled matches, or the events of one match",
				ArgsUsage: "[match-id]",
				Action:    a.journalAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("tactics failed", "error", err)
		os.Exit(1)
	}
}

// setup resolves the config: defaults, then the JSON file, then .env and
// TACTICS_* variables, then flags.
func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := config.LoadEnvFile(cmd.String("env-file")); err != nil {
		return ctx, err
	}

	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return ctx, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return ctx, err
	}
	if cmd.IsSet("seed") {
		cfg.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("radius") {
		cfg.Radius = cmd.Int("radius")
	}
	if cmd.IsSet("journal") {
		cfg.JournalPath = cmd.String("journal")
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	a.cfg = cfg
	return ctx, nil
}

func (a *app) mapAction(ctx context.Context, cmd *cli.Command) error {
	m := world.Generate(a.cfg.GenConfig())
	printSummary(m)
	fmt.Println()

	var o overlay
	if name := cmd.String("biome"); name != "" {
		f, err := biomeField(m, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s tiles marked +\n", humanize.Comma(int64(f.Len())), name)
		o.reachable = f
	}
	fmt.Print(render(m, o))
	return nil
}

func (a *app) reachAction(ctx context.Context, cmd *cli.Command) error {
	m := world.Generate(a.cfg.GenConfig())
	origin := world.HexCoord{Q: cmd.Int("q"), R: cmd.Int("r")}
	if !m.Contains(origin) {
		return fmt.Errorf("%v is outside the grid (radius %d)", origin, m.Radius)
	}
	budget := cmd.Int("budget")

	field := movement.Reachable(origin, budget, m.Cost)
	fmt.Printf("%s tiles reachable from %v with budget %d\n", humanize.Comma(int64(field.Len())), origin, budget)
	for _, c := range field.Coords() {
		fmt.Printf("  %-8v cost %d  %s\n", c, field[c], m.Get(c).Biome)
	}
	fmt.Println()
	fmt.Print(render(m, overlay{reachable: field, origin: &origin}))
	return nil
}

func (a *app) pathAction(ctx context.Context, cmd *cli.Command) error {
	from, err := parseCoord(cmd.String("from"))
	if err != nil {
		return err
	}
	to, err := parseCoord(cmd.String("to"))
	if err != nil {
		return err
	}
	m := world.Generate(a.cfg.GenConfig())
	if !m.Contains(from) {
		return fmt.Errorf("%v is outside the grid (radius %d)", from, m.Radius)
	}
	budget := cmd.Int("budget")

	field := movement.Reachable(from, budget, m.Cost)
	p, ok := movement.FindPath(from, to, m.Cost, budget, field)
	if !ok {
		fmt.Printf("no move from %v toward %v with budget %d\n", from, to, budget)
		return nil
	}
	kind := "path"
	if p.Truncated {
		kind = "fallback path (truncated)"
	}
	fmt.Printf("%s from %v to %v: %d steps, cost %d of %d\n", kind, from, to, p.Len()-1, p.Cost, budget)
	for i, c := range p.Steps {
		fmt.Printf("  %2d %v %s\n", i, c, m.Get(c).Biome)
	}
	fmt.Println()
	fmt.Print(render(m, overlay{reachable: field, path: p.Steps, origin: &from}))
	return nil
}

func printSummary(m *world.Map) {
	fmt.Printf("grid radius %d, seed %d, %s tiles\n", m.Radius, m.Seed, humanize.Comma(int64(m.TileCount())))

	counts := m.BiomeCounts()
	biomes := make([]world.Biome, 0, len(counts))
	for b := range counts {
		biomes = append(biomes, b)
	}
	sort.Slice(biomes, func(i, j int) bool { return counts[biomes[i]] > counts[biomes[j]] })
	for _, b := range biomes {
		cost := "impassable"
		if c, ok := b.Cost(); ok {
			cost = fmt.Sprintf("cost %d", c)
		}
		fmt.Printf("  %c %-13s %5s  %s\n", biomeGlyph(b), b, humanize.Comma(int64(counts[b])), cost)
	}
}
