package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/hex-tactics/internal/movement"
	"github.com/talgya/hex-tactics/internal/world"
)

// overlay marks tiles on top of the terrain. Later fields win: units over
// origin over path over reachable.
type overlay struct {
	reachable movement.Field
	path      []world.HexCoord
	origin    *world.HexCoord
	units     map[world.HexCoord]rune
}

var biomeGlyphs = map[world.Biome]rune{
	world.BiomeMountain:     '^',
	world.BiomePlains:       '.',
	world.BiomeForest:       'f',
	world.BiomeDesert:       'd',
	world.BiomeShallowWater: '~',
	world.BiomeDeepWater:    '=',
	world.BiomeSnow:         '*',
}

func biomeGlyph(b world.Biome) rune {
	if g, ok := biomeGlyphs[b]; ok {
		return g
	}
	return '?'
}

// render draws the grid as offset text rows, one row per r. A tile at (q, r)
// sits in column 2q + r + 2*radius.
func render(m *world.Map, o overlay) string {
	rad := m.Radius
	width := 4*rad + 1

	onPath := make(map[world.HexCoord]bool, len(o.path))
	for _, c := range o.path {
		onPath[c] = true
	}

	var sb strings.Builder
	for r := -rad; r <= rad; r++ {
		row := []rune(strings.Repeat(" ", width))
		for q := max(-rad, -r-rad); q <= min(rad, -r+rad); q++ {
			c := world.HexCoord{Q: q, R: r}
			t := m.Get(c)
			if t == nil {
				continue
			}
			glyph := biomeGlyph(t.Biome)
			if o.reachable.Contains(c) {
				glyph = '+'
			}
			if onPath[c] {
				glyph = 'o'
			}
			if o.origin != nil && *o.origin == c {
				glyph = '@'
			}
			if u, ok := o.units[c]; ok {
				glyph = u
			}
			row[2*q+r+2*rad] = glyph
		}
		fmt.Fprintf(&sb, "%4d  %s\n", r, strings.TrimRight(string(row), " "))
	}
	return sb.String()
}

// biomeField marks every tile of the named biome.
func biomeField(m *world.Map, name string) (movement.Field, error) {
	b, err := world.ParseBiome(name)
	if err != nil {
		return nil, err
	}
	f := make(movement.Field)
	for c, t := range m.Tiles {
		if t.Biome == b {
			f[c] = 0
		}
	}
	return f, nil
}

// parseCoord reads "q,r".
func parseCoord(s string) (world.HexCoord, error) {
	qs, rs, ok := strings.Cut(strings.Trim(strings.TrimSpace(s), "()"), ",")
	if !ok {
		return world.HexCoord{}, fmt.Errorf("coordinate %q: want q,r", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return world.HexCoord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return world.HexCoord{Q: q, R: r}, nil
}
