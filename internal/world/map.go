package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Handle is the opaque external handle of a tile: the thing a presentation
// layer renders. Handles are minted per generation, so a handle from an
// earlier grid never resolves against a newer one.
type Handle uuid.UUID

func (h Handle) String() string {
	return uuid.UUID(h).String()
}

func (h Handle) MarshalText() ([]byte, error) {
	return uuid.UUID(h).MarshalText()
}

// NilHandle is the zero handle; it never belongs to a tile.
var NilHandle Handle

// Tile is the payload stored at each grid coordinate.
type Tile struct {
	Coord     HexCoord `json:"coord"`
	Biome     Biome    `json:"biome"`
	Elevation float64  `json:"elevation"`
	Moisture  float64  `json:"moisture"`

	// Yields and deposits; not read by movement rules.
	Food      int         `json:"food,omitempty"`
	Wood      int         `json:"wood,omitempty"`
	Stone     int         `json:"stone,omitempty"`
	Resources [2]Resource `json:"resources,omitempty"`
}

// Cost returns the tile's entry cost, or false if it is impassable.
func (t *Tile) Cost() (int, bool) {
	return t.Biome.Cost()
}

// Map holds one complete, immutable grid snapshot.
type Map struct {
	Tiles   map[HexCoord]*Tile  `json:"-"`
	Handles map[HexCoord]Handle `json:"-"`
	Radius  int                 `json:"radius"`
	Seed    int64               `json:"seed"`
	Version uint64              `json:"version"`

	coords map[Handle]HexCoord
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Tiles:   make(map[HexCoord]*Tile),
		Handles: make(map[HexCoord]Handle),
		Radius:  radius,
		coords:  make(map[Handle]HexCoord),
	}
}

// Get returns the tile at the given coordinate, or nil if absent.
func (m *Map) Get(coord HexCoord) *Tile {
	return m.Tiles[coord]
}

// Set places a tile at its coordinate and mints a handle for it.
// Only used while a snapshot is being built.
func (m *Map) Set(tile *Tile) {
	if _, exists := m.Tiles[tile.Coord]; !exists {
		h := Handle(uuid.New())
		m.Handles[tile.Coord] = h
		m.coords[h] = tile.Coord
	}
	m.Tiles[tile.Coord] = tile
}

// Contains reports whether the coordinate has a tile.
func (m *Map) Contains(coord HexCoord) bool {
	_, ok := m.Tiles[coord]
	return ok
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return coord.Length() <= m.Radius
}

// Cost returns the entry cost of the tile at coord. It is absent when the
// coordinate is outside the grid or the terrain is impassable.
func (m *Map) Cost(coord HexCoord) (int, bool) {
	t := m.Tiles[coord]
	if t == nil {
		return 0, false
	}
	return t.Cost()
}

// Handle returns the external handle of the tile at coord.
func (m *Map) Handle(coord HexCoord) (Handle, bool) {
	h, ok := m.Handles[coord]
	return h, ok
}

// Coord resolves a handle back to its coordinate in this snapshot.
func (m *Map) Coord(h Handle) (HexCoord, bool) {
	c, ok := m.coords[h]
	return c, ok
}

// HandlesOf converts coordinates to handles, skipping coordinates that are
// not part of the grid.
func (m *Map) HandlesOf(coords []HexCoord) []Handle {
	out := make([]Handle, 0, len(coords))
	for _, c := range coords {
		if h, ok := m.Handles[c]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Coords returns every coordinate in the grid, sorted by (q, r).
func (m *Map) Coords() []HexCoord {
	out := make([]HexCoord, 0, len(m.Tiles))
	for c := range m.Tiles {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// BiomeCounts returns a summary of the biome distribution.
func (m *Map) BiomeCounts() map[Biome]int {
	counts := make(map[Biome]int)
	for _, t := range m.Tiles {
		counts[t.Biome]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d, version=%d)", m.Radius, m.TileCount(), m.Version)
}

// SortCoords orders coordinates by q, then r.
func SortCoords(cs []HexCoord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Q != cs[j].Q {
			return cs[i].Q < cs[j].Q
		}
		return cs[i].R < cs[j].R
	})
}

// FromLayout builds a fully populated grid of the given radius where every
// tile has the fill biome except the listed overrides. Overrides outside the
// radius are ignored.
func FromLayout(radius int, fill Biome, overrides map[HexCoord]Biome) *Map {
	m := NewMap(radius)
	for _, c := range Spiral(Origin, radius) {
		b := fill
		if o, ok := overrides[c]; ok {
			b = o
		}
		m.Set(&Tile{Coord: c, Biome: b})
	}
	return m
}
