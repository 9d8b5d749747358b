package world

import "testing"

func TestBiomeCost(t *testing.T) {
	tests := []struct {
		biome    Biome
		cost     int
		passable bool
	}{
		{BiomeMountain, 0, false},
		{BiomePlains, 1, true},
		{BiomeForest, 2, true},
		{BiomeDesert, 3, true},
		{BiomeShallowWater, 4, true},
		{BiomeDeepWater, 0, false},
		{BiomeSnow, 6, true},
	}
	for _, tc := range tests {
		t.Run(tc.biome.String(), func(t *testing.T) {
			cost, ok := tc.biome.Cost()
			if ok != tc.passable {
				t.Fatalf("Cost() ok = %v, want %v", ok, tc.passable)
			}
			if ok && cost != tc.cost {
				t.Errorf("Cost() = %d, want %d", cost, tc.cost)
			}
			if ok && cost < 1 {
				t.Errorf("passable cost must be >= 1, got %d", cost)
			}
		})
	}
}

func TestParseBiome(t *testing.T) {
	b, err := ParseBiome("shallowwater")
	if err != nil {
		t.Fatalf("ParseBiome: %v", err)
	}
	if b != BiomeShallowWater {
		t.Errorf("got %v, want ShallowWater", b)
	}
	if _, err := ParseBiome("lava"); err == nil {
		t.Error("expected error for unknown biome")
	}
}

func TestMapCostOutsideGrid(t *testing.T) {
	m := FromLayout(2, BiomePlains, nil)

	if _, ok := m.Cost(HexCoord{Q: 3, R: 0}); ok {
		t.Error("coordinate outside the radius must have no cost")
	}
	if cost, ok := m.Cost(HexCoord{Q: 1, R: 1}); !ok || cost != 1 {
		t.Errorf("Cost((1,1)) = %d, %v, want 1, true", cost, ok)
	}
}

func TestFromLayoutPopulatesEveryCoordinate(t *testing.T) {
	m := FromLayout(3, BiomePlains, map[HexCoord]Biome{
		{Q: 1, R: 0}: BiomeMountain,
		{Q: 9, R: 9}: BiomeSnow, // outside, ignored
	})

	if m.TileCount() != 37 {
		t.Fatalf("TileCount() = %d, want 37", m.TileCount())
	}
	if m.Get(HexCoord{Q: 1, R: 0}).Biome != BiomeMountain {
		t.Error("override not applied")
	}
	if m.Contains(HexCoord{Q: 9, R: 9}) {
		t.Error("override outside radius should not create a tile")
	}
	for _, c := range m.Coords() {
		if !m.InBounds(c) {
			t.Errorf("%v outside radius", c)
		}
	}
}

func TestHandlesRoundTrip(t *testing.T) {
	m := FromLayout(2, BiomeForest, nil)
	seen := make(map[Handle]bool)
	for _, c := range m.Coords() {
		h, ok := m.Handle(c)
		if !ok || h == NilHandle {
			t.Fatalf("missing handle for %v", c)
		}
		if seen[h] {
			t.Fatalf("duplicate handle %v", h)
		}
		seen[h] = true
		back, ok := m.Coord(h)
		if !ok || back != c {
			t.Errorf("Coord(Handle(%v)) = %v, %v", c, back, ok)
		}
	}

	got := m.HandlesOf([]HexCoord{{Q: 0, R: 0}, {Q: 5, R: 5}})
	if len(got) != 1 {
		t.Errorf("HandlesOf should skip absent coordinates, got %d handles", len(got))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	if a.TileCount() != 61 {
		t.Fatalf("radius 4 grid should have 61 tiles, got %d", a.TileCount())
	}
	for _, c := range a.Coords() {
		ta, tb := a.Get(c), b.Get(c)
		if tb == nil || ta.Biome != tb.Biome || ta.Food != tb.Food {
			t.Fatalf("tile %v differs between runs with the same seed", c)
		}
		if !a.InBounds(c) {
			t.Errorf("%v generated outside radius", c)
		}
	}

	// Handles are minted per generation.
	ha, _ := a.Handle(Origin)
	hb, _ := b.Handle(Origin)
	if ha == hb {
		t.Error("two generations should not share handles")
	}
}

func TestGenerateSimpleMode(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Mode = GenSimple
	m := Generate(cfg)
	total := 0
	for _, n := range m.BiomeCounts() {
		total += n
	}
	if total != m.TileCount() {
		t.Errorf("biome counts sum to %d, want %d", total, m.TileCount())
	}
}

func TestProviderRegenerate(t *testing.T) {
	p := NewProvider(SmallTestConfig())
	first := p.Current()
	if first.Version != 1 {
		t.Fatalf("initial version = %d, want 1", first.Version)
	}

	second := p.Regenerate(7)
	if p.Current() != second {
		t.Error("Current() should return the regenerated map")
	}
	if second.Version != 2 {
		t.Errorf("version after regenerate = %d, want 2", second.Version)
	}
	if second.Seed != 7 {
		t.Errorf("seed = %d, want 7", second.Seed)
	}
	if first.TileCount() != second.TileCount() {
		t.Error("regeneration must keep the radius")
	}

	h, _ := first.Handle(Origin)
	if _, ok := second.Coord(h); ok {
		t.Error("handle from the old grid resolved against the new grid")
	}
}

func TestProviderLeavesCallerMapUntouched(t *testing.T) {
	m := FromLayout(2, BiomePlains, nil)
	p := NewStaticProvider(m)
	if m.Version != 0 {
		t.Errorf("caller map version = %d after NewStaticProvider, want 0", m.Version)
	}
	if p.Version() != 1 || p.Current() == m {
		t.Errorf("provider should publish its own copy at version 1, got %d", p.Version())
	}

	next := FromLayout(2, BiomeForest, nil)
	published := p.Replace(next)
	if next.Version != 0 {
		t.Errorf("caller map version = %d after Replace, want 0", next.Version)
	}
	if published.Version != 2 || p.Current() != published {
		t.Errorf("Replace published version %d, want 2", published.Version)
	}
	if c, _ := published.Cost(Origin); c != 2 {
		t.Errorf("published copy cost = %d, want forest 2", c)
	}
}

func TestGenerateRandomSeed(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 0
	m := Generate(cfg)
	if m.Seed == 0 {
		t.Error("a zero seed should be replaced by a random one")
	}
	if RandomSeed() <= 0 {
		t.Error("RandomSeed must be positive")
	}
}
