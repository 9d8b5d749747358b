// Grid generation using layered simplex noise.
// Samples elevation and moisture per tile, then derives the biome and yields.
package world

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenMode selects how biomes are derived from noise.
type GenMode uint8

const (
	GenLayered GenMode = iota // elevation + moisture
	GenSimple                 // elevation bands only
)

// GenConfig holds grid generation parameters.
type GenConfig struct {
	Radius    int     // Hex grid radius
	Seed      int64   // Random seed (0 = random)
	Mode      GenMode // Biome derivation mode
	Frequency float64 // Base noise frequency
	Octaves   int     // Noise layers summed per sample
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:    12,
		Seed:      0,
		Mode:      GenLayered,
		Frequency: 0.12,
		Octaves:   3,
	}
}

// SmallTestConfig returns a tiny grid for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:    4,
		Seed:      42,
		Mode:      GenLayered,
		Frequency: 0.12,
		Octaves:   3,
	}
}

// Generate creates a fully populated grid: every coordinate within the
// radius gets exactly one tile.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = RandomSeed()
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = DefaultGenConfig().Frequency
	}

	elevNoise := opensimplex.New(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	m := NewMap(cfg.Radius)
	m.Seed = seed

	// Spiral order keeps generation (and the RNG stream) deterministic.
	for _, coord := range Spiral(Origin, cfg.Radius) {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, cfg.Octaves, cfg.Frequency, 0.5)
		moist := octaveNoise(moistNoise, x+100, y+100, cfg.Octaves, cfg.Frequency, 0.5)

		var biome Biome
		switch cfg.Mode {
		case GenSimple:
			biome = BiomeFromElevation(elev)
		default:
			biome = BiomeFromElevationAndMoisture(elev, moist)
		}

		tile := &Tile{
			Coord:     coord,
			Biome:     biome,
			Elevation: elev,
			Moisture:  moist,
		}
		rollYields(tile, rng)
		m.Set(tile)
	}

	return m
}

// rollYields gives roughly one tile in ten some yields, and another one in
// ten yields plus deposits.
func rollYields(t *Tile, rng *rand.Rand) {
	switch roll := rng.Intn(100); {
	case roll <= 10:
		t.Food, t.Wood, t.Stone = rng.Intn(100), rng.Intn(100), rng.Intn(100)
	case roll <= 20:
		t.Food, t.Wood, t.Stone = rng.Intn(100), rng.Intn(100), rng.Intn(100)
		t.Resources = [2]Resource{ResourceFromRoll(rng.Intn(100)), ResourceFromRoll(rng.Intn(100))}
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// RandomSeed draws a non-zero seed from crypto/rand.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
