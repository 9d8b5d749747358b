package world

import (
	"fmt"
	"strings"
)

// Biome classifies a tile's terrain. Movement cost is a pure function of it.
type Biome uint8

const (
	BiomeMountain     Biome = iota // Impassable
	BiomePlains                    // Open ground, cheapest to cross
	BiomeForest                    // Slows movement
	BiomeDesert                    // Sand and dunes
	BiomeShallowWater              // Fordable
	BiomeDeepWater                 // Impassable
	BiomeSnow                      // Most expensive passable terrain
)

// Biomes lists every biome in declaration order.
var Biomes = []Biome{
	BiomeMountain,
	BiomePlains,
	BiomeForest,
	BiomeDesert,
	BiomeShallowWater,
	BiomeDeepWater,
	BiomeSnow,
}

var biomeNames = map[Biome]string{
	BiomeMountain:     "Mountain",
	BiomePlains:       "Plains",
	BiomeForest:       "Forest",
	BiomeDesert:       "Desert",
	BiomeShallowWater: "ShallowWater",
	BiomeDeepWater:    "DeepWater",
	BiomeSnow:         "Snow",
}

func (b Biome) String() string {
	if s, ok := biomeNames[b]; ok {
		return s
	}
	return "Unknown"
}

// ParseBiome resolves a biome by name, case-insensitively.
func ParseBiome(name string) (Biome, error) {
	for b, s := range biomeNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown biome %q", name)
}

// Cost returns the movement points needed to enter a tile of this biome.
// The second result is false for impassable biomes.
func (b Biome) Cost() (int, bool) {
	switch b {
	case BiomePlains:
		return 1, true
	case BiomeForest:
		return 2, true
	case BiomeDesert:
		return 3, true
	case BiomeShallowWater:
		return 4, true
	case BiomeSnow:
		return 6, true
	default:
		// Mountain, DeepWater and anything unrecognised.
		return 0, false
	}
}

// Passable reports whether the biome has a movement cost at all.
func (b Biome) Passable() bool {
	_, ok := b.Cost()
	return ok
}

// BiomeFromElevationAndMoisture derives a biome from two noise samples in
// [-1, 1] elevation and [0, 1] moisture.
func BiomeFromElevationAndMoisture(elevation, moisture float64) Biome {
	switch {
	case elevation < 0.0:
		switch {
		case moisture < 0.1:
			return BiomeDeepWater
		case moisture < 0.2:
			return BiomeShallowWater
		default:
			return BiomePlains
		}
	case elevation < 0.1:
		switch {
		case moisture < 0.33:
			return BiomeShallowWater
		case moisture < 0.66:
			return BiomePlains
		default:
			return BiomeForest
		}
	case elevation < 0.2:
		switch {
		case moisture < 0.16:
			return BiomeShallowWater
		case moisture < 0.33:
			return BiomePlains
		case moisture < 0.66:
			return BiomeForest
		default:
			return BiomeMountain
		}
	case elevation < 0.3:
		switch {
		case moisture < 0.16:
			return BiomePlains
		case moisture < 0.33:
			return BiomeForest
		default:
			return BiomeMountain
		}
	case elevation < 0.4:
		if moisture < 0.16 {
			return BiomeForest
		}
		return BiomeMountain
	default:
		return BiomeMountain
	}
}

// BiomeFromElevation is the single-layer variant: bands of elevation only.
func BiomeFromElevation(elevation float64) Biome {
	switch {
	case elevation < -0.5:
		return BiomeDeepWater
	case elevation < -0.25:
		return BiomeShallowWater
	case elevation < 0.1:
		return BiomePlains
	case elevation < 0.35:
		return BiomeForest
	case elevation < 0.5:
		return BiomeDesert
	case elevation < 0.7:
		return BiomeSnow
	default:
		return BiomeMountain
	}
}

// Resource is an optional special deposit on a tile.
type Resource uint8

const (
	ResourceNone Resource = iota
	ResourceIron
	ResourceGold
	ResourceHorses
	ResourceFish
	ResourceSpices
)

var resourceNames = [...]string{"None", "Iron", "Gold", "Horses", "Fish", "Spices"}

func (r Resource) String() string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "Unknown"
}

// ResourceFromRoll maps a roll in [0, 100) to a resource; most rolls yield none.
func ResourceFromRoll(roll int) Resource {
	switch {
	case roll < 10:
		return ResourceIron
	case roll < 15:
		return ResourceGold
	case roll < 25:
		return ResourceHorses
	case roll < 35:
		return ResourceFish
	case roll < 40:
		return ResourceSpices
	default:
		return ResourceNone
	}
}
