package world

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Provider owns the current grid snapshot. Readers always observe a fully
// built snapshot: a regeneration builds the new map off to the side and
// publishes it with a single atomic store.
type Provider struct {
	cfg     GenConfig
	current atomic.Pointer[Map]

	// Serialises writers; readers never take it.
	mu      sync.Mutex
	version uint64
}

// NewProvider generates the initial grid from cfg.
func NewProvider(cfg GenConfig) *Provider {
	p := &Provider{cfg: cfg}
	p.publish(Generate(cfg))
	return p
}

// NewStaticProvider wraps an already built map, e.g. from FromLayout. The
// caller's map is left untouched; the provider publishes its own copy.
func NewStaticProvider(m *Map) *Provider {
	p := &Provider{cfg: GenConfig{Radius: m.Radius, Seed: m.Seed}}
	p.publish(m)
	return p
}

// Current returns the published snapshot.
func (p *Provider) Current() *Map {
	return p.current.Load()
}

// Version returns the version of the published snapshot.
func (p *Provider) Version() uint64 {
	return p.Current().Version
}

// Regenerate builds a new grid and swaps it in. A zero seed draws a fresh
// random seed; otherwise the given seed is used.
func (p *Provider) Regenerate(seed int64) *Map {
	cfg := p.cfg
	cfg.Seed = seed
	m := p.publish(Generate(cfg))
	slog.Info("grid regenerated", "seed", m.Seed, "version", m.Version, "tiles", m.TileCount())
	return m
}

// Replace publishes a copy of a caller-built map as the new snapshot and
// returns the published copy.
func (p *Provider) Replace(m *Map) *Map {
	return p.publish(m)
}

// publish stores a shallow copy of m stamped with the next version. Tiles
// and handle tables are shared; snapshots never mutate them.
func (p *Provider) publish(m *Map) *Map {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.version++
	snap := *m
	snap.Version = p.version
	p.current.Store(&snap)
	return &snap
}
