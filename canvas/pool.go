package canvas

import (
	"errors"
	"image"
	"sync"
)

var (
	// ErrSurfaceTooLarge is returned when a requested surface exceeds the
	// pool's pixel limit.
	ErrSurfaceTooLarge = errors.New("canvas: surface exceeds pool pixel limit")

	// ErrEmptySurface is returned for a request with no area.
	ErrEmptySurface = errors.New("canvas: surface has no area")
)

const (
	// DefaultMaxPixels bounds a pooled surface to 4096×4096.
	DefaultMaxPixels = 4096 * 4096

	// DefaultMaxPerSize is the number of idle surfaces kept per size.
	DefaultMaxPerSize = 4
)

// PoolStats reports surface pool activity.
type PoolStats struct {
	Acquired    int
	Reused      int
	Released    int
	Outstanding int
}

// SurfacePool hands out cleared offscreen surfaces and keeps released ones
// for reuse, bucketed by exact size.
// SurfacePool is safe for concurrent use.
type SurfacePool struct {
	mu         sync.Mutex
	idle       map[image.Point][]*Surface
	maxPixels  int
	maxPerSize int
	stats      PoolStats
}

// NewSurfacePool creates a pool. Non-positive limits select the defaults.
func NewSurfacePool(maxPixels, maxPerSize int) *SurfacePool {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if maxPerSize <= 0 {
		maxPerSize = DefaultMaxPerSize
	}
	return &SurfacePool{
		idle:       make(map[image.Point][]*Surface),
		maxPixels:  maxPixels,
		maxPerSize: maxPerSize,
	}
}

// Acquire returns a transparent surface of exactly width×height.
func (p *SurfacePool) Acquire(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptySurface
	}
	if width > p.maxPixels/height {
		return nil, ErrSurfaceTooLarge
	}

	key := image.Pt(width, height)
	p.mu.Lock()
	p.stats.Acquired++
	p.stats.Outstanding++
	if list := p.idle[key]; len(list) > 0 {
		s := list[len(list)-1]
		p.idle[key] = list[:len(list)-1]
		p.stats.Reused++
		p.mu.Unlock()
		s.Clear()
		return s, nil
	}
	p.mu.Unlock()
	return NewSurface(width, height), nil
}

// Release returns s to the pool. s must not be used afterwards.
func (p *SurfacePool) Release(s *Surface) {
	if s == nil {
		return
	}
	key := image.Pt(s.Width(), s.Height())
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Released++
	p.stats.Outstanding--
	if len(p.idle[key]) < p.maxPerSize {
		p.idle[key] = append(p.idle[key], s)
	}
}

// Stats returns a snapshot of pool counters.
func (p *SurfacePool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Drain drops all idle surfaces.
func (p *SurfacePool) Drain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.idle)
}
