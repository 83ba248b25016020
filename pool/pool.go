package pool

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/assert"
	"github.com/oomph-ac/ricochet/bullet"
	"github.com/sasha-s/go-deadlock"
)

// Stats tracks the usage of a single pool tag.
type Stats struct {
	Recycled     int64
	Reused       int64
	Replacements int64
	// Misses counts replacement requests for a tag without a factory.
	Misses int64
}

// Pool keeps removed bullets for reuse and builds replacement objects by tag. It implements bullet.Pool
// and is safe for concurrent use.
type Pool struct {
	mu        deadlock.Mutex
	free      map[string][]*bullet.Bullet
	factories map[string]func() bullet.Replacement
	stats     map[string]*Stats
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{
		free:      make(map[string][]*bullet.Bullet),
		factories: make(map[string]func() bullet.Replacement),
		stats:     make(map[string]*Stats),
	}
}

// RegisterReplacement sets the factory used for replacements requested under tag.
func (p *Pool) RegisterReplacement(tag string, f func() bullet.Replacement) {
	assert.IsTrue(tag != "" && f != nil, "replacement factory requires a tag and a function")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories[tag] = f
}

// Recycle stores a removed bullet under tag.
func (p *Pool) Recycle(tag string, b *bullet.Bullet) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.free[tag] = append(p.free[tag], b)
	p.statsFor(tag).Recycled++
}

// Get returns a recycled bullet stored under tag, if there is one. The bullet must be launched again
// before use.
func (p *Pool) Get(tag string) (*bullet.Bullet, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	free := p.free[tag]
	if len(free) == 0 {
		return nil, false
	}
	b := free[len(free)-1]
	free[len(free)-1] = nil
	p.free[tag] = free[:len(free)-1]
	p.statsFor(tag).Reused++
	return b, true
}

// AcquireReplacement builds a replacement object using the factory registered under tag.
func (p *Pool) AcquireReplacement(tag string) (bullet.Replacement, bool) {
	p.mu.Lock()
	f, ok := p.factories[tag]
	if !ok {
		p.statsFor(tag).Misses++
		p.mu.Unlock()
		return nil, false
	}
	p.statsFor(tag).Replacements++
	p.mu.Unlock()

	return f(), true
}

// Free returns the amount of bullets waiting for reuse under tag.
func (p *Pool) Free(tag string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[tag])
}

// Stats returns a copy of the usage statistics of tag.
func (p *Pool) Stats(tag string) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stats[tag]; ok {
		return *s
	}
	return Stats{}
}

func (p *Pool) statsFor(tag string) *Stats {
	s, ok := p.stats[tag]
	if !ok {
		s = &Stats{}
		p.stats[tag] = s
	}
	return s
}

// Rigid is a plain replacement object, such as a spent casing, that simply records the state it was
// handed.
type Rigid struct {
	Tag         string
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Velocity    mgl64.Vec3
}

func (r *Rigid) SetPosition(pos mgl64.Vec3) { r.Position = pos }
func (r *Rigid) SetOrientation(q mgl64.Quat) { r.Orientation = q }
func (r *Rigid) SetVelocity(v mgl64.Vec3) { r.Velocity = v }
