package bullet

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/impact"
	"github.com/oomph-ac/ricochet/kinematics"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Replacement is an object that takes the place of a removed bullet, such as a spent casing.
type Replacement interface {
	SetPosition(pos mgl64.Vec3)
	SetOrientation(q mgl64.Quat)
	SetVelocity(v mgl64.Vec3)
}

// Pool recycles removed bullets and hands out replacements.
type Pool interface {
	Recycle(tag string, b *Bullet)
	AcquireReplacement(tag string) (Replacement, bool)
}

// LineDrawer draws diagnostic lines.
type LineDrawer interface {
	DrawLine(from, to mgl64.Vec3, shade kinematics.Shade)
}

// Host bundles the collaborators a bullet talks to. World is required, everything else is optional.
type Host struct {
	World   collision.World
	Effects impact.EffectSpawner
	Pool    Pool
	Drawer  LineDrawer
	// Random drives ricochet decisions. When nil, each bullet seeds its own source from its id. Bullets
	// advanced in parallel draw from it concurrently, so a source shared between them must be safe for
	// concurrent use, such as one wrapped by SharedRandom.
	Random collision.RandomSource
	// Clock returns the wall clock in seconds. It animates the debug trajectory.
	Clock func() float64
	Log   *logrus.Logger
}

// SharedRandom wraps src so that it may be shared by bullets advanced in parallel.
func SharedRandom(src collision.RandomSource) collision.RandomSource {
	if _, ok := src.(*lockedRandom); ok {
		return src
	}
	return &lockedRandom{src: src}
}

type lockedRandom struct {
	mu  deadlock.Mutex
	src collision.RandomSource
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

var nopLog = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}()

func (h Host) logger() *logrus.Logger {
	if h.Log == nil {
		return nopLog
	}
	return h.Log
}
