package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/assert"
	"github.com/oomph-ac/ricochet/omath"
)

// spawnGrace is the flight time below which hits are ignored, so a projectile does not strike whatever
// it was spawned inside of.
const spawnGrace = 0.001

// Outcome is the result of a single UpdateCollisions call.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeSelf
	OutcomeBounce
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeSelf:
		return "self"
	case OutcomeBounce:
		return "bounce"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Resolver tests the path swept by a projectile since the previous tick and decides whether a hit
// ricochets or ends the flight.
type Resolver struct {
	world  World
	random RandomSource
	conf   Config

	owner Owner
	model Model

	bounces  int
	previous mgl64.Vec3
	spawn    mgl64.Vec3
}

// NewResolver returns a Resolver testing against world and drawing from random. It panics if conf is
// invalid.
func NewResolver(world World, random RandomSource, conf Config) *Resolver {
	assert.IsTrue(world != nil, "collision resolver requires a world")
	assert.IsTrue(random != nil, "collision resolver requires a random source")
	if err := conf.Validate(); err != nil {
		assert.IsTrue(false, "invalid collision config: %v", err)
	}
	return &Resolver{world: world, random: random, conf: conf}
}

// Initiate starts tracking owner from spawn. The bounce counter is reset here and nowhere else.
func (r *Resolver) Initiate(owner Owner, spawn mgl64.Vec3, model Model) {
	r.owner = owner
	r.model = model
	r.bounces = 0
	r.previous = spawn
	r.spawn = spawn
}

// UpdateCollisions runs once per tick after the owner position has been advanced. It does nothing until
// the resolver has been initiated.
func (r *Resolver) UpdateCollisions() Outcome {
	if r.owner == nil {
		return OutcomeNone
	}

	outcome := OutcomeNone
	if hit, ok := r.world.SegmentTest(r.previous, r.owner.Position(), r.conf.HitLayers); ok && r.owner.Time() > spawnGrace {
		outcome = r.resolve(hit)
	}
	r.previous = r.owner.Position()
	return outcome
}

func (r *Resolver) resolve(hit Hit) Outcome {
	if hit.Collider == r.owner.Collider() {
		return OutcomeSelf
	}

	belowMaxBounces := r.bounces < r.conf.MaxBounces
	angleCondition := omath.AngleDegrees(r.owner.Forward(), hit.Normal) <= r.conf.MaxRicochetAngle
	probabilityCondition := r.random.Float64() < r.conf.RicochetProbability

	if belowMaxBounces && r.conf.Ricochet && angleCondition && probabilityCondition {
		r.bounce(hit)
		return OutcomeBounce
	}
	r.owner.OnHit(hit, false)
	return OutcomeTerminal
}

// bounce restarts the trajectory from the hit point along the jittered reflection.
func (r *Resolver) bounce(hit Hit) {
	r.bounces++
	r.owner.OnHit(hit, true)
	if r.owner.Removed() {
		// The owner may already be back in a pool, so its flight is left untouched.
		return
	}

	reflection := omath.SafeNormalize(r.reflectDirection(hit.Normal))
	r.owner.SetForward(reflection)
	r.owner.SetPosition(hit.Point)

	speed := r.model.VelocityAtTime(r.owner.Time()).Len()
	velocity := reflection.Mul(speed * r.conf.RicochetSpeedFactor)

	r.owner.SetTime(0)
	r.model.Rebase(hit.Point, velocity)
	r.owner.Refresh()

	r.spawn = hit.Point
	r.previous = hit.Point
}

func (r *Resolver) reflectDirection(normal mgl64.Vec3) mgl64.Vec3 {
	j := r.conf.RicochetJitter
	reflection := omath.Reflect(r.owner.Forward(), normal)
	return reflection.Add(mgl64.Vec3{
		r.random.Float64() * j,
		(r.random.Float64()*2 - 1) * j,
		(r.random.Float64()*2 - 1) * j,
	})
}

// Bounces returns the number of ricochets since launch.
func (r *Resolver) Bounces() int {
	return r.bounces
}

// Previous returns the start of the next swept segment.
func (r *Resolver) Previous() mgl64.Vec3 {
	return r.previous
}

// Spawn returns the point the current trajectory segment started from.
func (r *Resolver) Spawn() mgl64.Vec3 {
	return r.spawn
}

// Config returns the ricochet configuration of the resolver.
func (r *Resolver) Config() Config {
	return r.conf
}
