package bullet

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oomph-ac/ricochet/assert"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/impact"
	"github.com/oomph-ac/ricochet/kinematics"
	"github.com/oomph-ac/ricochet/omath"
	"github.com/oomph-ac/ricochet/utils"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

// Bullet is a single projectile. It owns the flight time of the current trajectory segment and drives
// the tick sequence: advance time, evaluate position, velocity and heading, then test for collisions.
// A Bullet is not safe for concurrent use.
type Bullet struct {
	id   string
	conf Config
	host Host
	log  *logrus.Logger

	model     *kinematics.Model
	resolver  *collision.Resolver
	responder *impact.Responder

	time      float64
	lastDelta float64

	position    mgl64.Vec3
	orientation mgl64.Quat

	lastResponse impact.Response
	removed      atomic.Bool
}

// New creates a bullet that is ready to be launched.
func New(conf Config, host Host) *Bullet {
	assert.IsTrue(conf.LifeTime > 0, "bullet life time must be positive, got %v", conf.LifeTime)

	id := uuid.New().String()
	random := host.Random
	if random == nil {
		random = rand.New(rand.NewPCG(xxh3.HashString(id), xxh3.HashString(conf.PoolTag)))
	}

	b := &Bullet{
		id:          id,
		conf:        conf,
		host:        host,
		log:         host.logger(),
		model:       &kinematics.Model{},
		resolver:    collision.NewResolver(host.World, random, conf.Collision),
		responder:   impact.NewResponder(conf.Rules, host.Effects),
		orientation: mgl64.QuatIdent(),
	}
	b.removed.Store(true)
	return b
}

// Launch starts a trajectory at position, facing along the initial velocity.
func (b *Bullet) Launch(position, initialVelocity mgl64.Vec3) {
	b.LaunchOriented(position, omath.LookRotation(initialVelocity), initialVelocity)
}

// LaunchOriented starts a trajectory at position with an explicit muzzle orientation.
func (b *Bullet) LaunchOriented(position mgl64.Vec3, orientation mgl64.Quat, initialVelocity mgl64.Vec3) {
	b.time = 0
	b.lastDelta = 0
	b.position = position
	b.orientation = orientation.Normalize()
	b.lastResponse = impact.Response{}

	b.resolver.Initiate(b, position, b.model)
	b.responder.Initiate(b, b.model)
	b.model.Initiate(position, b.conf.Properties.LaunchParameters(initialVelocity))
	b.removed.Store(false)
}

// FixedUpdate advances the bullet by a fixed step. Steps longer than a second are treated as a hitch and
// replaced by a 10ms step.
func (b *Bullet) FixedUpdate(dt float64) collision.Outcome {
	if dt > 1 {
		dt = 0.01
	}
	return b.Advance(dt)
}

// Advance moves the bullet dt seconds forward. It does nothing once the bullet has been removed.
func (b *Bullet) Advance(dt float64) collision.Outcome {
	if b.removed.Load() {
		return collision.OutcomeNone
	}
	b.time += dt
	b.lastDelta = dt

	if b.time > b.conf.LifeTime {
		b.Remove("")
		return collision.OutcomeNone
	}
	b.position = b.model.PositionAtTime(b.time)
	b.model.UpdateVelocity(b.time)

	if b.conf.Properties.UpdateRotation {
		b.orientation = b.model.UpdateRotation(dt, b.orientation)
	}
	outcome := b.resolver.UpdateCollisions()

	if b.conf.DebugTrajectory && b.host.Drawer != nil && !b.removed.Load() {
		b.drawTrajectory()
	}
	return outcome
}

// Refresh re-evaluates position and velocity at the current time. It is used after a ricochet rebased
// the trajectory.
func (b *Bullet) Refresh() {
	b.position = b.model.PositionAtTime(b.time)
	b.model.UpdateVelocity(b.time)
}

// OnHit applies the impact response for a hit reported by the collision resolver.
func (b *Bullet) OnHit(hit collision.Hit, canBounce bool) {
	res := b.responder.OnHit(hit, canBounce)
	b.lastResponse = res

	if !b.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	data := utils.KeyValsToMap(
		"bullet", b.id,
		"collider", hit.Collider,
		"tag", hit.Tag,
		"bounce", canBounce,
		"matched", res.Matched,
		"effect", res.Effect,
		"removed", res.Removed,
		"point", hit.Point,
		"speed", b.model.VelocityAtTime(b.time).Len(),
	)
	if res.Force != (mgl64.Vec3{}) {
		data.Set("force", res.Force.Len())
	}
	b.log.Debugf("bullet hit %s", utils.OrderedMapToString(data))
}

// Remove takes the bullet out of the simulation and recycles it. If replacement names a pool tag, a
// replacement object is acquired and given the last position, orientation and velocity of the bullet.
// Removing an already removed bullet does nothing.
func (b *Bullet) Remove(replacement string) {
	if !b.removed.CompareAndSwap(false, true) {
		return
	}
	if replacement != "" && b.host.Pool != nil {
		if r, ok := b.host.Pool.AcquireReplacement(replacement); ok {
			r.SetPosition(b.model.PositionAtTime(math.Max(0, b.time-b.lastDelta)))
			r.SetOrientation(b.orientation)
			r.SetVelocity(b.model.VelocityAtTime(b.time))
		} else {
			b.log.Warnf("bullet %s: no replacement available for %q", b.id, replacement)
		}
	}
	if b.host.Pool != nil {
		b.host.Pool.Recycle(b.conf.PoolTag, b)
	}
	b.log.Debugf("bullet %s removed after %.3fs with %d bounces", b.id, b.time, b.resolver.Bounces())
}

func (b *Bullet) drawTrajectory() {
	now := float64(time.Now().UnixNano()) / float64(time.Second)
	if b.host.Clock != nil {
		now = b.host.Clock()
	}
	for _, s := range b.model.DebugSegments(now, b.time, b.conf.LifeTime) {
		b.host.Drawer.DrawLine(s.From, s.To, s.Shade)
	}
}

// ID returns the unique id of the bullet.
func (b *Bullet) ID() string {
	return b.id
}

// Collider returns the collider identity of the bullet. It is the same as its id.
func (b *Bullet) Collider() string {
	return b.id
}

// Time returns the flight time of the current trajectory segment.
func (b *Bullet) Time() float64 {
	return b.time
}

// SetTime sets the flight time of the current trajectory segment.
func (b *Bullet) SetTime(t float64) {
	b.time = t
}

// Position returns the current position of the bullet.
func (b *Bullet) Position() mgl64.Vec3 {
	return b.position
}

// SetPosition moves the bullet without touching its trajectory.
func (b *Bullet) SetPosition(pos mgl64.Vec3) {
	b.position = pos
}

// Velocity returns the velocity evaluated on the last tick.
func (b *Bullet) Velocity() mgl64.Vec3 {
	return b.model.Velocity()
}

// Orientation returns the current orientation of the bullet.
func (b *Bullet) Orientation() mgl64.Quat {
	return b.orientation
}

// Forward returns the forward axis of the bullet.
func (b *Bullet) Forward() mgl64.Vec3 {
	return omath.ForwardOf(b.orientation)
}

// SetForward turns the bullet to face dir.
func (b *Bullet) SetForward(dir mgl64.Vec3) {
	b.orientation = omath.LookRotation(dir)
}

// Bounces returns the number of ricochets since launch.
func (b *Bullet) Bounces() int {
	return b.resolver.Bounces()
}

// Removed reports whether the bullet has been removed.
func (b *Bullet) Removed() bool {
	return b.removed.Load()
}

// Model returns the kinematic model of the bullet.
func (b *Bullet) Model() *kinematics.Model {
	return b.model
}

// LastResponse returns the impact response of the most recent hit.
func (b *Bullet) LastResponse() impact.Response {
	return b.lastResponse
}

// Config returns the configuration of the bullet.
func (b *Bullet) Config() Config {
	return b.conf
}
