package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/assert"
)

// LaunchParameters are the immutable inputs of a trajectory segment. They are supplied at launch and
// carried over unchanged to every segment started by a ricochet.
type LaunchParameters struct {
	Gravity         mgl64.Vec3
	Wind            mgl64.Vec3
	InitialVelocity mgl64.Vec3

	// TerminalSpeed is the speed the projectile approaches when falling freely. It must be positive.
	TerminalSpeed float64
	// HeadingStiffness is the restoring strength pulling the heading toward the relative velocity.
	HeadingStiffness float64
	// HeadingDamping damps the angular velocity of the heading.
	HeadingDamping float64
}

// Model evaluates a drag limited trajectory in closed form. Position and velocity are rational functions
// of the time elapsed since the segment origin, so any time may be sampled in any order without
// accumulating integration error.
type Model struct {
	velocity mgl64.Vec3

	k         float64
	vInfinity mgl64.Vec3
	v0        mgl64.Vec3
	p0        mgl64.Vec3

	angularVelocity  mgl64.Vec3
	wind             mgl64.Vec3
	headingFrequency float64
	headingDamping   float64
}

// NewModel returns a model initiated at position with the launch parameters passed.
func NewModel(position mgl64.Vec3, p LaunchParameters) *Model {
	m := &Model{}
	m.Initiate(position, p)
	return m
}

// Initiate resets all derived state. It may be called repeatedly on the same model.
func (m *Model) Initiate(position mgl64.Vec3, p LaunchParameters) {
	assert.IsTrue(p.TerminalSpeed > 0, "terminal speed must be positive, got %v", p.TerminalSpeed)
	assert.IsTrue(p.HeadingStiffness >= 0, "heading stiffness must not be negative, got %v", p.HeadingStiffness)
	assert.IsTrue(p.HeadingDamping >= 0, "heading damping must not be negative, got %v", p.HeadingDamping)
	assert.IsTrue(finite(position) && finite(p.Gravity) && finite(p.Wind) && finite(p.InitialVelocity),
		"launch vectors must be finite: pos=%v gravity=%v wind=%v velocity=%v", position, p.Gravity, p.Wind, p.InitialVelocity)

	gravityLength := p.Gravity.Len()
	m.k = 0.5 * gravityLength / p.TerminalSpeed
	if gravityLength == 0 {
		m.vInfinity = mgl64.Vec3{}
	} else {
		m.vInfinity = p.Gravity.Mul(p.TerminalSpeed / gravityLength).Add(p.Wind)
	}

	m.velocity = p.InitialVelocity
	m.v0 = p.InitialVelocity
	m.p0 = position

	m.angularVelocity = mgl64.Vec3{}
	m.headingFrequency = math.Sqrt(m.k) * p.HeadingStiffness
	m.headingDamping = p.HeadingDamping
	m.wind = p.Wind
}

// Rebase restarts the trajectory at position with velocity without touching the drag, wind or heading
// terms. The elapsed time of the owner is expected to be reset to zero alongside it.
func (m *Model) Rebase(position, velocity mgl64.Vec3) {
	m.p0 = position
	m.v0 = velocity
	m.velocity = velocity
}

// PositionAtTime returns the position t seconds after the segment origin.
func (m *Model) PositionAtTime(t float64) mgl64.Vec3 {
	kt := m.k * t
	return m.v0.Add(m.vInfinity.Mul(kt)).Mul(t / (1 + kt)).Add(m.p0)
}

// VelocityAtTime returns the velocity t seconds after the segment origin.
func (m *Model) VelocityAtTime(t float64) mgl64.Vec3 {
	kt := m.k * t
	h := 1 + kt
	return m.v0.Add(m.vInfinity.Mul(kt * (2 + kt))).Mul(1 / (h * h))
}

// UpdateVelocity caches the velocity at time t. The cached value drives the heading filter.
func (m *Model) UpdateVelocity(t float64) {
	m.velocity = m.VelocityAtTime(t)
}

// Velocity returns the last cached velocity.
func (m *Model) Velocity() mgl64.Vec3 {
	return m.velocity
}

// K returns the drag coefficient. It is zero when there is no gravity.
func (m *Model) K() float64 {
	return m.k
}

// TerminalVelocity returns the velocity the model converges to as time grows.
func (m *Model) TerminalVelocity() mgl64.Vec3 {
	return m.vInfinity
}

// Origin returns the position at time zero of the current segment.
func (m *Model) Origin() mgl64.Vec3 {
	return m.p0
}

// InitialVelocity returns the velocity at time zero of the current segment.
func (m *Model) InitialVelocity() mgl64.Vec3 {
	return m.v0
}

// AngularVelocity returns the angular velocity of the heading filter.
func (m *Model) AngularVelocity() mgl64.Vec3 {
	return m.angularVelocity
}

// Wind returns the wind velocity the model was initiated with.
func (m *Model) Wind() mgl64.Vec3 {
	return m.wind
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
