package bullet

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/impact"
	"github.com/oomph-ac/ricochet/kinematics"
)

// Properties are the kinematic properties of a bullet.
type Properties struct {
	Gravity mgl64.Vec3
	Wind    mgl64.Vec3
	// TerminalVelocity is the speed the bullet approaches in free fall.
	TerminalVelocity float64

	// UpdateRotation turns the bullet to follow its velocity.
	UpdateRotation    bool
	RotationStiffness float64
	RotationDamping   float64
}

// DefaultProperties returns the default kinematic properties.
func DefaultProperties() Properties {
	return Properties{
		Gravity:           mgl64.Vec3{0, -9.81, 0},
		TerminalVelocity:  35,
		UpdateRotation:    true,
		RotationStiffness: 3,
		RotationDamping:   0.3,
	}
}

// LaunchParameters returns the parameters of a trajectory starting with the velocity passed.
func (p Properties) LaunchParameters(initialVelocity mgl64.Vec3) kinematics.LaunchParameters {
	return kinematics.LaunchParameters{
		Gravity:          p.Gravity,
		Wind:             p.Wind,
		InitialVelocity:  initialVelocity,
		TerminalSpeed:    p.TerminalVelocity,
		HeadingStiffness: p.RotationStiffness,
		HeadingDamping:   p.RotationDamping,
	}
}

// Config is the configuration of a bullet.
type Config struct {
	// PoolTag is the pool the bullet is recycled into once removed.
	PoolTag string
	// LifeTime bounds the flight time of a single trajectory segment, in seconds.
	LifeTime float64
	// DebugTrajectory draws the sampled trajectory every tick when a LineDrawer is available.
	DebugTrajectory bool

	Properties Properties
	Collision  collision.Config
	Rules      *impact.RuleSet
}

// DefaultConfig returns the default bullet configuration.
func DefaultConfig() Config {
	return Config{
		PoolTag:    "bullet",
		LifeTime:   5,
		Properties: DefaultProperties(),
		Collision:  collision.DefaultConfig(),
		Rules:      impact.NewRuleSet(impact.DefaultRule()),
	}
}
