package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/omath"
)

// UpdateRotation advances the heading filter by dt and returns the new orientation. The heading is pulled
// toward the velocity relative to the wind by a spring-damper evaluated implicitly, so it stays stable
// for any dt. The rotational error is taken from the cross and dot products of the forward axis with
// the relative velocity, which avoids trigonometric calls.
func (m *Model) UpdateRotation(dt float64, orientation mgl64.Quat) mgl64.Quat {
	forward := omath.ForwardOf(orientation)
	relativeVelocity := m.velocity.Sub(m.wind)
	sin := relativeVelocity.Cross(forward)
	cos := relativeVelocity.Dot(forward)

	// The epsilon keeps the error finite when the relative velocity vanishes.
	angularError := sin.Mul(3 / (2*relativeVelocity.Len() + cos + math.SmallestNonzeroFloat64))

	wt := m.headingFrequency * dt
	m.angularVelocity = m.angularVelocity.Sub(angularError.Mul(m.headingFrequency * wt)).
		Mul(1 / (1 + wt*(2*m.headingDamping+wt)))
	angularDelta := m.angularVelocity.Mul(dt)

	q := mgl64.Quat{W: 2.0 - 0.125*angularDelta.LenSqr(), V: angularDelta}.Normalize()
	return q.Mul(orientation).Normalize()
}
