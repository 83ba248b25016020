package omath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the local forward axis of an orientation.
var Forward = mgl64.Vec3{0, 0, 1}

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Vec32To64 converts a 32 bit vector to a 64 bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// Vec64To32 converts a 64 bit vector to a 32 bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

// AngleDegrees returns the unsigned angle between a and b in degrees. Zero length vectors yield 0.
func AngleDegrees(a, b mgl64.Vec3) float64 {
	denominator := math.Sqrt(a.LenSqr() * b.LenSqr())
	if denominator < 1e-15 {
		return 0
	}
	cos := ClampFloat(a.Dot(b)/denominator, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// Reflect reflects dir off the plane defined by normal.
func Reflect(dir, normal mgl64.Vec3) mgl64.Vec3 {
	return dir.Sub(normal.Mul(2 * normal.Dot(dir)))
}

// SafeNormalize returns the unit vector of v, or the zero vector if v has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// FromToRotation returns the shortest rotation taking from onto to. Degenerate input gives the identity.
func FromToRotation(from, to mgl64.Vec3) mgl64.Quat {
	if from.LenSqr() < 1e-24 || to.LenSqr() < 1e-24 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to).Normalize()
}

// LookRotation returns an orientation whose forward axis points along dir.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	return FromToRotation(Forward, dir)
}

// ForwardOf returns the forward axis of the orientation passed.
func ForwardOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Forward)
}

// Vec3ApproxEq reports whether a and b are equal per component within threshold.
func Vec3ApproxEq(a, b mgl64.Vec3, threshold float64) bool {
	for i := range 3 {
		if math.Abs(a[i]-b[i]) > threshold {
			return false
		}
	}
	return true
}
