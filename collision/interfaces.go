package collision

import "github.com/go-gl/mathgl/mgl64"

// LayerMask selects which layers a segment test considers. Bit n set means layer n is hit.
type LayerMask uint32

// DefaultLayerMask hits every layer except layer 8.
const DefaultLayerMask = ^LayerMask(1 << 8)

// Has reports whether the layer passed is part of the mask.
func (m LayerMask) Has(layer uint8) bool {
	return layer < 32 && m&(1<<layer) != 0
}

// Hit describes the nearest intersection of a segment with the environment.
type Hit struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	// Up is the up axis of the struck object.
	Up mgl64.Vec3

	// Tag identifies the kind of surface struck. It is empty for untagged surfaces.
	Tag string
	// Collider identifies the struck object.
	Collider string
	// Body is the physical body of the struck object, or nil if it has none.
	Body Body
}

// Body is a physical body that forces may be applied to.
type Body interface {
	ApplyForceAtPoint(force, point mgl64.Vec3)
}

// World bridges the host's geometry for swept segment tests.
type World interface {
	// SegmentTest returns the nearest hit on the segment from -> to among layers in mask.
	SegmentTest(from, to mgl64.Vec3, mask LayerMask) (Hit, bool)
}

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Owner is the projectile a Resolver tracks.
type Owner interface {
	// Collider returns the collider identity of the projectile itself.
	Collider() string

	Time() float64
	SetTime(t float64)

	Position() mgl64.Vec3
	SetPosition(pos mgl64.Vec3)

	Forward() mgl64.Vec3
	SetForward(dir mgl64.Vec3)

	// OnHit is called for every hit that is not the projectile itself.
	OnHit(hit Hit, canBounce bool)
	// Removed reports whether the projectile was taken out of flight, possibly by OnHit.
	Removed() bool
	// Refresh re-evaluates position and velocity at the current time without running collisions.
	Refresh()
}

// Model is the part of the kinematic model a Resolver needs.
type Model interface {
	VelocityAtTime(t float64) mgl64.Vec3
	Rebase(position, velocity mgl64.Vec3)
}
