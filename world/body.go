package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"
)

// RigidBody accumulates the forces applied to an object until they are drained by the host's physics.
type RigidBody struct {
	Mass float64

	mu      deadlock.Mutex
	centre  mgl64.Vec3
	force   mgl64.Vec3
	torque  mgl64.Vec3
	impacts int
}

// NewRigidBody returns a body with the mass passed.
func NewRigidBody(mass float64) *RigidBody {
	return &RigidBody{Mass: mass}
}

// ApplyForceAtPoint adds force, and the torque it exerts about the centre of the body.
func (b *RigidBody) ApplyForceAtPoint(force, point mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.force = b.force.Add(force)
	b.torque = b.torque.Add(point.Sub(b.centre).Cross(force))
	b.impacts++
}

// Drain returns the accumulated force and torque and resets both.
func (b *RigidBody) Drain() (force, torque mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()

	force, torque = b.force, b.torque
	b.force, b.torque = mgl64.Vec3{}, mgl64.Vec3{}
	return force, torque
}

// Impacts returns the amount of forces applied since the body was created.
func (b *RigidBody) Impacts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.impacts
}

// Centre returns the point torque is measured about.
func (b *RigidBody) Centre() mgl64.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.centre
}

func (b *RigidBody) setCentre(centre mgl64.Vec3) {
	b.mu.Lock()
	b.centre = centre
	b.mu.Unlock()
}
