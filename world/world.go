package world

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/assert"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/omath"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var currentWorldId atomic.Uint64

// surfaceEpsilon is the squared distance below which an intercept counts as the segment's own start.
const surfaceEpsilon = 1e-8

// Object is a static axis aligned box that projectiles can strike.
type Object struct {
	// Collider uniquely identifies the object within its world.
	Collider string
	Tag      string
	Layer    uint8
	Box      cube.BBox
	// Body receives the forces of impacts. Objects without a body are immovable.
	Body *RigidBody
}

// World is an in-memory collection of boxes. It is safe for concurrent use.
type World struct {
	id      uint64
	objects *orderedmap.OrderedMap[string, Object]
	log     *logrus.Logger

	deadlock.RWMutex
}

// New returns an empty world.
func New(log *logrus.Logger) *World {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &World{
		id:      currentWorldId.Inc(),
		objects: orderedmap.NewOrderedMap[string, Object](),
		log:     log,
	}
}

// ID returns the id of the world.
func (w *World) ID() uint64 {
	return w.id
}

// Add adds an object to the world, replacing any object with the same collider.
func (w *World) Add(obj Object) {
	assert.IsTrue(obj.Collider != "", "world object requires a collider")
	if obj.Body != nil {
		obj.Body.setCentre(omath.Vec32To64(boxCentre(obj.Box)))
	}

	w.Lock()
	defer w.Unlock()

	if _, ok := w.objects.Get(obj.Collider); ok {
		w.log.Debugf("world %d: replacing object %s", w.id, obj.Collider)
	}
	w.objects.Set(obj.Collider, obj)
}

// Remove removes the object with the collider passed. It returns false if there was no such object.
func (w *World) Remove(collider string) bool {
	w.Lock()
	defer w.Unlock()
	return w.objects.Delete(collider)
}

// Object returns the object with the collider passed.
func (w *World) Object(collider string) (Object, bool) {
	w.RLock()
	defer w.RUnlock()
	return w.objects.Get(collider)
}

// Objects returns all objects in insertion order.
func (w *World) Objects() []Object {
	w.RLock()
	defer w.RUnlock()

	objects := make([]Object, 0, w.objects.Len())
	for el := w.objects.Front(); el != nil; el = el.Next() {
		objects = append(objects, el.Value)
	}
	return objects
}

// Len returns the amount of objects in the world.
func (w *World) Len() int {
	w.RLock()
	defer w.RUnlock()
	return w.objects.Len()
}

// SegmentTest returns the nearest intercept of the segment from -> to with an object on a layer in mask.
// Ties go to the object added first.
func (w *World) SegmentTest(from, to mgl64.Vec3, mask collision.LayerMask) (collision.Hit, bool) {
	start, end := omath.Vec64To32(from), omath.Vec64To32(to)
	if end.Sub(start).LenSqr() < 1e-12 {
		return collision.Hit{}, false
	}

	w.RLock()
	defer w.RUnlock()

	var (
		nearest = float32(math32.MaxFloat32)
		hit     collision.Hit
		found   bool
	)
	for el := w.objects.Front(); el != nil; el = el.Next() {
		obj := el.Value
		if !mask.Has(obj.Layer) {
			continue
		}
		res, ok := trace.BBoxIntercept(obj.Box, start, end)
		if !ok {
			continue
		}
		// A segment starting on a face, or leaving through one, does not strike it.
		normal := FaceNormal(res.Face())
		dist := res.Position().Sub(start).LenSqr()
		if dist < surfaceEpsilon || normal.Dot(to.Sub(from)) >= 0 {
			continue
		}
		if dist < nearest {
			nearest = dist
			found = true
			hit = collision.Hit{
				Point:    omath.Vec32To64(res.Position()),
				Normal:   normal,
				Up:       omath.Up,
				Tag:      obj.Tag,
				Collider: obj.Collider,
			}
			// Keep the interface nil for objects without a body.
			if obj.Body != nil {
				hit.Body = obj.Body
			}
		}
	}
	return hit, found
}

// FaceNormal returns the outward unit normal of a box face.
func FaceNormal(face cube.Face) mgl64.Vec3 {
	switch face {
	case cube.FaceDown:
		return mgl64.Vec3{0, -1, 0}
	case cube.FaceUp:
		return mgl64.Vec3{0, 1, 0}
	case cube.FaceNorth:
		return mgl64.Vec3{0, 0, -1}
	case cube.FaceSouth:
		return mgl64.Vec3{0, 0, 1}
	case cube.FaceWest:
		return mgl64.Vec3{-1, 0, 0}
	default:
		return mgl64.Vec3{1, 0, 0}
	}
}

func boxCentre(bb cube.BBox) mgl32.Vec3 {
	return bb.Min().Add(bb.Max()).Mul(0.5)
}
