package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/omath"
)

const (
	debugSegments = 20
	debugSamples  = debugSegments*2 + 4
)

// Shade is the colour class of a debug segment.
type Shade uint8

const (
	ShadeDark Shade = iota
	ShadeLight
	// ShadeTravelled marks a segment the projectile has already flown through.
	ShadeTravelled
)

// Segment is a piece of the sampled trajectory.
type Segment struct {
	From, To mgl64.Vec3
	Shade    Shade
}

// DebugSegments samples the trajectory over [0, lifeTime] as a dashed line whose dashes crawl forward
// with the wall clock now (in seconds). elapsed is the flight time of the current segment. The result
// has no effect on the model.
func (m *Model) DebugSegments(now, elapsed, lifeTime float64) []Segment {
	if lifeTime <= 0 {
		return nil
	}
	dt := lifeTime / (debugSamples - 4)
	t := now / (dt * 4)
	t = (t-math.Floor(t))*dt*4 - dt*4

	segments := make([]Segment, 0, debugSamples)
	for i := range debugSamples {
		fromTime := omath.ClampFloat(t, 0, lifeTime)
		toTime := omath.ClampFloat(t+dt, 0, lifeTime)

		shade := ShadeTravelled
		if fromTime > elapsed {
			shade = ShadeDark
			if i%4 >= 2 {
				shade = ShadeLight
			}
		}
		segments = append(segments, Segment{
			From:  m.PositionAtTime(fromTime),
			To:    m.PositionAtTime(toTime),
			Shade: shade,
		})
		t += dt
	}
	return segments
}
