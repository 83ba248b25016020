package collision

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the ricochet tunables of a Resolver.
type Config struct {
	HitLayers LayerMask

	// Ricochet enables bouncing at all.
	Ricochet bool
	// MaxBounces bounds the number of ricochets over the whole flight.
	MaxBounces int
	// RicochetProbability is the chance that an otherwise eligible hit ricochets.
	RicochetProbability float64
	// RicochetSpeedFactor scales the speed kept after a ricochet.
	RicochetSpeedFactor float64
	// MaxRicochetAngle is the largest angle, in degrees, between the forward axis and the surface normal
	// that still allows a ricochet.
	MaxRicochetAngle float64
	// RicochetJitter bounds the random offset added to each axis of the reflected direction.
	RicochetJitter float64
}

// DefaultConfig returns the default ricochet configuration.
func DefaultConfig() Config {
	return Config{
		HitLayers:           DefaultLayerMask,
		Ricochet:            true,
		MaxBounces:          2,
		RicochetProbability: 1,
		RicochetSpeedFactor: 0.5,
		MaxRicochetAngle:    120,
		RicochetJitter:      0.1,
	}
}

// Validate returns an error listing every out of range value.
func (c Config) Validate() error {
	var problems []string
	if c.MaxBounces < 0 {
		problems = append(problems, fmt.Sprintf("max bounces must not be negative, got %d", c.MaxBounces))
	}
	if c.RicochetProbability < 0 || c.RicochetProbability > 1 {
		problems = append(problems, fmt.Sprintf("ricochet probability must be in [0, 1], got %v", c.RicochetProbability))
	}
	if c.RicochetSpeedFactor < 0 || c.RicochetSpeedFactor > 1 {
		problems = append(problems, fmt.Sprintf("ricochet speed factor must be in [0, 1], got %v", c.RicochetSpeedFactor))
	}
	if c.MaxRicochetAngle < 0 || c.MaxRicochetAngle > 180 {
		problems = append(problems, fmt.Sprintf("max ricochet angle must be in [0, 180], got %v", c.MaxRicochetAngle))
	}
	if c.RicochetJitter < 0 {
		problems = append(problems, fmt.Sprintf("ricochet jitter must not be negative, got %v", c.RicochetJitter))
	}
	if len(problems) != 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
