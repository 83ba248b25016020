package impact

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/assert"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/omath"
)

// EffectSpawner instantiates visual effects on behalf of the responder.
type EffectSpawner interface {
	SpawnEffect(effect string, position mgl64.Vec3, orientation mgl64.Quat)
}

// Projectile is the view of a projectile the responder acts on.
type Projectile interface {
	Forward() mgl64.Vec3
	Time() float64
	// Remove takes the projectile out of the simulation, handing off to a replacement if one is named.
	Remove(replacement string)
}

// Model evaluates the velocity of the projectile.
type Model interface {
	VelocityAtTime(t float64) mgl64.Vec3
}

// Response summarises what the responder did for a hit.
type Response struct {
	Rule Rule
	// Matched is false when the default rule was used.
	Matched bool
	// Effect is the effect spawned, empty if none.
	Effect string
	// Force is the force applied to the struck body. It is zero if none was applied.
	Force   mgl64.Vec3
	Removed bool
}

// Responder reacts to confirmed hits of a single projectile.
type Responder struct {
	rules   *RuleSet
	effects EffectSpawner

	projectile Projectile
	model      Model
}

// NewResponder returns a Responder using rules. A nil rule set uses only the default rule, a nil spawner
// spawns no effects.
func NewResponder(rules *RuleSet, effects EffectSpawner) *Responder {
	if rules == nil {
		rules = NewRuleSet(DefaultRule())
	}
	return &Responder{rules: rules, effects: effects}
}

// Initiate binds the responder to the projectile and its kinematic model.
func (r *Responder) Initiate(projectile Projectile, model Model) {
	r.projectile = projectile
	r.model = model
}

// OnHit applies the matching rule to a hit. canBounce is true when the projectile ricochets off the
// surface and keeps flying.
func (r *Responder) OnHit(hit collision.Hit, canBounce bool) Response {
	assert.IsTrue(r.projectile != nil && r.model != nil, "impact responder used before Initiate")

	rule, matched := r.rules.Lookup(hit.Tag)
	res := Response{Rule: rule, Matched: matched}

	effect := rule.EndEffect
	if canBounce {
		effect = rule.BounceEffect
	}

	if rule.PullOnBounce && hit.Body != nil {
		velocity := r.model.VelocityAtTime(r.projectile.Time())
		res.Force = r.projectile.Forward().Mul(KineticEnergy(rule.CollisionMass, velocity))
		hit.Body.ApplyForceAtPoint(res.Force, hit.Point)
	}

	if effect != "" && r.effects != nil {
		r.effects.SpawnEffect(effect, hit.Point, omath.FromToRotation(hit.Up, hit.Normal))
		res.Effect = effect
	}

	// This is the last interaction of the projectile.
	if !canBounce || rule.DestroyOnHit {
		r.projectile.Remove(rule.Replacement)
		res.Removed = true
	}
	return res
}

// Rules returns the rule set of the responder.
func (r *Responder) Rules() *RuleSet {
	return r.rules
}

// KineticEnergy returns 1/2*m*v² for a body of the mass passed moving at velocity.
func KineticEnergy(mass float64, velocity mgl64.Vec3) float64 {
	return 0.5 * mass * velocity.LenSqr()
}
