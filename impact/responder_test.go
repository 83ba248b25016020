package impact

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/omath"
)

type spawnedEffect struct {
	effect      string
	position    mgl64.Vec3
	orientation mgl64.Quat
}

type effects struct {
	spawned []spawnedEffect
}

func (e *effects) SpawnEffect(effect string, position mgl64.Vec3, orientation mgl64.Quat) {
	e.spawned = append(e.spawned, spawnedEffect{effect, position, orientation})
}

type projectile struct {
	forward     mgl64.Vec3
	time        float64
	removed     int
	replacement string
}

func (p *projectile) Forward() mgl64.Vec3 { return p.forward }
func (p *projectile) Time() float64 { return p.time }
func (p *projectile) Remove(replacement string) {
	p.removed++
	p.replacement = replacement
}

type constantModel mgl64.Vec3

func (m constantModel) VelocityAtTime(float64) mgl64.Vec3 { return mgl64.Vec3(m) }

type body struct {
	forces []mgl64.Vec3
	points []mgl64.Vec3
}

func (b *body) ApplyForceAtPoint(force, point mgl64.Vec3) {
	b.forces = append(b.forces, force)
	b.points = append(b.points, point)
}

func metalRules() *RuleSet {
	return NewRuleSet(
		Rule{CollisionMass: 1, DestroyOnHit: false, EndEffect: "dust", BounceEffect: "dust-bounce"},
		Rule{Tag: "metal", CollisionMass: 2, DestroyOnHit: false, PullOnBounce: true, EndEffect: "sparks", BounceEffect: "ping", Replacement: "shell"},
		Rule{Tag: "glass", CollisionMass: 1, DestroyOnHit: true, EndEffect: "shards"},
	)
}

func newResponder(rules *RuleSet) (*Responder, *projectile, *effects) {
	e := &effects{}
	p := &projectile{forward: mgl64.Vec3{0, 0, 1}, time: 0.5}
	r := NewResponder(rules, e)
	r.Initiate(p, constantModel{0, 0, 10})
	return r, p, e
}

func TestRuleLookup(t *testing.T) {
	rules := metalRules()
	if r, ok := rules.Lookup("metal"); !ok || r.Tag != "metal" {
		t.Fatalf("expected metal rule, got %+v (matched=%v)", r, ok)
	}
	for _, tag := range []string{"", "wood", "Metal"} {
		if r, ok := rules.Lookup(tag); ok || r != rules.Default() {
			t.Fatalf("tag %q: expected default rule, got %+v", tag, r)
		}
	}
}

func TestRuleLookupFirstMatchWins(t *testing.T) {
	rules := NewRuleSet(DefaultRule(),
		Rule{Tag: "metal", CollisionMass: 1},
		Rule{Tag: "metal", CollisionMass: 99},
		Rule{Tag: "", CollisionMass: 42},
	)
	if rules.Len() != 1 {
		t.Fatalf("expected duplicate and untagged rules to be dropped, got %d rules", rules.Len())
	}
	if r, _ := rules.Lookup("metal"); r.CollisionMass != 1 {
		t.Fatalf("expected the first metal rule, got mass %v", r.CollisionMass)
	}
	if rules.Add(Rule{Tag: "metal"}) {
		t.Fatalf("expected shadowed rule to be rejected")
	}
}

func TestRulesKeepOrder(t *testing.T) {
	rules := metalRules()
	got := rules.Rules()
	if len(got) != 2 || got[0].Tag != "metal" || got[1].Tag != "glass" {
		t.Fatalf("unexpected rule order %+v", got)
	}
}

func TestTerminalHitRemoves(t *testing.T) {
	r, p, e := newResponder(metalRules())
	res := r.OnHit(collision.Hit{Tag: "metal", Point: mgl64.Vec3{1, 2, 3}, Normal: mgl64.Vec3{0, 0, -1}, Up: omath.Up}, false)

	if !res.Removed || p.removed != 1 || p.replacement != "shell" {
		t.Fatalf("expected removal with replacement, got %+v removed=%d replacement=%q", res, p.removed, p.replacement)
	}
	if len(e.spawned) != 1 || e.spawned[0].effect != "sparks" || e.spawned[0].position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("expected end effect at the hit point, got %+v", e.spawned)
	}
}

func TestBounceKeepsProjectile(t *testing.T) {
	r, p, e := newResponder(metalRules())
	res := r.OnHit(collision.Hit{Tag: "metal", Normal: mgl64.Vec3{0, 1, 0}, Up: omath.Up}, true)
	if res.Removed || p.removed != 0 {
		t.Fatalf("expected the projectile to keep flying")
	}
	if len(e.spawned) != 1 || e.spawned[0].effect != "ping" {
		t.Fatalf("expected bounce effect, got %+v", e.spawned)
	}
}

func TestDestroyOnHitRemovesOnBounce(t *testing.T) {
	r, p, e := newResponder(metalRules())
	res := r.OnHit(collision.Hit{Tag: "glass", Normal: mgl64.Vec3{0, 1, 0}, Up: omath.Up}, true)
	if !res.Removed || p.removed != 1 || p.replacement != "" {
		t.Fatalf("expected destroy-on-hit removal, got %+v", res)
	}
	if len(e.spawned) != 0 {
		t.Fatalf("glass has no bounce effect, got %+v", e.spawned)
	}
}

func TestDefaultRuleFallback(t *testing.T) {
	r, p, e := newResponder(metalRules())
	res := r.OnHit(collision.Hit{Tag: "wood", Normal: mgl64.Vec3{0, 1, 0}, Up: omath.Up}, true)
	if res.Matched || res.Rule.Tag != "" {
		t.Fatalf("expected default rule, got %+v", res.Rule)
	}
	if p.removed != 0 || len(e.spawned) != 1 || e.spawned[0].effect != "dust-bounce" {
		t.Fatalf("unexpected default response: removed=%d effects=%+v", p.removed, e.spawned)
	}
}

func TestPullForce(t *testing.T) {
	r, _, _ := newResponder(metalRules())
	b := &body{}
	point := mgl64.Vec3{4, 0, 9}
	res := r.OnHit(collision.Hit{Tag: "metal", Point: point, Normal: mgl64.Vec3{0, 0, -1}, Up: omath.Up, Body: b}, true)

	// 0.5 * 2 * 10² along forward.
	want := mgl64.Vec3{0, 0, 100}
	if len(b.forces) != 1 || !omath.Vec3ApproxEq(b.forces[0], want, 1e-9) || b.points[0] != point {
		t.Fatalf("expected force %v at %v, got %v at %v", want, point, b.forces, b.points)
	}
	if res.Force != b.forces[0] {
		t.Fatalf("expected response to report the applied force")
	}
}

func TestNoBodyNoForce(t *testing.T) {
	r, _, _ := newResponder(metalRules())
	res := r.OnHit(collision.Hit{Tag: "metal", Normal: mgl64.Vec3{0, 0, -1}, Up: omath.Up}, false)
	if res.Force != (mgl64.Vec3{}) {
		t.Fatalf("expected no force without a body, got %v", res.Force)
	}
}

func TestPullDisabled(t *testing.T) {
	r, _, _ := newResponder(metalRules())
	b := &body{}
	r.OnHit(collision.Hit{Tag: "glass", Body: b, Up: omath.Up, Normal: omath.Up}, false)
	if len(b.forces) != 0 {
		t.Fatalf("glass rule does not pull, got %v", b.forces)
	}
}

func TestEffectOrientation(t *testing.T) {
	r, _, e := newResponder(metalRules())
	normal := mgl64.Vec3{1, 0, 0}
	r.OnHit(collision.Hit{Tag: "metal", Normal: normal, Up: omath.Up}, false)
	if len(e.spawned) != 1 {
		t.Fatalf("expected one effect, got %d", len(e.spawned))
	}
	if up := e.spawned[0].orientation.Rotate(omath.Up); !omath.Vec3ApproxEq(up, normal, 1e-9) {
		t.Fatalf("expected effect up axis along the normal, got %v", up)
	}
}

func TestNilRuleSetUsesDefault(t *testing.T) {
	r := NewResponder(nil, nil)
	p := &projectile{forward: mgl64.Vec3{0, 0, 1}}
	r.Initiate(p, constantModel{})
	res := r.OnHit(collision.Hit{Tag: "metal"}, true)
	if res.Matched || !res.Removed {
		t.Fatalf("expected default destroy-on-hit rule, got %+v", res)
	}
}

func TestKineticEnergy(t *testing.T) {
	if e := KineticEnergy(5, mgl64.Vec3{3, 4, 0}); math.Abs(e-62.5) > 1e-12 {
		t.Fatalf("expected 62.5, got %v", e)
	}
}
