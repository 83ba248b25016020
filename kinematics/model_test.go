package kinematics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/oerror"
	"github.com/oomph-ac/ricochet/omath"
)

func defaultParameters(velocity mgl64.Vec3) LaunchParameters {
	return LaunchParameters{
		Gravity:          mgl64.Vec3{0, -9.81, 0},
		InitialVelocity:  velocity,
		TerminalSpeed:    35,
		HeadingStiffness: 3,
		HeadingDamping:   0.3,
	}
}

func TestStraightLineWithoutGravity(t *testing.T) {
	p0 := mgl64.Vec3{1, 2, 3}
	v0 := mgl64.Vec3{10, -4, 25}
	m := NewModel(p0, LaunchParameters{InitialVelocity: v0, TerminalSpeed: 40})
	if m.K() != 0 {
		t.Fatalf("expected no drag without gravity, got k=%v", m.K())
	}
	if m.TerminalVelocity() != (mgl64.Vec3{}) {
		t.Fatalf("expected zero terminal velocity, got %v", m.TerminalVelocity())
	}
	for _, tm := range []float64{0, 0.01, 0.5, 1, 3.7, 10} {
		want := p0.Add(v0.Mul(tm))
		if got := m.PositionAtTime(tm); !omath.Vec3ApproxEq(got, want, 1e-9) {
			t.Fatalf("t=%v: expected position %v, got %v", tm, want, got)
		}
		if got := m.VelocityAtTime(tm); !omath.Vec3ApproxEq(got, v0, 1e-12) {
			t.Fatalf("t=%v: expected velocity %v, got %v", tm, v0, got)
		}
	}
}

func TestWindIgnoredWithoutGravity(t *testing.T) {
	v0 := mgl64.Vec3{0, 0, 30}
	m := NewModel(mgl64.Vec3{}, LaunchParameters{Wind: mgl64.Vec3{5, 0, 0}, InitialVelocity: v0, TerminalSpeed: 40})
	if got := m.VelocityAtTime(100); !omath.Vec3ApproxEq(got, v0, 1e-12) {
		t.Fatalf("expected velocity to stay %v, got %v", v0, got)
	}
}

func TestVelocityIsDerivativeOfPosition(t *testing.T) {
	params := []LaunchParameters{
		defaultParameters(mgl64.Vec3{0, 0, 50}),
		{
			Gravity:         mgl64.Vec3{0, -9.8, 0},
			Wind:            mgl64.Vec3{3, 0, -2},
			InitialVelocity: mgl64.Vec3{12, 40, -7},
			TerminalSpeed:   20,
		},
		{
			Gravity:         mgl64.Vec3{1, -30, 4},
			InitialVelocity: mgl64.Vec3{-100, 5, 300},
			TerminalSpeed:   80,
		},
	}
	const h = 1e-5
	for i, p := range params {
		m := NewModel(mgl64.Vec3{4, 1, -6}, p)
		for tm := h; tm <= 5; tm += 0.25 {
			numeric := m.PositionAtTime(tm + h).Sub(m.PositionAtTime(tm - h)).Mul(1 / (2 * h))
			analytic := m.VelocityAtTime(tm)
			if !omath.Vec3ApproxEq(numeric, analytic, 1e-4) {
				t.Fatalf("case %d t=%v: derivative %v does not match velocity %v", i, tm, numeric, analytic)
			}
		}
	}
}

func TestTerminalVelocityConvergence(t *testing.T) {
	wind := mgl64.Vec3{2, 0, 1}
	for _, v0 := range []mgl64.Vec3{{0, 0, 50}, {0, 200, 0}, {-30, -10, 5}} {
		p := defaultParameters(v0)
		p.Wind = wind
		m := NewModel(mgl64.Vec3{}, p)

		want := mgl64.Vec3{0, -35, 0}.Add(wind)
		if !omath.Vec3ApproxEq(m.TerminalVelocity(), want, 1e-9) {
			t.Fatalf("expected terminal velocity %v, got %v", want, m.TerminalVelocity())
		}
		if got := m.VelocityAtTime(1e7); !omath.Vec3ApproxEq(got, want, 1e-3) {
			t.Fatalf("v0=%v: expected convergence to %v, got %v", v0, want, got)
		}
	}
}

func TestEndToEndFixture(t *testing.T) {
	m := NewModel(mgl64.Vec3{}, LaunchParameters{
		Gravity:         mgl64.Vec3{0, -9.8, 0},
		InitialVelocity: mgl64.Vec3{0, 0, 50},
		TerminalSpeed:   40,
	})
	if math.Abs(m.K()-0.1225) > 1e-12 {
		t.Fatalf("expected k=0.1225, got %v", m.K())
	}

	pos := m.PositionAtTime(1)
	wantY := -4.9 / 1.1225
	if math.Abs(pos.Y()-wantY) > 1e-9 {
		t.Fatalf("expected y=%v, got %v", wantY, pos.Y())
	}
	if pos.Y() >= 0 || math.Abs(pos.Y()) >= 4.9 {
		t.Fatalf("expected drag to shorten the drop below 4.9, got %v", pos.Y())
	}
	if math.Abs(pos.Z()-50/1.1225) > 1e-9 {
		t.Fatalf("expected z=%v, got %v", 50/1.1225, pos.Z())
	}

	vel := m.VelocityAtTime(1)
	if vel.Z() >= 50 || vel.Z() <= 0 {
		t.Fatalf("expected forward speed to decay but stay positive, got %v", vel.Z())
	}
	if math.Abs(vel.Z()-50/(1.1225*1.1225)) > 1e-9 {
		t.Fatalf("expected vz=%v, got %v", 50/(1.1225*1.1225), vel.Z())
	}
}

func TestRebaseIsExact(t *testing.T) {
	m := NewModel(mgl64.Vec3{}, defaultParameters(mgl64.Vec3{0, 10, 60}))
	k, vInf := m.K(), m.TerminalVelocity()

	point := mgl64.Vec3{3.25, 0.5, 41.125}
	velocity := mgl64.Vec3{0.3, 12.5, -20}
	m.Rebase(point, velocity)

	if m.PositionAtTime(0) != point {
		t.Fatalf("expected position(0)=%v, got %v", point, m.PositionAtTime(0))
	}
	if m.VelocityAtTime(0) != velocity {
		t.Fatalf("expected velocity(0)=%v, got %v", velocity, m.VelocityAtTime(0))
	}
	if m.Velocity() != velocity {
		t.Fatalf("expected cached velocity %v, got %v", velocity, m.Velocity())
	}
	if m.K() != k || m.TerminalVelocity() != vInf {
		t.Fatalf("rebase must not change drag terms")
	}
}

func TestInitiateResetsState(t *testing.T) {
	m := NewModel(mgl64.Vec3{}, defaultParameters(mgl64.Vec3{50, 0, 0}))
	m.UpdateVelocity(0)
	q := mgl64.QuatIdent()
	for range 10 {
		q = m.UpdateRotation(0.02, q)
	}
	if m.AngularVelocity().Len() == 0 {
		t.Fatalf("expected heading filter to build angular velocity")
	}

	m.Initiate(mgl64.Vec3{1, 1, 1}, defaultParameters(mgl64.Vec3{0, 0, 5}))
	if m.AngularVelocity() != (mgl64.Vec3{}) {
		t.Fatalf("expected angular velocity reset, got %v", m.AngularVelocity())
	}
	if m.Origin() != (mgl64.Vec3{1, 1, 1}) || m.InitialVelocity() != (mgl64.Vec3{0, 0, 5}) {
		t.Fatalf("expected origin and initial velocity to be replaced")
	}
}

func TestInitiateRejectsInvalidTerminalSpeed(t *testing.T) {
	for _, speed := range []float64{0, -1} {
		func() {
			defer func() {
				r := recover()
				if _, ok := r.(*oerror.Error); !ok {
					t.Fatalf("expected *oerror.Error panic for terminal speed %v, got %v", speed, r)
				}
			}()
			NewModel(mgl64.Vec3{}, LaunchParameters{TerminalSpeed: speed})
		}()
	}
}

func TestInitiateRejectsNaN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on NaN velocity")
		}
	}()
	NewModel(mgl64.Vec3{}, LaunchParameters{InitialVelocity: mgl64.Vec3{math.NaN(), 0, 0}, TerminalSpeed: 1})
}
