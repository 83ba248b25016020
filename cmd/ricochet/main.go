package main

import (
	"context"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/bullet"
	"github.com/oomph-ac/ricochet/pool"
	"github.com/oomph-ac/ricochet/settings"
	"github.com/oomph-ac/ricochet/simulation"
	"github.com/oomph-ac/ricochet/world"
	"github.com/sirupsen/logrus"
)

const defaultSettingsPath = "ricochet.toml"

// The following program fires a volley of bullets across a small range and reports what happened to them.
// Usage: ./ricochet [settings_path] [bullets]
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if os.Getenv("RICOCHET_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Errorf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	path, count := defaultSettingsPath, 64
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			log.Fatalf("invalid bullet count %q", os.Args[2])
		}
		count = n
	}

	s := readSettings(log, path)
	conf := s.BulletConfig()
	if _, shadowed := s.RuleSet(); len(shadowed) > 0 {
		log.Warnf("rules shadowed by an earlier rule with the same tag: %v", shadowed)
	}
	simConf, err := s.SimulationConfig()
	if err != nil {
		log.Fatal(err)
	}

	w, crate := buildRange(log)
	p := pool.New()
	p.RegisterReplacement("casing", func() bullet.Replacement { return &pool.Rigid{Tag: "casing"} })

	sched, err := simulation.New(simConf, log)
	if err != nil {
		log.Fatal(err)
	}
	host := bullet.Host{World: w, Effects: effectLogger{log: log}, Pool: p, Log: log}

	spread := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	muzzle := mgl64.Vec3{0, 1.5, 0}
	for range count {
		b, ok := p.Get(conf.PoolTag)
		if !ok {
			b = bullet.New(conf, host)
		}
		b.Launch(muzzle, aim(spread, 120))
		sched.Add(b)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	log.Infof("firing %d bullets (%s, %.0f ticks/s)", count, simConf.Mode, simConf.TickRate)
	if err := sched.Run(ctx, 0); err != nil {
		log.Warnf("simulation interrupted: %v", err)
	}

	st := sched.Stats()
	log.Infof("simulated %d ticks in %v (step %v ± %v)", st.Ticks, time.Since(start).Round(time.Millisecond), st.MeanStep, st.StdDevStep)
	log.Infof("%d ricochets, %d terminal hits, %d bullets removed, %d still in flight", st.Bounces, st.Terminals, st.Removed, st.Active)

	force, torque := crate.Drain()
	log.Infof("crate took %d impacts: force %.1f N, torque %.1f N·m", crate.Impacts(), force.Len(), torque.Len())

	ps := p.Stats(conf.PoolTag)
	log.Infof("pool %q: %d recycled, %d reused", conf.PoolTag, ps.Recycled, ps.Reused)
}

// readSettings loads the settings at path, creating a default settings file if there is none.
func readSettings(log *logrus.Logger, path string) settings.Settings {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			log.Warnf("unable to save default settings: %v", err)
		} else {
			log.Infof("created default settings at %s", path)
		}
		return settings.DefaultSettings()
	}

	s, err := settings.Load(path)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}
	return s
}

// buildRange builds a flat range with a concrete floor, a steel backstop and a wooden crate.
func buildRange(log *logrus.Logger) (*world.World, *world.RigidBody) {
	w := world.New(log)
	crate := world.NewRigidBody(40)
	w.Add(world.Object{Collider: "floor", Tag: "concrete", Box: cube.Box(-50, -1, -10, 50, 0, 150)})
	w.Add(world.Object{Collider: "backstop", Tag: "steel", Box: cube.Box(-50, 0, 140, 50, 20, 141)})
	w.Add(world.Object{Collider: "crate", Tag: "wood", Box: cube.Box(-1, 0, 60, 1, 2, 62), Body: crate})
	// Layer 8 is ignored by the default mask.
	w.Add(world.Object{Collider: "trigger", Layer: 8, Box: cube.Box(-50, 0, 30, 50, 20, 31)})
	return w, crate
}

// aim returns a muzzle velocity of the speed passed, pitched slightly down with a random spread.
func aim(r *rand.Rand, speed float64) mgl64.Vec3 {
	yaw := (r.Float64()*2 - 1) * 0.05
	pitch := -0.01 - r.Float64()*0.03
	return mgl64.Vec3{
		math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw) * math.Cos(pitch),
	}.Mul(speed)
}

type effectLogger struct {
	log *logrus.Logger
}

func (e effectLogger) SpawnEffect(effect string, position mgl64.Vec3, _ mgl64.Quat) {
	e.log.Debugf("effect %s at (%.2f, %.2f, %.2f)", effect, position.X(), position.Y(), position.Z())
}
