package simulation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oomph-ac/ricochet/bullet"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/omath"
	"github.com/oomph-ac/ricochet/utils"
	"github.com/oomph-ac/ricochet/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Mode selects how a Scheduler ticks its bullets.
type Mode uint8

const (
	// ModeSequential ticks bullets one after another on the calling goroutine.
	ModeSequential Mode = iota
	// ModeParallel fans the ticks of a step out over the worker pool. The collaborators shared by the
	// bullets must then be safe for concurrent use.
	ModeParallel
)

func (m Mode) String() string {
	if m == ModeParallel {
		return "parallel"
	}
	return "sequential"
}

// ParseMode parses the name of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "sequential":
		return ModeSequential, nil
	case "parallel":
		return ModeParallel, nil
	}
	return 0, fmt.Errorf("unknown simulation mode %q", s)
}

const stepWindow = 128

// Config is the configuration of a Scheduler.
type Config struct {
	// TickRate is the amount of fixed steps per simulated second.
	TickRate float64
	Mode     Mode
}

// DefaultConfig returns the default scheduler configuration: 50 sequential ticks per second.
func DefaultConfig() Config {
	return Config{TickRate: 50}
}

// Stats summarises what a Scheduler has done.
type Stats struct {
	Ticks     uint64
	Active    int
	Bounces   uint64
	Terminals uint64
	Removed   uint64
	// MeanStep and StdDevStep describe the wall time of recent steps.
	MeanStep   time.Duration
	StdDevStep time.Duration
}

// Scheduler advances a set of bullets with a fixed step.
type Scheduler struct {
	dt   float64
	mode Mode
	log  *logrus.Logger

	mu      deadlock.Mutex
	bullets []*bullet.Bullet
	steps   *utils.CircularQueue[float64]

	ticks     atomic.Uint64
	bounces   atomic.Uint64
	terminals atomic.Uint64
	removed   atomic.Uint64
}

// New returns a scheduler with the configuration passed. A nil logger discards all output.
func New(conf Config, log *logrus.Logger) (*Scheduler, error) {
	if conf.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %v", conf.TickRate)
	}
	if log == nil {
		log = logrus.New()
		log.Out = io.Discard
	}
	return &Scheduler{
		dt:    1 / conf.TickRate,
		mode:  conf.Mode,
		log:   log,
		steps: utils.NewCircularQueue[float64](stepWindow),
	}, nil
}

// Delta returns the fixed step of the scheduler in seconds.
func (s *Scheduler) Delta() float64 {
	return s.dt
}

// Add schedules a launched bullet. Bullets that are already removed are ignored.
func (s *Scheduler) Add(b *bullet.Bullet) {
	if b.Removed() {
		return
	}
	s.mu.Lock()
	s.bullets = append(s.bullets, b)
	s.mu.Unlock()
}

// Active returns the amount of bullets still in flight.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bullets)
}

// Step advances every scheduled bullet by one fixed step and drops the ones that were removed.
func (s *Scheduler) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	outcomes := make([]collision.Outcome, len(s.bullets))
	switch s.mode {
	case ModeParallel:
		var g worker.Group
		for i, b := range s.bullets {
			g.Go(func() {
				outcomes[i] = b.FixedUpdate(s.dt)
			})
		}
		g.Wait()
	default:
		for i, b := range s.bullets {
			outcomes[i] = b.FixedUpdate(s.dt)
		}
	}

	active := s.bullets[:0]
	for i, b := range s.bullets {
		switch outcomes[i] {
		case collision.OutcomeBounce:
			s.bounces.Inc()
		case collision.OutcomeTerminal:
			s.terminals.Inc()
		}
		if b.Removed() {
			s.removed.Inc()
			continue
		}
		active = append(active, b)
	}
	clear(s.bullets[len(active):])
	s.bullets = active

	s.steps.Append(time.Since(start).Seconds())
	s.ticks.Inc()
}

// Run steps the scheduler until ticks steps have been taken, no bullets remain or ctx is done. A tick
// count of zero or less runs until the bullets are gone. It returns the context error if it was
// cancelled.
func (s *Scheduler) Run(ctx context.Context, ticks int) error {
	s.log.Debugf("simulation: running %s at %.0f ticks/s", s.mode, 1/s.dt)
	for n := 0; ticks <= 0 || n < ticks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if s.Active() == 0 {
			break
		}
		s.Step()
	}
	st := s.Stats()
	s.log.Debugf("simulation: finished after %d ticks, %d bounces, %d terminal hits, %d removed", st.Ticks, st.Bounces, st.Terminals, st.Removed)
	return nil
}

// Stats returns the current statistics of the scheduler.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	samples := s.steps.Slice()
	active := len(s.bullets)
	s.mu.Unlock()

	return Stats{
		Ticks:      s.ticks.Load(),
		Active:     active,
		Bounces:    s.bounces.Load(),
		Terminals:  s.terminals.Load(),
		Removed:    s.removed.Load(),
		MeanStep:   time.Duration(omath.Mean(samples) * float64(time.Second)),
		StdDevStep: time.Duration(omath.StandardDeviation(samples) * float64(time.Second)),
	}
}
