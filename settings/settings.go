package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/ricochet/bullet"
	"github.com/oomph-ac/ricochet/collision"
	"github.com/oomph-ac/ricochet/impact"
	"github.com/oomph-ac/ricochet/simulation"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a projectile simulation.
type Settings struct {
	Projectile struct {
		PoolTag         string
		LifeTime        float64
		DebugTrajectory bool
		Gravity         Vector
		Wind            Vector
		// TerminalVelocity is the speed approached in free fall.
		TerminalVelocity  float64
		UpdateRotation    bool
		RotationStiffness float64
		RotationDamping   float64
	}
	Collision struct {
		// IgnoredLayers lists the layers segment tests skip.
		IgnoredLayers       []int
		Ricochet            bool
		MaxBounces          int
		RicochetProbability float64
		RicochetSpeedFactor float64
		MaxRicochetAngle    float64
		RicochetJitter      float64
	}
	// DefaultRule applies to surfaces no rule matches.
	DefaultRule Rule
	Rules       []Rule
	Simulation  struct {
		TickRate float64
		// Mode is either "sequential" or "parallel".
		Mode string
	}
}

// Vector is a 3D vector as it appears in the settings file.
type Vector struct {
	X, Y, Z float64
}

// Vec3 converts the vector.
func (v Vector) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func vector(v mgl64.Vec3) Vector {
	return Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Rule is an impact rule as it appears in the settings file.
type Rule struct {
	Tag           string
	CollisionMass float64
	DestroyOnHit  bool
	PullOnBounce  bool
	EndEffect     string
	BounceEffect  string
	Replacement   string
}

func (r Rule) rule() impact.Rule {
	return impact.Rule(r)
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{}

	bc := bullet.DefaultConfig()
	settings.Projectile.PoolTag = bc.PoolTag
	settings.Projectile.LifeTime = bc.LifeTime
	settings.Projectile.Gravity = vector(bc.Properties.Gravity)
	settings.Projectile.TerminalVelocity = bc.Properties.TerminalVelocity
	settings.Projectile.UpdateRotation = bc.Properties.UpdateRotation
	settings.Projectile.RotationStiffness = bc.Properties.RotationStiffness
	settings.Projectile.RotationDamping = bc.Properties.RotationDamping

	cc := collision.DefaultConfig()
	settings.Collision.IgnoredLayers = []int{8}
	settings.Collision.Ricochet = cc.Ricochet
	settings.Collision.MaxBounces = cc.MaxBounces
	settings.Collision.RicochetProbability = cc.RicochetProbability
	settings.Collision.RicochetSpeedFactor = cc.RicochetSpeedFactor
	settings.Collision.MaxRicochetAngle = cc.MaxRicochetAngle
	settings.Collision.RicochetJitter = cc.RicochetJitter

	settings.DefaultRule = Rule(impact.DefaultRule())

	sc := simulation.DefaultConfig()
	settings.Simulation.TickRate = sc.TickRate
	settings.Simulation.Mode = sc.Mode.String()
	return settings
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist or
// the settings in it are invalid.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err = settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// LayerMask returns the layer mask built from the ignored layers.
func (s Settings) LayerMask() collision.LayerMask {
	mask := ^collision.LayerMask(0)
	for _, l := range s.Collision.IgnoredLayers {
		if l >= 0 && l < 32 {
			mask &^= 1 << l
		}
	}
	return mask
}

// Validate reports every problem with the settings at once.
func (s Settings) Validate() error {
	var problems []string
	if s.Projectile.LifeTime <= 0 {
		problems = append(problems, fmt.Sprintf("projectile life time must be positive, got %v", s.Projectile.LifeTime))
	}
	if s.Projectile.TerminalVelocity <= 0 {
		problems = append(problems, fmt.Sprintf("terminal velocity must be positive, got %v", s.Projectile.TerminalVelocity))
	}
	if s.Projectile.RotationStiffness < 0 || s.Projectile.RotationDamping < 0 {
		problems = append(problems, "rotation stiffness and damping must not be negative")
	}
	for _, l := range s.Collision.IgnoredLayers {
		if l < 0 || l >= 32 {
			problems = append(problems, fmt.Sprintf("ignored layer %d out of range [0, 32)", l))
		}
	}
	if err := s.collisionConfig().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	for i, r := range s.Rules {
		if r.Tag == "" {
			problems = append(problems, fmt.Sprintf("rule %d has no tag", i))
		}
	}
	if s.Simulation.TickRate <= 0 {
		problems = append(problems, fmt.Sprintf("tick rate must be positive, got %v", s.Simulation.TickRate))
	}
	if _, err := simulation.ParseMode(s.Simulation.Mode); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// RuleSet builds the impact rule set. Rules are matched in the order they appear in the file, so a rule
// repeating an earlier tag is shadowed. The tags of shadowed rules are returned alongside the set.
func (s Settings) RuleSet() (*impact.RuleSet, []string) {
	rules := impact.NewRuleSet(s.DefaultRule.rule())
	var shadowed []string
	for _, r := range s.Rules {
		if !rules.Add(r.rule()) && r.Tag != "" {
			shadowed = append(shadowed, r.Tag)
		}
	}
	return rules, shadowed
}

func (s Settings) collisionConfig() collision.Config {
	return collision.Config{
		HitLayers:           s.LayerMask(),
		Ricochet:            s.Collision.Ricochet,
		MaxBounces:          s.Collision.MaxBounces,
		RicochetProbability: s.Collision.RicochetProbability,
		RicochetSpeedFactor: s.Collision.RicochetSpeedFactor,
		MaxRicochetAngle:    s.Collision.MaxRicochetAngle,
		RicochetJitter:      s.Collision.RicochetJitter,
	}
}

// BulletConfig builds the bullet configuration described by the settings. The settings must be valid.
func (s Settings) BulletConfig() bullet.Config {
	rules, _ := s.RuleSet()
	return bullet.Config{
		PoolTag:         s.Projectile.PoolTag,
		LifeTime:        s.Projectile.LifeTime,
		DebugTrajectory: s.Projectile.DebugTrajectory,
		Properties: bullet.Properties{
			Gravity:           s.Projectile.Gravity.Vec3(),
			Wind:              s.Projectile.Wind.Vec3(),
			TerminalVelocity:  s.Projectile.TerminalVelocity,
			UpdateRotation:    s.Projectile.UpdateRotation,
			RotationStiffness: s.Projectile.RotationStiffness,
			RotationDamping:   s.Projectile.RotationDamping,
		},
		Collision: s.collisionConfig(),
		Rules:     rules,
	}
}

// SimulationConfig builds the scheduler configuration described by the settings.
func (s Settings) SimulationConfig() (simulation.Config, error) {
	mode, err := simulation.ParseMode(s.Simulation.Mode)
	if err != nil {
		return simulation.Config{}, err
	}
	return simulation.Config{TickRate: s.Simulation.TickRate, Mode: mode}, nil
}
