package impact

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Rule maps a struck surface to its effects and physical response.
type Rule struct {
	// Tag is the surface tag the rule applies to. It is ignored for the default rule.
	Tag string
	// CollisionMass is the mass used to derive the kinetic energy pushed into struck bodies.
	CollisionMass float64
	// DestroyOnHit removes the projectile even when the hit is a ricochet.
	DestroyOnHit bool
	// PullOnBounce applies a force to the struck body, if it has one.
	PullOnBounce bool
	// EndEffect is spawned when the hit ends the flight.
	EndEffect string
	// BounceEffect is spawned when the projectile ricochets.
	BounceEffect string
	// Replacement is the pool tag of an object that takes the place of the removed projectile.
	Replacement string
}

// DefaultRule returns the rule used when no configured rule matches.
func DefaultRule() Rule {
	return Rule{
		CollisionMass: 5,
		DestroyOnHit:  true,
		PullOnBounce:  true,
	}
}

// RuleSet looks up rules by surface tag. The first configured rule for a tag wins and surfaces without a
// matching rule fall back to the default rule.
type RuleSet struct {
	def   Rule
	rules *orderedmap.OrderedMap[string, Rule]
}

// NewRuleSet returns a RuleSet with the default rule and the rules passed, in configuration order.
// Rules with an empty tag can never match and are dropped.
func NewRuleSet(def Rule, rules ...Rule) *RuleSet {
	s := &RuleSet{def: def, rules: orderedmap.NewOrderedMap[string, Rule]()}
	for _, r := range rules {
		s.Add(r)
	}
	return s
}

// Add appends a rule. It reports false if the tag is empty or already shadowed by an earlier rule.
func (s *RuleSet) Add(r Rule) bool {
	if r.Tag == "" {
		return false
	}
	if _, ok := s.rules.Get(r.Tag); ok {
		return false
	}
	s.rules.Set(r.Tag, r)
	return true
}

// Lookup returns the rule for tag. The bool is false when the default rule was selected.
func (s *RuleSet) Lookup(tag string) (Rule, bool) {
	if tag != "" {
		if r, ok := s.rules.Get(tag); ok {
			return r, true
		}
	}
	return s.def, false
}

// Default returns the default rule.
func (s *RuleSet) Default() Rule {
	return s.def
}

// Rules returns the configured rules in configuration order.
func (s *RuleSet) Rules() []Rule {
	rules := make([]Rule, 0, s.rules.Len())
	for el := s.rules.Front(); el != nil; el = el.Next() {
		rules = append(rules, el.Value)
	}
	return rules
}

// Len returns the number of configured rules, not counting the default rule.
func (s *RuleSet) Len() int {
	return s.rules.Len()
}
