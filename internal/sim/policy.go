package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"skirmish/internal/combat"
)

// Policy picks the rogue's action from the latest observation. Policies may
// keep per-episode state and are not shared between goroutines.
type Policy interface {
	Name() string
	Act(obs combat.Observation) combat.Action
}

// Resetter is implemented by policies that need the initial observation.
type Resetter interface {
	Reset(obs combat.Observation)
}

type PolicyParams struct {
	Rng    *rand.Rand
	Script []combat.Action
}

var policyBuilders = map[string]func(PolicyParams) (Policy, error){
	"random": func(p PolicyParams) (Policy, error) {
		if p.Rng == nil {
			return nil, fmt.Errorf("random policy needs a random source")
		}
		return &RandomPolicy{rng: p.Rng}, nil
	},
	"kite":       func(PolicyParams) (Policy, error) { return &KitePolicy{}, nil },
	"aggressive": func(PolicyParams) (Policy, error) { return AggressivePolicy{}, nil },
	"script": func(p PolicyParams) (Policy, error) {
		if len(p.Script) == 0 {
			return nil, fmt.Errorf("script policy needs at least one action")
		}
		return &ScriptPolicy{actions: append([]combat.Action(nil), p.Script...)}, nil
	},
}

func NewPolicy(name string, p PolicyParams) (Policy, error) {
	build, ok := policyBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (have %v)", name, PolicyNames())
	}
	return build(p)
}

func PolicyNames() []string {
	names := make([]string, 0, len(policyBuilders))
	for n := range policyBuilders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type RandomPolicy struct{ rng *rand.Rand }

func (p *RandomPolicy) Name() string { return "random" }
func (p *RandomPolicy) Act(combat.Observation) combat.Action {
	return combat.Action(p.rng.Intn(combat.NumActions))
}

// KitePolicy strikes in reach, patches up while out of reach, and otherwise
// backs away.
type KitePolicy struct{ maxHealth float64 }

func (p *KitePolicy) Name() string { return "kite" }

func (p *KitePolicy) Reset(obs combat.Observation) { p.maxHealth = obs.RogueHealth }

func (p *KitePolicy) Act(obs combat.Observation) combat.Action {
	if combat.Distance(obs.RoguePosition, obs.FighterPosition) <= 1 {
		return combat.Attack
	}
	if obs.RogueHealth < p.maxHealth {
		return combat.Heal
	}
	return combat.Move
}

type AggressivePolicy struct{}

func (AggressivePolicy) Name() string                         { return "aggressive" }
func (AggressivePolicy) Act(combat.Observation) combat.Action { return combat.Attack }

type ScriptPolicy struct {
	actions []combat.Action
	next    int
}

func (p *ScriptPolicy) Name() string { return "script" }

func (p *ScriptPolicy) Reset(combat.Observation) { p.next = 0 }

func (p *ScriptPolicy) Act(combat.Observation) combat.Action {
	a := p.actions[p.next%len(p.actions)]
	p.next++
	return a
}
