package combat

import "math"

// fighterRule is one branch of the fighter's selector: the first rule whose
// condition holds decides the action.
type fighterRule struct {
	action Action
	when   func(rogue, fighter Combatant) bool
	apply  func(rogue, fighter Combatant) (Combatant, Combatant)
}

// FighterPolicy is the opponent heuristic: attack in reach, heal when hurt,
// otherwise close in. It holds no state and uses no randomness.
type FighterPolicy struct {
	rules []fighterRule
}

func NewFighterPolicy() *FighterPolicy {
	return &FighterPolicy{rules: []fighterRule{
		{action: Attack, when: inMelee, apply: func(r, f Combatant) (Combatant, Combatant) {
			return r.TakeHit(), f
		}},
		{action: Heal, when: func(_, f Combatant) bool { return f.Hurt() }, apply: func(r, f Combatant) (Combatant, Combatant) {
			return r, f.Heal()
		}},
		{action: Move, when: func(_, _ Combatant) bool { return true }, apply: func(r, f Combatant) (Combatant, Combatant) {
			f.Position = chase(f, r.Position)
			return r, f
		}},
	}}
}

// Decide returns the fighter's action and the resulting pair. A dead fighter
// does nothing and reports NoAction.
func (p *FighterPolicy) Decide(rogue, fighter Combatant) (Action, Combatant, Combatant) {
	if fighter.Dead() {
		return NoAction, rogue, fighter
	}
	for _, rule := range p.rules {
		if rule.when(rogue, fighter) {
			r, f := rule.apply(rogue, fighter)
			return rule.action, r, f
		}
	}
	return NoAction, rogue, fighter
}

// chase moves toward target by speed, snapping onto it when within one stride.
func chase(c Combatant, target float64) float64 {
	gap := target - c.Position
	if math.Abs(gap) <= c.Speed {
		return target
	}
	return c.Position + sign(gap)*c.Speed
}
