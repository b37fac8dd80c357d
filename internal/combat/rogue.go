package combat

// ResolveRogue applies the rogue's action. Exactly one of fighter health, rogue
// health or rogue position can change; effective reports whether it did.
func ResolveRogue(a Action, rogue, fighter Combatant, arena Arena) (Combatant, Combatant, bool) {
	switch a {
	case Attack:
		if !inMelee(rogue, fighter) {
			return rogue, fighter, false
		}
		return rogue, fighter.TakeHit(), true
	case Heal:
		healed := rogue.Heal()
		return healed, fighter, healed.Health != rogue.Health
	case Move:
		moved := rogue
		moved.Position = retreat(rogue, fighter.Position, arena)
		return moved, fighter, moved.Position != rogue.Position
	}
	return rogue, fighter, false
}

// retreat picks the reachable position farthest from threat. Forward wins ties.
func retreat(c Combatant, threat float64, arena Arena) float64 {
	fwd := arena.Clamp(c.Position + c.Speed)
	back := arena.Clamp(c.Position - c.Speed)
	if Distance(threat, back) > Distance(threat, fwd) {
		return back
	}
	return fwd
}
