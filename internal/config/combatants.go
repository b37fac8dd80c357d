package config

import "skirmish/internal/combat"

type CombatantDef struct {
	Name      string  `yaml:"name"`
	MaxHealth float64 `yaml:"max_health"`
	Speed     float64 `yaml:"speed"`
	// Spawn is the rogue's starting position. The fighter's start is drawn at
	// reset, so a fighter spawn must stay 0.
	Spawn     float64 `yaml:"spawn"`
}

func fromProfile(p combat.Profile) CombatantDef {
	return CombatantDef{Name: p.Name, MaxHealth: p.MaxHealth, Speed: p.Speed, Spawn: p.Position}
}

func (d CombatantDef) Profile() combat.Profile {
	return combat.Profile{Name: d.Name, MaxHealth: d.MaxHealth, Speed: d.Speed, Position: d.Spawn}
}
