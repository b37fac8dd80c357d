package combat

type Event struct {
	T       int            `json:"t"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const healAmount = 0.5

// Combatant is one side of the skirmish. Methods return an updated copy so the
// rogue and fighter records never alias each other.
type Combatant struct {
	Name      string  `json:"name"`
	MaxHealth float64 `json:"max_health"`
	Health    float64 `json:"health"`
	Speed     float64 `json:"speed"`
	Position  float64 `json:"position"`
}

// TakeHit removes exactly one point of health. Health may go below zero.
func (c Combatant) TakeHit() Combatant {
	c.Health -= 1
	return c
}

func (c Combatant) Heal() Combatant {
	c.Health += healAmount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c
}

func (c Combatant) Dead() bool { return c.Health <= 0 }

func (c Combatant) Hurt() bool { return c.Health < c.MaxHealth }

// Profile is the spawn template of a combatant.
type Profile struct {
	Name      string  `json:"name" yaml:"name"`
	MaxHealth float64 `json:"max_health" yaml:"max_health"`
	Speed     float64 `json:"speed" yaml:"speed"`
	// Position is only used for the rogue; the fighter's start is drawn at reset.
	Position float64 `json:"position" yaml:"position"`
}

func DefaultRogue() Profile {
	return Profile{Name: "rogue", MaxHealth: 5, Speed: 2, Position: 0}
}

func DefaultFighter() Profile {
	return Profile{Name: "fighter", MaxHealth: 3, Speed: 1}
}

func (p Profile) Spawn(pos float64) Combatant {
	return Combatant{
		Name: p.Name, MaxHealth: p.MaxHealth, Health: p.MaxHealth,
		Speed: p.Speed, Position: pos,
	}
}
