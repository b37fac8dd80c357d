package combat

import "math"

const (
	DefaultArenaSize = 30.0
	meleeRange       = 1.0
)

// Arena is the closed interval [0, Size].
type Arena struct{ Size float64 }

func (a Arena) Clamp(x float64) float64 { return math.Min(math.Max(x, 0), a.Size) }

func Distance(a, b float64) float64 { return math.Abs(a - b) }

func inMelee(a, b Combatant) bool { return Distance(a.Position, b.Position) <= meleeRange }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
