package combat

import "math"

// Box bounds each observation component.
type Box struct {
	Low  [4]float64
	High [4]float64
}

func (b Box) Contains(o Observation) bool {
	v := o.Vector()
	for i := range v {
		if v[i] < b.Low[i] || v[i] > b.High[i] {
			return false
		}
	}
	return true
}

type Discrete struct{ N int }

func (d Discrete) Contains(a Action) bool { return int(a) >= 0 && int(a) < d.N }

// ObservationSpace bounds positions by the arena. Health has no floor: a
// killing hit at 0.5 leaves -0.5.
func ObservationSpace(arena Arena) Box {
	return Box{
		Low:  [4]float64{math.Inf(-1), 0, math.Inf(-1), 0},
		High: [4]float64{math.Inf(1), arena.Size, math.Inf(1), arena.Size},
	}
}

func ActionSpace() Discrete { return Discrete{N: NumActions} }
