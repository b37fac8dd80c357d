package combat

const victoryReward = 10.0

type Result int

const (
	Ongoing Result = iota
	Victory
	Defeat
	MutualKO
)

func (r Result) String() string {
	switch r {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case MutualKO:
		return "mutual_ko"
	}
	return "ongoing"
}

func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

type Outcome struct {
	Terminated bool
	Reward     float64
	Result     Result
}

// Evaluate scores the end of a turn. Only the fighter's death pays out; a dead
// rogue ends the episode with zero reward, even when both fall together.
func Evaluate(rogue, fighter Combatant) Outcome {
	o := Outcome{Terminated: rogue.Dead() || fighter.Dead()}
	if fighter.Dead() {
		o.Reward = victoryReward
	}
	switch {
	case rogue.Dead() && fighter.Dead():
		o.Result = MutualKO
	case fighter.Dead():
		o.Result = Victory
	case rogue.Dead():
		o.Result = Defeat
	}
	return o
}
