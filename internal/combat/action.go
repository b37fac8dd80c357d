package combat

import (
	"fmt"
	"strings"
)

type Action int

const (
	// NoAction labels a fighter that was already down when its turn came.
	NoAction Action = iota - 1
	Attack
	Heal
	Move
)

// NumActions is the size of the rogue's discrete action space.
const NumActions = 3

var actionNames = [...]string{"ATTACK", "HEAL", "MOVE"}

func (a Action) Valid() bool { return a >= Attack && a <= Move }

func (a Action) String() string {
	if a == NoAction {
		return "NONE"
	}
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAction accepts an action name (any case) or its numeric index.
func ParseAction(s string) (Action, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range actionNames {
		if key == n || key == fmt.Sprint(i) {
			return Action(i), nil
		}
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}
