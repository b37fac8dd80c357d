package combat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRenderMode = errors.New("invalid render mode")
	ErrInvalidArenaSize  = errors.New("arena size must be positive")
	ErrInvalidProfile    = errors.New("invalid combatant profile")
	ErrInvalidAction     = errors.New("invalid action")
	ErrNotReset          = errors.New("step called before reset")
	ErrEpisodeConcluded  = errors.New("episode has concluded; call reset")
)

// InvalidActionError reports an action outside the discrete action space.
type InvalidActionError struct {
	Action Action
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %d: must be in [0, %d)", int(e.Action), NumActions)
}

func (e *InvalidActionError) Is(target error) bool { return target == ErrInvalidAction }
