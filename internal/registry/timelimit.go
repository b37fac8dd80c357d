package registry

import "skirmish/internal/combat"

// TimeLimit truncates episodes after a fixed number of steps.
type TimeLimit struct {
	env     combat.Environment
	max     int
	elapsed int
	done    bool
}

func NewTimeLimit(env combat.Environment, maxSteps int) *TimeLimit {
	return &TimeLimit{env: env, max: maxSteps}
}

func (t *TimeLimit) Unwrap() combat.Environment { return t.env }
func (t *TimeLimit) MaxSteps() int              { return t.max }
func (t *TimeLimit) Elapsed() int               { return t.elapsed }

func (t *TimeLimit) Reset(opts combat.ResetOptions) (combat.Observation, combat.Info, error) {
	obs, info, err := t.env.Reset(opts)
	if err != nil {
		return obs, info, err
	}
	t.elapsed = 0
	t.done = false
	return obs, info, nil
}

func (t *TimeLimit) Step(a combat.Action) (combat.StepResult, error) {
	if t.done {
		return combat.StepResult{}, combat.ErrEpisodeConcluded
	}
	res, err := t.env.Step(a)
	if err != nil {
		return res, err
	}
	t.elapsed++
	if t.elapsed >= t.max && !res.Terminated {
		res.Truncated = true
	}
	t.done = res.Terminated || res.Truncated
	return res, nil
}
