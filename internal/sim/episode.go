package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"skirmish/internal/combat"
	"skirmish/internal/logging"
	"skirmish/internal/store"
)

type EpisodeOptions struct {
	EnvID string
	Seed  int64
	// FighterPosition pins the fighter's start for scripted scenarios.
	FighterPosition *float64
	// MaxTurns stops an uncapped environment; 0 leaves it to the environment.
	MaxTurns int
	// Record keeps per-turn steps and all combat events in the result.
	Record bool
	// Emit additionally receives every combat event as it happens.
	Emit   func(combat.Event)
	Logger *slog.Logger
}

type StepRecord struct {
	Turn          int                `json:"turn"`
	Action        combat.Action      `json:"action"`
	FighterAction string             `json:"fighter_action"`
	Reward        float64            `json:"reward"`
	Observation   combat.Observation `json:"observation"`
}

type EpisodeResult struct {
	ID         string             `json:"id"`
	EnvID      string             `json:"env_id"`
	Policy     string             `json:"policy"`
	Seed       int64              `json:"seed"`
	Turns      int                `json:"turns"`
	Return     float64            `json:"return"`
	Result     combat.Result      `json:"result"`
	Terminated bool               `json:"terminated"`
	Truncated  bool               `json:"truncated"`
	Initial    combat.Observation `json:"initial"`
	Final      combat.Observation `json:"final"`
	Actions    map[string]int     `json:"actions"`
	Steps      []StepRecord       `json:"steps,omitempty"`
	Events     []combat.Event     `json:"events,omitempty"`
}

func (r EpisodeResult) Win() bool { return r.Result == combat.Victory || r.Result == combat.MutualKO }

// Record converts the result for the episode store.
func (r EpisodeResult) Record() store.Episode {
	return store.Episode{
		ID: r.ID, EnvID: r.EnvID, Policy: r.Policy, Seed: r.Seed,
		Turns: r.Turns, Return: r.Return, Result: r.Result.String(), Truncated: r.Truncated,
		RogueHealth: r.Final.RogueHealth, FighterHealth: r.Final.FighterHealth,
	}
}

type emitterSetter interface {
	SetEmitter(func(combat.Event))
}

type unwrapper interface {
	Unwrap() combat.Environment
}

// attachEmitter finds the innermost environment that emits events.
func attachEmitter(env combat.Environment, emit func(combat.Event)) bool {
	for env != nil {
		if s, ok := env.(emitterSetter); ok {
			s.SetEmitter(emit)
			return true
		}
		u, ok := env.(unwrapper)
		if !ok {
			return false
		}
		env = u.Unwrap()
	}
	return false
}

// RunEpisode resets env with the episode seed and lets policy play until the
// episode terminates or is truncated.
func RunEpisode(ctx context.Context, env combat.Environment, policy Policy, opts EpisodeOptions) (EpisodeResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	res := EpisodeResult{
		ID:      uuid.New().String(),
		EnvID:   opts.EnvID,
		Policy:  policy.Name(),
		Seed:    opts.Seed,
		Actions: map[string]int{},
	}

	if opts.Record || opts.Emit != nil {
		attachEmitter(env, func(ev combat.Event) {
			if opts.Record {
				res.Events = append(res.Events, ev)
			}
			if opts.Emit != nil {
				opts.Emit(ev)
			}
		})
		defer attachEmitter(env, nil)
	}

	seed := opts.Seed
	obs, _, err := env.Reset(combat.ResetOptions{Seed: &seed, FighterPosition: opts.FighterPosition})
	if err != nil {
		return res, fmt.Errorf("reset: %w", err)
	}
	res.Initial, res.Final = obs, obs
	if r, ok := policy.(Resetter); ok {
		r.Reset(obs)
	}
	logger.Debug("episode started", "id", res.ID, "policy", res.Policy, "seed", res.Seed,
		"fighter_x", obs.FighterPosition)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		a := policy.Act(obs)
		step, err := env.Step(a)
		if err != nil {
			return res, fmt.Errorf("turn %d: %w", res.Turns+1, err)
		}
		res.Turns++
		res.Return += step.Reward
		res.Actions[a.String()]++
		obs = step.Observation
		res.Final = obs

		fighterAction, _ := step.Info["fighter_action"].(string)
		if opts.Record {
			res.Steps = append(res.Steps, StepRecord{
				Turn: res.Turns, Action: a, FighterAction: fighterAction,
				Reward: step.Reward, Observation: obs,
			})
		}
		logger.Log(ctx, logging.LevelTrace, "turn",
			"id", res.ID, "turn", res.Turns, "action", a.String(), "fighter_action", fighterAction,
			"rogue_hp", obs.RogueHealth, "rogue_x", obs.RoguePosition,
			"fighter_hp", obs.FighterHealth, "fighter_x", obs.FighterPosition)

		if step.Terminated {
			res.Terminated = true
			break
		}
		if step.Truncated || (opts.MaxTurns > 0 && res.Turns >= opts.MaxTurns) {
			res.Truncated = true
			break
		}
	}

	res.Result = resultOf(res.Final)
	logger.Debug("episode finished", "id", res.ID, "turns", res.Turns, "return", res.Return,
		"result", res.Result.String(), "truncated", res.Truncated)
	return res, nil
}

func resultOf(o combat.Observation) combat.Result {
	rogue := combat.Combatant{Health: o.RogueHealth}
	fighter := combat.Combatant{Health: o.FighterHealth}
	return combat.Evaluate(rogue, fighter).Result
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
