package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"skirmish/internal/combat"
	"skirmish/internal/registry"
	"skirmish/internal/util"
)

const defaultWorkers = 8

type BatchOptions struct {
	Registry   *registry.Registry
	EnvID      string
	EnvOptions combat.Options
	Policy     string
	Script     []combat.Action
	Runs       int
	Workers    int
	Seed       int64
	MaxTurns   int
	Logger     *slog.Logger
	// OnEpisode is called once per finished episode, in episode order.
	OnEpisode func(EpisodeResult)
}

type Share struct {
	Total int     `json:"total"`
	Ratio float64 `json:"ratio"`
}

type Summary struct {
	EnvID     string           `json:"env_id"`
	Policy    string           `json:"policy"`
	Runs      int              `json:"runs"`
	WinRate   float64          `json:"win_rate"`
	AvgTurns  float64          `json:"avg_turns"`
	AvgReturn float64          `json:"avg_return"`
	Results   map[string]int   `json:"results"`
	Truncated int              `json:"truncated"`
	ByAction  map[string]Share `json:"by_action"`
	Episodes  []EpisodeResult  `json:"-"`
}

// RunBatch plays opts.Runs episodes on a worker pool. Episode i is seeded with
// util.Derive(opts.Seed, i), so the summary does not depend on scheduling.
func RunBatch(ctx context.Context, opts BatchOptions) (Summary, error) {
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.EnvID == "" {
		opts.EnvID = registry.SkirmishID
	}
	if opts.Runs <= 0 {
		return Summary{}, errors.New("batch needs at least one run")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	// Fail fast on a bad env id, env options or policy before starting workers.
	if _, err := opts.Registry.Make(opts.EnvID, opts.EnvOptions); err != nil {
		return Summary{}, err
	}
	if _, err := NewPolicy(opts.Policy, PolicyParams{Rng: util.New(util.PolicySeed(opts.Seed)), Script: opts.Script}); err != nil {
		return Summary{}, err
	}

	results := make([]EpisodeResult, opts.Runs)
	errs := make([]error, opts.Runs)
	jobs := make(chan int, opts.Runs)
	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				results[i], errs[i] = runOne(ctx, opts, i, logger)
			}
		}()
	}
	for i := 0; i < opts.Runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return Summary{}, err
	}
	if opts.OnEpisode != nil {
		for _, r := range results {
			opts.OnEpisode(r)
		}
	}
	sum := Summarize(results)
	sum.EnvID = opts.EnvID
	sum.Policy = opts.Policy
	logger.Info("batch finished", "env", opts.EnvID, "policy", opts.Policy, "runs", sum.Runs,
		"win_rate", sum.WinRate, "avg_turns", sum.AvgTurns)
	return sum, nil
}

func runOne(ctx context.Context, opts BatchOptions, i int, logger *slog.Logger) (EpisodeResult, error) {
	seed := util.Derive(opts.Seed, i)
	env, err := opts.Registry.Make(opts.EnvID, opts.EnvOptions)
	if err != nil {
		return EpisodeResult{}, err
	}
	policy, err := NewPolicy(opts.Policy, PolicyParams{Rng: util.New(util.PolicySeed(seed)), Script: opts.Script})
	if err != nil {
		return EpisodeResult{}, err
	}
	res, err := RunEpisode(ctx, env, policy, EpisodeOptions{
		EnvID: opts.EnvID, Seed: seed, MaxTurns: opts.MaxTurns, Logger: logger,
	})
	if err != nil {
		return res, fmt.Errorf("episode %d: %w", i, err)
	}
	return res, nil
}

func Summarize(results []EpisodeResult) Summary {
	sum := Summary{
		Runs:     len(results),
		Results:  map[string]int{},
		ByAction: map[string]Share{},
		Episodes: results,
	}
	if len(results) == 0 {
		return sum
	}
	wins, turns, ret := 0, 0, 0.0
	actions := map[string]int{}
	totalActions := 0
	for _, r := range results {
		if r.Win() {
			wins++
		}
		if r.Truncated {
			sum.Truncated++
		}
		sum.Results[r.Result.String()]++
		turns += r.Turns
		ret += r.Return
		for k, v := range r.Actions {
			actions[k] += v
			totalActions += v
		}
	}
	n := float64(len(results))
	sum.WinRate = float64(wins) / n
	sum.AvgTurns = float64(turns) / n
	sum.AvgReturn = ret / n
	for k, v := range actions {
		share := 0.0
		if totalActions > 0 {
			share = float64(v) / float64(totalActions)
		}
		sum.ByAction[k] = Share{Total: v, Ratio: share}
	}
	return sum
}
