package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"skirmish/internal/combat"
	"skirmish/internal/logging"
	"skirmish/internal/sim"
	"skirmish/internal/store"
	"skirmish/internal/util"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a single episode",
		Long: `Play one episode with the chosen controller policy.

With --render human every turn is traced to stdout. The full result, including
per-turn steps and combat events, is written as JSON to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEpisodeFlags(cmd, a)
			if cmd.Flags().Changed("render") {
				a.cfg.Arena.RenderMode, _ = cmd.Flags().GetString("render")
			}
			if cmd.Flags().Changed("events") {
				a.cfg.Logging.Events, _ = cmd.Flags().GetString("events")
			}
			if cmd.Flags().Changed("store") {
				a.cfg.Store.Path, _ = cmd.Flags().GetString("store")
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")

			var fighterPos *float64
			if cmd.Flags().Changed("fighter-pos") {
				v, _ := cmd.Flags().GetFloat64("fighter-pos")
				fighterPos = &v
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSingle(ctx, cmd, a, out, fighterPos)
		},
	}
	addEpisodeFlags(cmd)
	cmd.Flags().String("render", "none", "Render mode: none or human")
	cmd.Flags().String("out", "out.json", "Episode result JSON file (empty to skip)")
	cmd.Flags().String("events", "", "Append combat events as JSONL to this file")
	cmd.Flags().String("store", "", "SQLite database to record the episode in")
	cmd.Flags().Float64("fighter-pos", 0, "Pin the fighter's starting position")
	return cmd
}

func runSingle(ctx context.Context, cmd *cobra.Command, a *app, out string, fighterPos *float64) error {
	cfg := a.cfg
	opts := cfg.EnvOptions()
	opts.Trace = cmd.OutOrStdout()
	env, err := a.registry.Make(cfg.Env.ID, opts)
	if err != nil {
		return err
	}
	policy, err := sim.NewPolicy(cfg.Episode.Policy, sim.PolicyParams{
		Rng: util.New(util.PolicySeed(cfg.Episode.Seed)), Script: cfg.ScriptActions(),
	})
	if err != nil {
		return err
	}

	events, err := logging.OpenEventLog(cfg.Logging.Events)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer events.Close()

	res, err := sim.RunEpisode(ctx, env, policy, sim.EpisodeOptions{
		EnvID:           cfg.Env.ID,
		Seed:            cfg.Episode.Seed,
		FighterPosition: fighterPos,
		Record:          out != "",
		Emit:            func(ev combat.Event) { events.Log(ev) },
		Logger:          a.logger,
	})
	if err != nil {
		return err
	}

	if out != "" {
		if err := os.WriteFile(out, sim.MarshalPretty(res), 0644); err != nil {
			return err
		}
	}
	if err := saveEpisodes(ctx, cfg.Store.Path, []sim.EpisodeResult{res}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Episode finished. Result=%s, Turns=%d, Return=%.1f, Truncated=%v",
		res.Result, res.Turns, res.Return, res.Truncated)
	if out != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " -> %s", out)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func addEpisodeFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Random seed")
	cmd.Flags().String("policy", "", "Controller policy: "+strings.Join(sim.PolicyNames(), ", "))
	cmd.Flags().StringSlice("script", nil, "Action cycle for the script policy, e.g. move,attack,heal")
	cmd.Flags().String("env", "", "Registered environment id")
	cmd.Flags().Float64("arena", 0, "Arena size")
}

// applyEpisodeFlags lets explicit flags win over config values.
func applyEpisodeFlags(cmd *cobra.Command, a *app) {
	f := cmd.Flags()
	if f.Changed("seed") {
		a.cfg.Episode.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("policy") {
		a.cfg.Episode.Policy, _ = f.GetString("policy")
	}
	if f.Changed("script") {
		a.cfg.Episode.Script, _ = f.GetStringSlice("script")
		if !f.Changed("policy") {
			a.cfg.Episode.Policy = "script"
		}
	}
	if f.Changed("env") {
		a.cfg.Env.ID, _ = f.GetString("env")
	}
	if f.Changed("arena") {
		a.cfg.Arena.Size, _ = f.GetFloat64("arena")
	}
}

func saveEpisodes(ctx context.Context, path string, results []sim.EpisodeResult) error {
	if path == "" {
		return nil
	}
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	recs := make([]store.Episode, 0, len(results))
	for _, r := range results {
		recs = append(recs, r.Record())
	}
	return s.SaveEpisodes(ctx, recs)
}
