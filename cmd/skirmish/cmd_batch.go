package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"skirmish/internal/combat"
	"skirmish/internal/sim"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Play many episodes and summarize them",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEpisodeFlags(cmd, a)
			f := cmd.Flags()
			if f.Changed("runs") {
				a.cfg.Batch.Runs, _ = f.GetInt("runs")
			}
			if f.Changed("workers") {
				a.cfg.Batch.Workers, _ = f.GetInt("workers")
			}
			if f.Changed("store") {
				a.cfg.Store.Path, _ = f.GetString("store")
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			out, _ := f.GetString("out")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			opts := a.cfg.EnvOptions()
			// Concurrent episodes never trace.
			opts.RenderMode = string(combat.RenderNone)

			var results []sim.EpisodeResult
			summary, err := sim.RunBatch(ctx, sim.BatchOptions{
				Registry:   a.registry,
				EnvID:      a.cfg.Env.ID,
				EnvOptions: opts,
				Policy:     a.cfg.Episode.Policy,
				Script:     a.cfg.ScriptActions(),
				Runs:       a.cfg.Batch.Runs,
				Workers:    a.cfg.Batch.Workers,
				Seed:       a.cfg.Episode.Seed,
				Logger:     a.logger,
				OnEpisode:  func(r sim.EpisodeResult) { results = append(results, r) },
			})
			if err != nil {
				return err
			}
			if err := saveEpisodes(ctx, a.cfg.Store.Path, results); err != nil {
				return err
			}
			if err := os.WriteFile(out, sim.MarshalPretty(summary), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Batch %d done. WinRate=%.2f, AvgTurns=%.1f -> %s\n",
				summary.Runs, summary.WinRate, summary.AvgTurns, filepath.Base(out))
			return nil
		},
	}
	addEpisodeFlags(cmd)
	cmd.Flags().Int("runs", 0, "Number of episodes")
	cmd.Flags().Int("workers", 0, "Worker goroutines")
	cmd.Flags().String("out", "summary.json", "Summary JSON file")
	cmd.Flags().String("store", "", "SQLite database to record the episodes in")
	return cmd
}
