package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"skirmish/internal/config"
	"skirmish/internal/logging"
	"skirmish/internal/registry"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
}

func main() {
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	a := &app{registry: registry.Default()}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skirmish",
		Short: "Turn-based rogue vs fighter skirmish simulation",
		Long: `skirmish runs the one-dimensional rogue vs fighter combat environment.

A controller policy picks the rogue's action each turn (attack, heal or move);
the fighter answers with a fixed heuristic until one side falls.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
			}
			a.cfg = cfg
			a.logger = logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: info, debug or trace")

	rootCmd.AddCommand(
		newRunCmd(a),
		newBatchCmd(a),
		newEnvsCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

func newEnvsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List registered environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, id := range a.registry.IDs() {
				spec, err := a.registry.Spec(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\tmax_episode_steps=%d\n", id, spec.MaxEpisodeSteps)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := config.Write(args[0], a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Config written -> %s\n", args[0])
				return nil
			}
			b, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
