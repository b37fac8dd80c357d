package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skirmish/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("store") {
				a.cfg.Store.Path, _ = f.GetString("store")
			}
			if a.cfg.Store.Path == "" {
				return errors.New("no store configured: pass --store or set store.path")
			}
			limit, _ := f.GetInt("limit")
			policy, _ := f.GetString("policy")

			s, err := store.Open(a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			eps, err := s.Recent(ctx, limit)
			if err != nil {
				return err
			}
			st, err := s.Stats(ctx, policy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPOLICY\tSEED\tTURNS\tRETURN\tRESULT\tTRUNCATED")
			for _, ep := range eps {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%s\t%v\n",
					ep.ID, ep.Policy, ep.Seed, ep.Turns, ep.Return, ep.Result, ep.Truncated)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			scope := "all policies"
			if policy != "" {
				scope = policy
			}
			fmt.Fprintf(out, "\n%d episodes (%s): %d victories, %d defeats, %d mutual KOs, %d truncated, avg turns %.1f, avg return %.2f\n",
				st.Episodes, scope, st.Victories, st.Defeats, st.MutualKOs, st.Truncated, st.AvgTurns, st.AvgReturn)
			return nil
		},
	}
	cmd.Flags().String("store", "", "SQLite episode database")
	cmd.Flags().Int("limit", 20, "Number of recent episodes to list")
	cmd.Flags().String("policy", "", "Restrict the aggregate to one policy")
	return cmd
}
