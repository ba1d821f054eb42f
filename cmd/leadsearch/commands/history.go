package commands

import (
	"fmt"
	"strings"
	"time"

	"leadsearch/internal/export"
	"leadsearch/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type historyFlags struct {
	like      string
	threshold float64
}

var historyOpts historyFlags

func init() {
	flags := historyCmd.Flags()
	flags.StringVar(&historyOpts.like, "like", "", "Only show searches similar to this query.")
	flags.Float64Var(&historyOpts.threshold, "threshold", 0.85, "How similar a query must be to match --like, between 0 and 1.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--like <query>]",
	Short: "Lists previous searches.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(rootOpts.config)
		if err != nil {
			return err
		}
		s, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		var runs []store.RunSummary
		if strings.TrimSpace(historyOpts.like) != "" {
			runs, err = s.FindRuns(ctx, historyOpts.like, historyOpts.threshold)
		} else {
			runs, err = s.ListRuns(ctx)
		}
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no searches found")
			return nil
		}

		renderRuns(cmd, runs, historyOpts.like != "")
		return nil
	},
}

func renderRuns(cmd *cobra.Command, runs []store.RunSummary, withSimilarity bool) {
	t := export.NewTable(cmd.OutOrStdout())
	header := table.Row{"ID", "Query", "Provider", "Results", "Searched", "Stopped Early"}
	if withSimilarity {
		header = append(header, "Similarity")
	}
	t.AppendHeader(header)

	for _, r := range runs {
		row := table.Row{
			r.ID,
			r.Query,
			r.Provider,
			r.Count,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Failure,
		}
		if withSimilarity {
			row = append(row, fmt.Sprintf("%.2f", r.Similarity))
		}
		t.AppendRow(row)
	}
	t.Render()
}
