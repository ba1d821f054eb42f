package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <run id>",
	Short: "Prints the results of a previous search.",
	Args:  cobra.ExactArgs(1),
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

		run, err := s.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%q via %s, %d results\n", run.Query, run.Provider, len(run.Records))
		err = printBatch(ctx, run.Records, columnsFor(run.Provider))
		if err != nil {
			return err
		}
		if run.Failure != "" {
			fmt.Fprintf(out, "this search stopped early: %s\n", run.Failure)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <run id>",
	Short: "Removes a search from the history.",
	Args:  cobra.ExactArgs(1),
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

		err = s.DeleteRun(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "deleted", args[0])
		return nil
	},
}
