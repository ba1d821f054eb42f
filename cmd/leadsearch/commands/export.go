package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	to  string
	out string
}

var exportOpts exportFlags

func init() {
	flags := exportCmd.Flags()
	flags.StringVarP(&exportOpts.to, "to", "t", "", fmt.Sprintf("Where to export, one of %s.", strings.Join(sinkNames, ", ")))
	flags.StringVarP(&exportOpts.out, "out", "o", "", "File to write when exporting to csv.")
	exportCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <run id> --to <target>",
	Short: "Exports the results of a previous search without searching again.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(rootOpts.config)
		if err != nil {
			return err
		}
		if err := checkSink(exportOpts.to, cfg); err != nil {
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
		return exportRecords(ctx, exportOpts.to, cfg, exportOpts.out, run.Query, run.Records, columnsFor(run.Provider))
	},
}
