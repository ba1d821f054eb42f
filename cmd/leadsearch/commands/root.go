package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"leadsearch/internal/components/chrono"
	"leadsearch/internal/components/telemetry"
	libtelemetry "leadsearch/lib/telemetry"
	"leadsearch/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	tel   telemetry.API = telemetry.SlogAPI{}
	clock chrono.API    = chrono.NewStandardImpl()

	providers libtelemetry.Telemetry
)

type rootFlags struct {
	config  string
	verbose bool
	format  string
}

var rootOpts rootFlags

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootOpts.config, "config", "c", "", "Config file to use (default: the closest config.json5).")
	flags.BoolVarP(&rootOpts.verbose, "verbose", "v", false, "Show debug output.")
	flags.StringVar(&rootOpts.format, "format", "table", "How results are printed: table, markdown or html.")
}

var rootCmd = &cobra.Command{
	Use:   "leadsearch",
	Short: "leadsearch finds businesses, checks their websites for a social link and exports the results.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(rootOpts.verbose)

		var err error
		providers, err = libtelemetry.SetupFromEnv(cmd.Context(), "leadsearch")
		if err != nil {
			// tracing is optional, a broken telemetry.json5 should not stop a search
			slog.Warn("failed to set up telemetry", "err", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := providers.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal(fmt.Sprintf("leadsearch %s failed", commandName(os.Args[1:])), err)
	}
}

// commandName is the subcommand in args, flags are skipped.
func commandName(args []string) string {
	cmd, _, err := rootCmd.Find(args)
	if err != nil || cmd == rootCmd {
		return "command"
	}
	return cmd.Name()
}
