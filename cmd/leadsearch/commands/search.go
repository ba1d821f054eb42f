package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"leadsearch/internal/fetch"
	"leadsearch/internal/search"
	"leadsearch/internal/store"
	"leadsearch/lib/restyutil"

	"github.com/spf13/cobra"
)

var errEmptyQuery = errors.New("please enter a search query")

type searchFlags struct {
	provider string
	count    int
	maxPages int
	enrich   bool
	social   string
	strict   bool
	export   string
	out      string
	noSave   bool
	dumpHttp string
}

var searchOpts searchFlags

func init() {
	flags := searchCmd.Flags()
	flags.StringVarP(&searchOpts.provider, "provider", "p", "", fmt.Sprintf("Search provider, one of %s (default: config, then web).", strings.Join(search.ProviderNames(), ", ")))
	flags.IntVarP(&searchOpts.count, "count", "n", 0, "Results per page, capped by the provider.")
	flags.IntVar(&searchOpts.maxPages, "max-pages", 0, "Stop after this many pages (0 means the provider limit).")
	flags.BoolVar(&searchOpts.enrich, "enrich", true, "Check each website for a social link (places only).")
	flags.StringVar(&searchOpts.social, "social", "", "Link to look for on websites (default: social_target from config).")
	flags.BoolVar(&searchOpts.strict, "strict-social", false, "Report Unknown instead of No when a website cannot be fetched.")
	flags.StringVarP(&searchOpts.export, "export", "e", "", fmt.Sprintf("Export the results to %s.", strings.Join(sinkNames, ", ")))
	flags.StringVarP(&searchOpts.out, "out", "o", "", "File to write when exporting to csv.")
	flags.BoolVar(&searchOpts.noSave, "no-save", false, "Do not save the results to the search history.")
	flags.StringVar(&searchOpts.dumpHttp, "dump-http", "", "Write every http response to this directory (its contents are replaced).")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:     "search <query...>",
	Short:   "Searches for businesses and prints every page of results.",
	Example: "  leadsearch search restaurants in karachi --provider places --export sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), args)
	},
}

func parseQuery(args []string) (string, error) {
	text := strings.Join(strings.Fields(strings.Join(args, " ")), " ")
	if text == "" {
		return "", errEmptyQuery
	}
	return text, nil
}

func runSearch(ctx context.Context, args []string) error {
	text, err := parseQuery(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(rootOpts.config)
	if err != nil {
		return err
	}
	provider, err := resolveProvider(searchOpts.provider, cfg)
	if err != nil {
		return err
	}
	cfg.applyProviderEnv(provider)
	if err := cfg.checkCredentials(provider); err != nil {
		return err
	}
	if searchOpts.export != "" {
		if err := checkSink(searchOpts.export, cfg); err != nil {
			return err
		}
	}

	fetcher := fetch.NewClient(tel)
	if searchOpts.dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(searchOpts.dumpHttp)
		if err != nil {
			return fmt.Errorf("dump http: %w", err)
		}
		fetcher.DumpTo(output)
		slog.Info("dumping http responses", "dir", output.Dir())
	}
	driver := search.NewDriver(provider, cfg.credentials(), fetcher, clock, tel)
	if searchOpts.enrich && provider.Kind == search.KindPlaces {
		target := cfg.SocialTarget
		if searchOpts.social != "" {
			target = searchOpts.social
		}
		driver = driver.WithEnricher(search.NewEnricher(fetcher, target, searchOpts.strict, tel))
	}

	slog.Info("searching", "provider", provider.Name, "query", text)
	records, err := driver.CollectAll(ctx, search.Query{
		Text:     text,
		Count:    searchOpts.count,
		MaxPages: searchOpts.maxPages,
	})
	var pageErr *search.PageError
	if err != nil && !errors.As(err, &pageErr) {
		return err
	}

	err = printBatch(ctx, records, provider.Columns)
	if err != nil {
		return err
	}
	out := rootCmd.OutOrStdout()
	fmt.Fprintf(out, "%d results\n", len(records))

	failure := ""
	if pageErr != nil {
		failure = pageErr.Error()
		fmt.Fprintf(rootCmd.ErrOrStderr(), "stopped early, showing the results collected so far: %s\n", failure)
	}

	if !searchOpts.noSave {
		// an interrupted search is still worth keeping
		id, err := saveRun(context.WithoutCancel(ctx), cfg, store.Run{
			Query:    text,
			Provider: provider.Name,
			Failure:  failure,
			Records:  records,
		})
		if err != nil {
			tel.ReportWarning("history.save", err)
		} else {
			fmt.Fprintf(out, "saved as %s, run `leadsearch export %s --to <target>` to export it later\n", id, id)
		}
	}

	if searchOpts.export == "" {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted, skipping export: %w", ctx.Err())
	}
	return exportRecords(ctx, searchOpts.export, cfg, searchOpts.out, text, records, provider.Columns)
}

func saveRun(ctx context.Context, cfg Config, run store.Run) (string, error) {
	s, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer closeStore()
	return s.SaveRun(ctx, run)
}
