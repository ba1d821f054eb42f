package commands

import (
	"context"
	"fmt"
	"strings"

	"leadsearch/internal/export"
	"leadsearch/internal/export/mail"
	"leadsearch/internal/export/sheets"
	"leadsearch/internal/search"
	"leadsearch/internal/store"
)

var sinkNames = []string{"sheets", "csv", "mail"}

// checkSink validates the config of a sink up front so a long search does
// not end in a configuration error.
func checkSink(name string, cfg Config) error {
	switch strings.ToLower(name) {
	case "csv":
		return nil
	case "sheets":
		return cfg.Sheets.Validate()
	case "mail":
		return cfg.Mail.Validate()
	}
	return fmt.Errorf("unknown export target %q, expected one of %s", name, strings.Join(sinkNames, ", "))
}

func openSink(ctx context.Context, name string, cfg Config, out, subject string) (export.Sink, error) {
	switch strings.ToLower(name) {
	case "csv":
		if out == "" {
			out = fmt.Sprintf("leads-%s.csv", clock.Now().Format("20060102-150405"))
		}
		return export.CSVSink{Path: out}, nil
	case "sheets":
		return sheets.NewSink(ctx, cfg.Sheets, tel)
	case "mail":
		return mail.NewSink(cfg.Mail, subject, clock, tel)
	}
	return nil, checkSink(name, cfg)
}

// exportRecords writes records to the named sink. Nothing is written, and
// no sink is created, when there are no records.
func exportRecords(
	ctx context.Context,
	name string,
	cfg Config,
	out string,
	subject string,
	records []search.Record,
	columns []search.Column,
) error {
	if len(records) == 0 {
		return export.ErrEmptyBatch
	}
	sink, err := openSink(ctx, name, cfg, out, subject)
	if err != nil {
		return err
	}
	err = sink.Write(ctx, export.NewBatch(records, columns))
	if err != nil {
		return fmt.Errorf("export to %s: %w", name, err)
	}
	target := name
	if csv, ok := sink.(export.CSVSink); ok {
		target = csv.Path
	}
	fmt.Fprintf(rootCmd.OutOrStdout(), "exported %d rows to %s\n", len(records), target)
	return nil
}

// columnsFor returns the export columns of the provider a run was made
// with, runs from an unknown provider get every field.
func columnsFor(providerName string) []search.Column {
	p, err := search.ProviderByName(providerName)
	if err != nil {
		return export.DefaultColumns
	}
	return p.Columns
}

func printBatch(ctx context.Context, records []search.Record, columns []search.Column) error {
	return export.TableSink{
		Out:    rootCmd.OutOrStdout(),
		Format: export.TableFormat(rootOpts.format),
	}.Write(ctx, export.NewBatch(records, columns))
}

func openStore(ctx context.Context, cfg Config) (store.Store, func(), error) {
	db, err := cfg.Database.OpenDB()
	if err != nil {
		return store.Store{}, nil, fmt.Errorf("open history: %w", err)
	}
	s := store.NewStore(db, clock)
	err = s.Migrate(ctx)
	if err != nil {
		db.Close()
		return store.Store{}, nil, fmt.Errorf("migrate history: %w", err)
	}
	return s, func() { db.Close() }, nil
}
