// Package sheets exports batches to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/export"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var tracer = otel.Tracer("leadsearch/internal/export/sheets")

const report_sink_write = "sink.write"

// DefaultCredentialsFile is the service account key used when none is
// configured, relative to the working directory.
const DefaultCredentialsFile = "credentials.json"

type Config struct {
	SpreadsheetID   string `json:"spreadsheet_id"`
	Sheet           string `json:"sheet"`
	CredentialsFile string `json:"credentials_file"`
}

func (c Config) Validate() error {
	if c.SpreadsheetID == "" {
		return errors.New("sheets: spreadsheet id is not configured")
	}
	if c.CredentialsFile == "" {
		return errors.New("sheets: credentials file is not configured")
	}
	if _, err := os.Stat(c.CredentialsFile); err != nil {
		return fmt.Errorf("sheets: credentials file: %w", err)
	}
	return nil
}

func (c Config) sheet() string {
	if c.Sheet == "" {
		return "Sheet1"
	}
	return c.Sheet
}

// Sink replaces the content of one sheet with the batch.
type Sink struct {
	config  Config
	service *gsheets.Service
	tel     telemetry.API
}

// NewSink authenticates with the service account credentials file in config.
func NewSink(ctx context.Context, config Config, tel telemetry.API) (Sink, error) {
	if err := config.Validate(); err != nil {
		return Sink{}, err
	}
	service, err := gsheets.NewService(
		ctx,
		option.WithCredentialsFile(config.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return Sink{}, fmt.Errorf("sheets: create service: %w", err)
	}
	return newSink(config, service, tel), nil
}

func newSink(config Config, service *gsheets.Service, tel telemetry.API) Sink {
	return Sink{
		config:  config,
		service: service,
		tel:     telemetry.NewScopedAPI("sheets", tel),
	}
}

// Write clears the sheet then writes the header and rows from A1.
func (s Sink) Write(ctx context.Context, batch export.Batch) error {
	ctx, span := tracer.Start(ctx, "Sink.Write")
	defer span.End()

	if batch.Len() == 0 {
		return export.ErrEmptyBatch
	}

	sheet := s.config.sheet()
	_, err := s.service.Spreadsheets.Values.
		Clear(s.config.SpreadsheetID, sheet, &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear sheet")
		s.tel.ReportBroken(report_sink_write, fmt.Errorf("clear: %w", err), sheet)
		return fmt.Errorf("sheets: clear %s: %w", sheet, err)
	}

	_, err = s.service.Spreadsheets.Values.
		Update(s.config.SpreadsheetID, fmt.Sprintf("%s!A1", sheet), &gsheets.ValueRange{
			Values: toValues(batch.AllRows()),
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write rows")
		s.tel.ReportBroken(report_sink_write, fmt.Errorf("update: %w", err), sheet)
		return fmt.Errorf("sheets: write %s: %w", sheet, err)
	}

	s.tel.ReportCount(report_sink_write, int64(batch.Len()))
	return nil
}

func toValues(rows [][]string) [][]any {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = make([]any, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}
	return values
}
