package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CSVSink writes the batch to a CSV file, replacing any previous content.
type CSVSink struct {
	Path string
}

func (s CSVSink) Write(ctx context.Context, batch Batch) error {
	if batch.Len() == 0 {
		return ErrEmptyBatch
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, batch); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the header and rows as RFC 4180 CSV.
func WriteCSV(w io.Writer, batch Batch) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(batch.AllRows()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

type TableFormat string

const (
	FormatTable    TableFormat = "table"
	FormatMarkdown TableFormat = "markdown"
	FormatHTML     TableFormat = "html"
)

// TableSink renders the batch for a terminal. Empty batches render as a
// header only.
type TableSink struct {
	Out    io.Writer
	Format TableFormat
}

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func (s TableSink) Write(ctx context.Context, batch Batch) error {
	t := NewTable(s.Out)
	t.AppendHeader(toRow(batch.Header))
	for _, r := range batch.Rows {
		t.AppendRow(toRow(r))
	}

	switch TableFormat(strings.ToLower(string(s.Format))) {
	case "", FormatTable:
		t.Render()
	case FormatMarkdown:
		t.RenderMarkdown()
	case FormatHTML:
		t.RenderHTML()
	default:
		return fmt.Errorf("unknown table format %q", s.Format)
	}
	return nil
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
