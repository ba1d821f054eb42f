package export

import (
	"context"
	"errors"

	"leadsearch/internal/search"
)

// ErrEmptyBatch is returned by sinks asked to write a batch without records.
var ErrEmptyBatch = errors.New("no data to save")

// DefaultColumns lists every Record field in canonical order.
var DefaultColumns = []search.Column{
	{Field: search.FieldName, Header: "Name"},
	{Field: search.FieldLink, Header: "Link"},
	{Field: search.FieldDescription, Header: "Description"},
	{Field: search.FieldPhone, Header: "Phone"},
	{Field: search.FieldSocial, Header: "Social Presence"},
}

// Batch is a header row plus one row per record, in record order.
type Batch struct {
	Header []string
	Rows   [][]string
}

// Len is the number of data rows.
func (b Batch) Len() int {
	return len(b.Rows)
}

// AllRows returns the header followed by the data rows.
func (b Batch) AllRows() [][]string {
	out := make([][]string, 0, len(b.Rows)+1)
	out = append(out, b.Header)
	out = append(out, b.Rows...)
	return out
}

// ToRows shapes records into rows: a header row naming the columns followed
// by one row per record with its values in column order. Values are copied
// as is. A nil columns slice means DefaultColumns.
func ToRows(records []search.Record, columns []search.Column) [][]string {
	if columns == nil {
		columns = DefaultColumns
	}

	rows := make([][]string, 0, len(records)+1)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}
	rows = append(rows, header)

	for _, r := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = r.Value(c.Field)
		}
		rows = append(rows, row)
	}
	return rows
}

func NewBatch(records []search.Record, columns []search.Column) Batch {
	rows := ToRows(records, columns)
	return Batch{
		Header: rows[0],
		Rows:   rows[1:],
	}
}

// Sink is anything a batch can be exported to.
type Sink interface {
	Write(ctx context.Context, batch Batch) error
}
