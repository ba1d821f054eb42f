package search

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Normalize maps one raw provider item onto a Record. Missing or blank
// values become NA. SocialPresence is left as PresenceUnknown, filling it in
// is the Enricher's job.
func Normalize(raw gjson.Result, p Provider) Record {
	return Record{
		Name:           lookup(raw, p.Fields[FieldName]),
		PrimaryLink:    lookup(raw, p.Fields[FieldLink]),
		Description:    lookup(raw, p.Fields[FieldDescription]),
		Phone:          lookup(raw, p.Fields[FieldPhone]),
		SocialPresence: PresenceUnknown,
	}
}

// NormalizeAll normalizes every item, the output has the same length and
// order as the input.
func NormalizeAll(items []gjson.Result, p Provider) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = Normalize(item, p)
	}
	return records
}

func lookup(raw gjson.Result, paths []string) string {
	for _, path := range paths {
		value := raw.Get(path)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		text := strings.TrimSpace(value.String())
		if text != "" {
			return text
		}
	}
	return NA
}
