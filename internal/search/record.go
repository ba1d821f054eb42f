package search

import "fmt"

// NA is stored in place of any value the provider did not supply.
const NA = "N/A"

// Presence is the outcome of checking a website for a social link.
type Presence string

const (
	PresenceYes     Presence = "Yes"
	PresenceNo      Presence = "No"
	PresenceUnknown Presence = "Unknown"
)

// Record is a single normalized search result. Every field always holds a
// real value or a sentinel (NA, PresenceUnknown), never an empty string.
type Record struct {
	Name string
	// PrimaryLink is the result's website, or the result link for web search.
	PrimaryLink string
	// Description is the snippet for web search and the address for places.
	Description    string
	Phone          string
	SocialPresence Presence
}

// Field identifies a column of a Record.
type Field int

const (
	FieldName Field = iota
	FieldLink
	FieldDescription
	FieldPhone
	FieldSocial
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldLink:
		return "link"
	case FieldDescription:
		return "description"
	case FieldPhone:
		return "phone"
	case FieldSocial:
		return "social"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func (r Record) Value(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldLink:
		return r.PrimaryLink
	case FieldDescription:
		return r.Description
	case FieldPhone:
		return r.Phone
	case FieldSocial:
		return string(r.SocialPresence)
	}
	return NA
}

// Query is a single search request. It is not modified while paginating.
type Query struct {
	Text string
	// Count is a hint for how many results a page should contain, 0 leaves it
	// up to the provider.
	Count int
	// MaxPages stops pagination after this many pages, 0 means no limit.
	MaxPages int
}

// PageResult is what a single provider call yields.
type PageResult struct {
	Records []Record
	// NextToken is empty on the last page.
	NextToken string
}

// Credentials identify the caller to the provider.
type Credentials struct {
	APIKey string
	// ContextID is the search engine id for web search, places ignores it.
	ContextID string
}
