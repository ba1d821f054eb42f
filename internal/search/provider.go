package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type Kind int

const (
	// KindWeb results are plain links with a snippet.
	KindWeb Kind = iota
	// KindPlaces results are businesses whose website can be enriched.
	KindPlaces
)

// Column is one entry of an export header.
type Column struct {
	Field  Field
	Header string
}

// Provider describes how to talk to one search API and how its JSON maps
// onto a Record. Paths are gjson paths relative to the response body (for
// ItemsPath, TokenPath, StatusPath and ErrorPath) or to a single item (for
// Fields).
type Provider struct {
	Name string
	Kind Kind

	Endpoint     string
	QueryParam   string
	KeyParam     string
	ContextParam string
	CountParam   string
	MaxCount     int
	TokenParam   string

	ItemsPath string
	TokenPath string
	// StatusPath is checked against OKStatuses when set.
	StatusPath string
	OKStatuses []string
	ErrorPath  string

	// Fields maps each field to candidate paths, the first non-empty one wins.
	Fields  map[Field][]string
	Columns []Column

	// PageDelay must elapse between two paginated calls.
	PageDelay time.Duration
	// PageLimit is the most pages the provider will ever serve, 0 if unknown.
	PageLimit int
}

// WebSearch is the Google Custom Search JSON API.
var WebSearch = Provider{
	Name: "web",
	Kind: KindWeb,

	Endpoint:     "https://www.googleapis.com/customsearch/v1",
	QueryParam:   "q",
	KeyParam:     "key",
	ContextParam: "cx",
	CountParam:   "num",
	MaxCount:     10,
	TokenParam:   "start",

	ItemsPath: "items",
	TokenPath: "queries.nextPage.0.startIndex",
	ErrorPath: "error.message",

	Fields: map[Field][]string{
		FieldName:        {"title"},
		FieldLink:        {"link"},
		FieldDescription: {"snippet"},
	},
	Columns: []Column{
		{Field: FieldName, Header: "Company Name"},
		{Field: FieldLink, Header: "Website"},
		{Field: FieldDescription, Header: "Description"},
	},

	// the api refuses to go past the 100th result
	PageLimit: 10,
}

// Places is the Google Places Text Search API.
var Places = Provider{
	Name: "places",
	Kind: KindPlaces,

	Endpoint:   "https://maps.googleapis.com/maps/api/place/textsearch/json",
	QueryParam: "query",
	KeyParam:   "key",
	TokenParam: "pagetoken",

	ItemsPath:  "results",
	TokenPath:  "next_page_token",
	StatusPath: "status",
	OKStatuses: []string{"OK", "ZERO_RESULTS"},
	ErrorPath:  "error_message",

	Fields: map[Field][]string{
		FieldName:        {"name"},
		FieldLink:        {"website"},
		FieldDescription: {"formatted_address", "vicinity"},
		FieldPhone:       {"formatted_phone_number", "international_phone_number"},
	},
	Columns: []Column{
		{Field: FieldName, Header: "Name"},
		{Field: FieldLink, Header: "Website"},
		{Field: FieldDescription, Header: "Address"},
		{Field: FieldPhone, Header: "Phone"},
		{Field: FieldSocial, Header: "Social Presence"},
	},

	// a next_page_token only becomes valid a short while after it is issued
	PageDelay: 2 * time.Second,
	PageLimit: 3,
}

var providers = []Provider{WebSearch, Places}

// ProviderByName returns the built-in provider with the given name.
func ProviderByName(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range providers {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown provider %q", name)
}

// ProviderNames lists the built-in providers.
func ProviderNames() []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name
	}
	return names
}

// Params builds the query string of a single provider call. The token is
// omitted when empty.
func (p Provider) Params(creds Credentials, q Query, token string) url.Values {
	params := url.Values{}
	params.Set(p.QueryParam, q.Text)
	if p.KeyParam != "" {
		params.Set(p.KeyParam, creds.APIKey)
	}
	if p.ContextParam != "" {
		params.Set(p.ContextParam, creds.ContextID)
	}
	if p.CountParam != "" && q.Count > 0 {
		count := q.Count
		if p.MaxCount > 0 && count > p.MaxCount {
			count = p.MaxCount
		}
		params.Set(p.CountParam, strconv.Itoa(count))
	}
	if token != "" && p.TokenParam != "" {
		params.Set(p.TokenParam, token)
	}
	return params
}

// checkBody reports provider level failures carried inside a 2xx body.
func (p Provider) checkBody(body gjson.Result) error {
	if p.StatusPath != "" {
		status := body.Get(p.StatusPath).String()
		ok := false
		for _, s := range p.OKStatuses {
			if status == s {
				ok = true
				break
			}
		}
		if !ok {
			return &ProviderError{Status: status, Message: body.Get(p.ErrorPath).String()}
		}
	}
	if p.StatusPath == "" && p.ErrorPath != "" {
		if msg := body.Get(p.ErrorPath); msg.Exists() {
			return &ProviderError{Message: msg.String()}
		}
	}
	return nil
}

// pageLimit combines the provider limit with the query limit.
func (p Provider) pageLimit(q Query) int {
	limit := p.PageLimit
	if q.MaxPages > 0 && (limit == 0 || q.MaxPages < limit) {
		limit = q.MaxPages
	}
	return limit
}

// ProviderError is a failure the provider reported inside its response.
type ProviderError struct {
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	switch {
	case e.Status != "" && e.Message != "":
		return fmt.Sprintf("provider returned %s: %s", e.Status, e.Message)
	case e.Status != "":
		return fmt.Sprintf("provider returned %s", e.Status)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}
