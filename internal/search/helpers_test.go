package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"leadsearch/internal/fetch"
)

type fakeFetcher struct {
	tokenParam string
	// pages is keyed by the continuation token, "" being the first page
	pages    map[string]fetch.Outcome
	websites map[string]fetch.Outcome
	// onSite runs before a website is fetched, tests use it to cancel
	onSite func(link string)

	calls     []url.Values
	siteCalls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, link string, opts fetch.Options) fetch.Outcome {
	if opts.Query != nil {
		f.calls = append(f.calls, opts.Query)
		out, ok := f.pages[opts.Query.Get(f.tokenParam)]
		if !ok {
			return fetch.Outcome{Status: 404, Reason: "unexpected status 404 Not Found"}
		}
		return out
	}
	f.siteCalls = append(f.siteCalls, link)
	if f.onSite != nil {
		f.onSite(link)
	}
	if ctx.Err() != nil {
		return fetch.Outcome{Reason: ctx.Err().Error()}
	}
	out, ok := f.websites[link]
	if !ok {
		return fetch.Outcome{Reason: "dial tcp: no such host"}
	}
	return out
}

type fakeTime struct {
	sleeps []time.Duration
	// onSleep runs before the sleep returns, tests use it to cancel
	onSleep func()
}

func (f *fakeTime) Now() time.Time {
	return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}

func (f *fakeTime) Sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	if f.onSleep != nil {
		f.onSleep()
	}
	return ctx.Err()
}

func okJSON(v any) fetch.Outcome {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return fetch.Outcome{Status: 200, Body: body}
}

// placesPage builds a places response with n results named after their
// global position, starting at offset.
func placesPage(offset, n int, token string) fetch.Outcome {
	results := make([]map[string]any, n)
	for i := range results {
		results[i] = map[string]any{
			"name":                   fmt.Sprintf("place %d", offset+i),
			"formatted_address":      fmt.Sprintf("%d Main St, Karachi", offset+i),
			"formatted_phone_number": fmt.Sprintf("021 555 %04d", offset+i),
		}
	}
	page := map[string]any{
		"status":  "OK",
		"results": results,
	}
	if token != "" {
		page["next_page_token"] = token
	}
	return okJSON(page)
}

// unlimited is Places without the provider page cap, for long chains.
func unlimited(p Provider) Provider {
	p.PageLimit = 0
	return p
}
