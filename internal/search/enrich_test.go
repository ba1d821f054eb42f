package search

import (
	"context"
	"errors"
	"testing"

	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/fetch"

	"github.com/stretchr/testify/require"
)

func TestEnricherPresence(t *testing.T) {
	fetcher := &fakeFetcher{
		websites: map[string]fetch.Outcome{
			"https://has-ig.pk":   {Status: 200, Body: []byte(`<footer><a href="https://www.instagram.com/hasig">IG</a></footer>`)},
			"https://no-ig.pk":    {Status: 200, Body: []byte(`<footer><a href="https://facebook.com/noig">FB</a></footer>`)},
			"https://missing.pk":  {Status: 404, Reason: "unexpected status 404 Not Found"},
			"https://bare-ig.pk":  {Status: 200, Body: []byte(`<a href="https://instagram.com/bare">x</a>`)},
			"https://broken.html": {Status: 200, Body: []byte(`<a href=>`)},
		},
	}

	table := []struct {
		website  string
		strict   bool
		expected Presence
	}{
		{website: "https://has-ig.pk", expected: PresenceYes},
		{website: "https://no-ig.pk", expected: PresenceNo},
		{website: "https://missing.pk", expected: PresenceNo},
		{website: "https://missing.pk", strict: true, expected: PresenceUnknown},
		{website: "https://unreachable.pk", expected: PresenceNo},
		{website: "https://unreachable.pk", strict: true, expected: PresenceUnknown},
		{website: "bare-ig.pk", expected: PresenceYes},
		{website: "https://broken.html", expected: PresenceNo},
		{website: NA, expected: PresenceNo},
		{website: NA, strict: true, expected: PresenceNo},
	}

	for _, row := range table {
		enricher := NewEnricher(fetcher, "", row.strict, telemetry.SlogAPI{})
		require.Equal(t, row.expected, enricher.Presence(context.Background(), row.website), "%s strict=%v", row.website, row.strict)
	}

	for _, call := range fetcher.siteCalls {
		require.NotEqual(t, NA, call)
	}
}

func TestEnricherTarget(t *testing.T) {
	fetcher := &fakeFetcher{
		websites: map[string]fetch.Outcome{
			"https://cafe.pk": {Status: 200, Body: []byte(`<a href="https://facebook.com/cafe">fb</a>`)},
		},
	}

	require.Equal(t, DefaultSocialTarget, NewEnricher(fetcher, " ", false, telemetry.SlogAPI{}).Target())

	enricher := NewEnricher(fetcher, "facebook.com", false, telemetry.SlogAPI{})
	rec := Record{PrimaryLink: "https://cafe.pk", SocialPresence: PresenceUnknown}
	enricher.Enrich(context.Background(), &rec)
	require.Equal(t, PresenceYes, rec.SocialPresence)
}

func TestDriverEnrichesPlaces(t *testing.T) {
	fetcher := &fakeFetcher{
		tokenParam: "pagetoken",
		pages: map[string]fetch.Outcome{
			"": okJSON(map[string]any{
				"status": "OK",
				"results": []map[string]any{
					{"name": "with ig", "website": "https://with-ig.pk"},
					{"name": "without site"},
					{"name": "down", "website": "https://down.pk"},
				},
			}),
		},
		websites: map[string]fetch.Outcome{
			"https://with-ig.pk": {Status: 200, Body: []byte(`<a href="https://instagram.com/withig">ig</a>`)},
		},
	}

	rec := &telemetry.Recorder{}
	driver := NewDriver(Places, testCreds, fetcher, &fakeTime{}, rec).
		WithEnricher(NewEnricher(fetcher, "instagram.com", false, rec))

	records, err := driver.CollectAll(context.Background(), Query{Text: "restaurants"})
	require.NoError(t, err)
	require.Equal(t, []Presence{PresenceYes, PresenceNo, PresenceNo}, []Presence{
		records[0].SocialPresence,
		records[1].SocialPresence,
		records[2].SocialPresence,
	})
	require.Equal(t, []string{"https://with-ig.pk", "https://down.pk"}, fetcher.siteCalls)
	require.Equal(t, []string{"enricher: enricher.scan"}, rec.Warnings)
}

func TestDriverSkipsEnrichingWeb(t *testing.T) {
	fetcher := &fakeFetcher{
		tokenParam: "start",
		pages: map[string]fetch.Outcome{
			"": okJSON(map[string]any{
				"items": []map[string]any{{"title": "a", "link": "https://a.com"}},
			}),
		},
	}
	driver := NewDriver(WebSearch, testCreds, fetcher, &fakeTime{}, telemetry.SlogAPI{}).
		WithEnricher(NewEnricher(fetcher, "", false, telemetry.SlogAPI{}))

	records, err := driver.CollectAll(context.Background(), Query{Text: "x"})
	require.NoError(t, err)
	require.Equal(t, PresenceUnknown, records[0].SocialPresence)
	require.Empty(t, fetcher.siteCalls)
}

func TestDriverCancelledWhileEnriching(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &fakeFetcher{
		tokenParam: "pagetoken",
		pages: map[string]fetch.Outcome{
			"": okJSON(map[string]any{
				"status": "OK",
				"results": []map[string]any{
					{"name": "a", "website": "https://a.pk"},
					{"name": "b", "website": "https://b.pk"},
					{"name": "c", "website": "https://c.pk"},
				},
			}),
		},
		onSite: func(link string) { cancel() },
	}
	driver := NewDriver(Places, testCreds, fetcher, &fakeTime{}, telemetry.SlogAPI{}).
		WithEnricher(NewEnricher(fetcher, "", false, telemetry.SlogAPI{}))

	records, err := driver.CollectAll(ctx, Query{Text: "restaurants"})
	require.ErrorIs(t, err, context.Canceled)

	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	require.Equal(t, 1, pageErr.Page)

	require.Equal(t, []string{"a", "b", "c"}, names(records))
	for _, r := range records {
		require.Equal(t, PresenceUnknown, r.SocialPresence, r.Name)
	}
	require.Equal(t, []string{"https://a.pk"}, fetcher.siteCalls)
}

func TestDriverCancelledWhileEnrichingLaterPage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &fakeFetcher{
		tokenParam: "pagetoken",
		pages: map[string]fetch.Outcome{
			"": okJSON(map[string]any{
				"status":          "OK",
				"results":         []map[string]any{{"name": "a", "website": "https://a.pk"}},
				"next_page_token": "T2",
			}),
			"T2": okJSON(map[string]any{
				"status": "OK",
				"results": []map[string]any{
					{"name": "b", "website": "https://b.pk"},
					{"name": "c", "website": "https://c.pk"},
				},
			}),
		},
		websites: map[string]fetch.Outcome{
			"https://a.pk": {Status: 200, Body: []byte(`<a href="https://instagram.com/a">ig</a>`)},
			"https://b.pk": {Status: 200, Body: []byte(`<a href="https://instagram.com/b">ig</a>`)},
		},
	}
	fetcher.onSite = func(link string) {
		if link == "https://c.pk" {
			cancel()
		}
	}
	driver := NewDriver(Places, testCreds, fetcher, &fakeTime{}, telemetry.SlogAPI{}).
		WithEnricher(NewEnricher(fetcher, "", false, telemetry.SlogAPI{}))

	records, err := driver.CollectAll(ctx, Query{Text: "restaurants"})
	require.ErrorIs(t, err, context.Canceled)

	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	require.Equal(t, 2, pageErr.Page)

	require.Equal(t, []Presence{PresenceYes, PresenceYes, PresenceUnknown}, []Presence{
		records[0].SocialPresence,
		records[1].SocialPresence,
		records[2].SocialPresence,
	})
}
