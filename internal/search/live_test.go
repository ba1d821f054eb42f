package search

import (
	"context"
	"testing"
	"time"

	devenv "leadsearch/dev/env"
	"leadsearch/internal/components/chrono"
	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/fetch"

	"github.com/stretchr/testify/require"
)

type liveTestConfig struct {
	ApiKey string `json:"api_key"`
	Query  string `json:"query"`
}

func TestLivePlaces(t *testing.T) {
	if testing.Short() {
		t.Skip("calls the real places api")
	}
	config, err := devenv.GetStateConfig[liveTestConfig]("search_test.json5")
	if err != nil || config.ApiKey == "" {
		t.Skip("skipping test because no valid test config was found at dev/.state/search_test.json5")
	}
	if config.Query == "" {
		config.Query = "restaurants in karachi"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tel := telemetry.SlogAPI{}
	fetcher := fetch.NewClient(tel)
	driver := NewDriver(Places, Credentials{APIKey: config.ApiKey}, fetcher, chrono.NewStandardImpl(), tel).
		WithEnricher(NewEnricher(fetcher, DefaultSocialTarget, false, tel))

	records, err := driver.CollectAll(ctx, Query{Text: config.Query, MaxPages: 1})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, r := range records {
		require.NotEmpty(t, r.Name)
		require.NotEqual(t, PresenceUnknown, r.SocialPresence)
	}
}
