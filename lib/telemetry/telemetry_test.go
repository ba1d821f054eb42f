package telemetry

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:leadsearch", Config{})
	require.NoError(t, err)
	require.False(t, tel.Enabled())
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestRedactURL(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{
			input:    "https://maps.googleapis.com/maps/api/place/textsearch/json?key=secret&query=cafes",
			expected: "https://maps.googleapis.com/maps/api/place/textsearch/json?key=REDACTED&query=cafes",
		},
		{
			input:    "https://example.com/",
			expected: "https://example.com/",
		},
	}

	for _, row := range table {
		u, err := url.Parse(row.input)
		require.NoError(t, err)
		require.Equal(t, row.expected, RedactURL(u))
	}
	require.Empty(t, RedactURL(nil))
}
