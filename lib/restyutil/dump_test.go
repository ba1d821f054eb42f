package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id string, contents string) {
	m[id] = contents
}

func TestDumpResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	output := memoryOutput{}
	client := resty.New()
	DumpResponses(client, output)

	_, err := client.R().
		SetQueryParam("key", "secret").
		SetQueryParam("query", "cafes").
		Get(server.URL + "/textsearch")
	require.NoError(t, err)

	require.Len(t, output, 1)
	for id, contents := range output {
		require.True(t, strings.HasPrefix(id, "0001-127.0.0.1_"), id)
		require.Contains(t, contents, "GET ")
		require.Contains(t, contents, "key=REDACTED")
		require.NotContains(t, contents, "secret")
		require.Contains(t, contents, "200 OK")
		require.Contains(t, contents, `{"status":"OK"}`)
	}
}

func TestDumpResponsesNilOutput(t *testing.T) {
	client := resty.New()
	DumpResponses(client, nil)
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	require.Equal(t, dir, output.Dir())

	output.Write("0001-example.com.txt", "hello")
	contents, err := os.ReadFile(filepath.Join(dir, "0001-example.com.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}
