package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/export"
	"leadsearch/internal/search"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type fakeSheets struct {
	mu       sync.Mutex
	requests []string
	values   [][]string
	input    string
	failOn   string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	if f.failOn != "" && strings.HasSuffix(r.URL.Path, f.failOn) {
		http.Error(w, `{"error": {"code": 403, "message": "forbidden"}}`, http.StatusForbidden)
		return
	}

	if r.Method == http.MethodPut {
		var body struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.values = body.Values
		f.input = r.URL.Query().Get("valueInputOption")
	}
	w.Header().Set("content-type", "application/json")
	w.Write([]byte(`{}`))
}

func setup(t testing.TB, fake *fakeSheets) Sink {
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	service, err := gsheets.NewService(
		context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	return newSink(Config{SpreadsheetID: "sheet-id", Sheet: "Leads"}, service, telemetry.SlogAPI{})
}

var records = []search.Record{
	{Name: "Kolachi", PrimaryLink: "https://kolachi.pk", Description: "Do Darya", Phone: search.NA, SocialPresence: search.PresenceYes},
	{Name: "Cafe Flo", PrimaryLink: search.NA, Description: "Clifton", Phone: search.NA, SocialPresence: search.PresenceNo},
}

func TestSinkWrite(t *testing.T) {
	fake := &fakeSheets{}
	sink := setup(t, fake)

	batch := export.NewBatch(records, search.Places.Columns)
	require.NoError(t, sink.Write(context.Background(), batch))

	require.Len(t, fake.requests, 2)
	require.Equal(t, "POST /v4/spreadsheets/sheet-id/values/Leads:clear", fake.requests[0])
	require.Equal(t, "PUT /v4/spreadsheets/sheet-id/values/Leads!A1", fake.requests[1])
	require.Equal(t, "RAW", fake.input)
	require.Equal(t, batch.AllRows(), fake.values)
}

func TestSinkClearFails(t *testing.T) {
	fake := &fakeSheets{failOn: ":clear"}
	sink := setup(t, fake)

	err := sink.Write(context.Background(), export.NewBatch(records, search.Places.Columns))
	require.Error(t, err)
	require.Len(t, fake.requests, 1)
}

func TestSinkEmptyBatch(t *testing.T) {
	fake := &fakeSheets{}
	sink := setup(t, fake)

	err := sink.Write(context.Background(), export.NewBatch(nil, search.Places.Columns))
	require.ErrorIs(t, err, export.ErrEmptyBatch)
	require.Empty(t, fake.requests)
}

func TestConfigValidate(t *testing.T) {
	require.Error(t, Config{}.Validate())
	require.Error(t, Config{SpreadsheetID: "x"}.Validate())
	require.Error(t, Config{SpreadsheetID: "x", CredentialsFile: "/does/not/exist.json"}.Validate())

	creds := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(creds, []byte(`{}`), 0600))
	require.NoError(t, Config{SpreadsheetID: "x", CredentialsFile: creds}.Validate())

	require.Equal(t, "Sheet1", Config{}.sheet())
}
