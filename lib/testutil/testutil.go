package testutil

import (
	"database/sql"
	"testing"

	devenv "leadsearch/dev/env"

	_ "modernc.org/sqlite"
)

type DBParams struct {
	// if unspecified, it will skip applying a schema
	Schema string
	// if unspecified, it will use `:memory:`
	Path string
}

// OpenDB opens a sqlite database for the duration of the test and applies
// the schema. It is closed when the test ends.
func OpenDB(t testing.TB, params DBParams) *sql.DB {
	dbpath := ":memory:"
	if params.Path != "" && params.Path != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.Path)
		if err != nil {
			t.Fatal(err)
		}
	}

	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	sqlite.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlite.Close()
	})

	if params.Schema != "" {
		_, err = sqlite.Exec(params.Schema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return sqlite
}
