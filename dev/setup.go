package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	devenv "leadsearch/dev/env"
	storedb "leadsearch/internal/store/db"
)

const configTemplate = `{
    // "web" (custom search) or "places"
    provider: "places",
    api_key: "",
    // only needed by the web provider
    context_id: "",
    social_target: "instagram.com",
    database: {
        file: "<dev_state>/leadsearch.db",
    },
    sheets: {
        spreadsheet_id: "",
        sheet: "Sheet1",
        credentials_file: "<dev_state>/credentials.json",
    },
    mail: {
        server: "localhost",
        port: 1025,
        email_address: "leads@localhost",
        password: "",
        to: [],
    },
}
`

func createDb(filename string) error {
	dbpath, err := devenv.ResolvePath(filepath.Join(devenv.StatePrefix, filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(dbpath)
	if err == nil {
		fmt.Println("database already created at", dbpath)
		return nil
	}

	fmt.Println("creating database at", dbpath)
	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(storedb.Schema)
	return err
}

func createConfig(filename string) error {
	_, err := os.Stat(filename)
	if err == nil {
		fmt.Println("config already exists at", filename)
		return nil
	}
	fmt.Println("writing config template to", filename)
	return os.WriteFile(filename, []byte(configTemplate), 0600)
}
