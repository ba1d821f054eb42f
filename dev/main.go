package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"leadsearch/lib/util/serviceutil"

	_ "modernc.org/sqlite"
)

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil {
		return err
	}

	err = createDb("leadsearch.db")
	if err != nil {
		return err
	}
	err = createConfig("config.local.json5")
	if err != nil {
		return err
	}

	slog.Info("fill in api_key in config.local.json5, tests that call the real apis read their credentials from dev/.state and are skipped otherwise.")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		serviceutil.Fatal("failed to create dev environment", err)
	}

	slog.Info("dev environment created successfully!")
}
