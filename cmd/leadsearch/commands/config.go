package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"leadsearch/internal/export/mail"
	"leadsearch/internal/export/sheets"
	"leadsearch/internal/search"
	"leadsearch/lib/configutil"
	configlibsql "leadsearch/lib/configutil/libsql"
)

const defaultConfigFile = "config.json5"

type Config struct {
	Provider     string              `json:"provider"`
	ApiKey       string              `json:"api_key"`
	ContextId    string              `json:"context_id"`
	SocialTarget string              `json:"social_target"`
	Database     configlibsql.Struct `json:"database"`
	Sheets       sheets.Config       `json:"sheets"`
	Mail         mail.Config         `json:"mail"`
}

// loadConfig reads the config file at path, or the closest config.json5
// when path is empty. Having no config file at all is fine as long as the
// environment provides the credentials.
func loadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file %s does not exist", path)
		}
	} else {
		cfg, err = configutil.ReadRecursively[Config](defaultConfigFile)
		if os.IsNotExist(err) {
			slog.Debug("no config file found, using environment only")
			err = nil
		}
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if strings.TrimSpace(cfg.SocialTarget) == "" {
		cfg.SocialTarget = search.DefaultSocialTarget
	}
	if cfg.Database.File == "" && !cfg.Database.Remote() {
		cfg.Database.File = defaultDatabaseFile()
	}
	configutil.EnvString(&cfg.ContextId, "CSE_ID")
	configutil.EnvString(&cfg.Sheets.SpreadsheetID, "SHEET_ID")
	configutil.EnvString(&cfg.Sheets.CredentialsFile, "GOOGLE_SHEETS_CREDENTIALS")
	if cfg.Sheets.CredentialsFile == "" {
		cfg.Sheets.CredentialsFile = sheets.DefaultCredentialsFile
	}
	return cfg, nil
}

func defaultDatabaseFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "leadsearch.db"
	}
	return filepath.Join(dir, "leadsearch", "history.db")
}

// resolveProvider picks the provider named by the flag, then the config,
// then the web provider.
func resolveProvider(flag string, cfg Config) (search.Provider, error) {
	name := flag
	if name == "" {
		name = cfg.Provider
	}
	if name == "" {
		name = search.WebSearch.Name
	}
	return search.ProviderByName(name)
}

// applyProviderEnv sets the api key from the environment, the places api
// has its own variable which takes precedence over the generic one.
func (c *Config) applyProviderEnv(p search.Provider) {
	if p.Kind == search.KindPlaces {
		configutil.EnvString(&c.ApiKey, "GOOGLE_PLACES_API_KEY", "API_KEY")
		return
	}
	configutil.EnvString(&c.ApiKey, "API_KEY")
}

func (c Config) credentials() search.Credentials {
	return search.Credentials{
		APIKey:    c.ApiKey,
		ContextID: c.ContextId,
	}
}

var (
	errNoApiKey    = errors.New("no api key configured, set api_key in config.json5 or the API_KEY environment variable")
	errNoContextId = errors.New("no search engine id configured, set context_id in config.json5 or the CSE_ID environment variable")
)

// checkCredentials fails before any request is made when the provider is
// missing something it needs.
func (c Config) checkCredentials(p search.Provider) error {
	if strings.TrimSpace(c.ApiKey) == "" {
		return errNoApiKey
	}
	if p.ContextParam != "" && strings.TrimSpace(c.ContextId) == "" {
		return errNoContextId
	}
	return nil
}
