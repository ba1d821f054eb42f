package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Provider string `json:"provider"`
	ApiKey   string `json:"api_key"`
	Database struct {
		File string `json:"file"`
	} `json:"database"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.True(t, os.IsNotExist(err))

	err = os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// trailing commas and comments are fine
		provider: "places",
		api_key: "from-default",
		database: { file: "leads.db" },
	}`), 0600)
	require.NoError(t, err)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "places", config.Provider)
	require.Equal(t, "from-default", config.ApiKey)

	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{ api_key: "from-local" }`), 0600)
	require.NoError(t, err)

	config, err = ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "places", config.Provider)
	require.Equal(t, "from-local", config.ApiKey)
	require.Equal(t, "leads.db", config.Database.File)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{ provider: `), 0600)
	require.NoError(t, err)

	_, err = ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEADSEARCH_TEST_PRIMARY", "")
	t.Setenv("LEADSEARCH_TEST_FALLBACK", "value")

	value := "original"
	EnvString(&value, "LEADSEARCH_TEST_PRIMARY", "LEADSEARCH_TEST_FALLBACK")
	require.Equal(t, "value", value)

	unchanged := "original"
	EnvString(&unchanged, "LEADSEARCH_TEST_PRIMARY")
	require.Equal(t, "original", unchanged)
}
