package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	path, err := ResolvePath("/tmp/leads.db")
	require.NoError(t, err)
	require.Equal(t, "/tmp/leads.db", path)

	root, err := GetWorkspaceRoot()
	if err != nil {
		t.Skip("not running inside the workspace")
	}
	path, err = ResolvePath(filepath.Join(StatePrefix, "leadsearch.db"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "leadsearch.db"), path)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
