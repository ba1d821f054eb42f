package serviceutil

import (
	"errors"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFatal(t *testing.T) {
	if os.Getenv("SERVICEUTIL_FATAL") == "1" {
		Fatal("failed to load configuration", errors.New("config.json5 is missing"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "SERVICEUTIL_FATAL=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected a non-zero exit, got %v", err)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, string(out), "failed to load configuration")
	require.Contains(t, string(out), "config.json5 is missing")
}
