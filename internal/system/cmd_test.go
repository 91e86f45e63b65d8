package system_test

import (
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/kofuk/mclaunch/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunWithOutput(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	output, err := system.RunWithOutput(t.Context(), system.DefaultExecutor, "sh", []string{"-c", "pwd; echo $MCLAUNCH_TEST"},
		system.WithWorkingDir(dir), system.WithEnv("MCLAUNCH_TEST=hello"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], dir[strings.LastIndex(dir, "/")+1:])
	assert.Equal(t, "hello", lines[1])
}

func TestRunFailure(t *testing.T) {
	requireShell(t)

	err := system.DefaultExecutor.Run(t.Context(), "sh", []string{"-c", "echo oops >&2; exit 3"})
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestApply(t *testing.T) {
	cmd := exec.Command("java")
	system.Apply(cmd, system.WithWorkingDir("/srv/mc"), system.WithEnv("A=B"))

	assert.Equal(t, "/srv/mc", cmd.Dir)
	assert.Contains(t, cmd.Env, "A=B")
}
