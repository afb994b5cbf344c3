package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "git", Command{Name: "git"}.String())
	assert.Equal(t, "forge install org/repo --no-commit",
		Command{Name: "forge", Args: []string{"install", "org/repo", "--no-commit"}}.String())
}

func TestExitError(t *testing.T) {
	err := &ExitError{Command: "pnpm add x", ExitCode: 1, Output: "  ERR_PNPM_FETCH_404\n"}

	require.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "pnpm add x: exit code 1: ERR_PNPM_FETCH_404", err.Error())

	cause := errors.New("executable file not found")
	err = &ExitError{Command: "forge", ExitCode: -1, Err: cause}
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "forge: executable file not found", err.Error())

	var exitErr *ExitError
	require.True(t, errors.As(error(err), &exitErr))
	assert.Equal(t, -1, exitErr.ExitCode)
}

func TestConsoleRunner_Echo(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	res, err := NewConsoleRunner().Run(context.Background(), Command{Name: "echo", Args: []string{"hello"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "hello")
}

func TestConsoleRunner_EnvKeepsInheritedVariables(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Setenv("PROJINIT_TEST_INHERITED", "yes")
	t.Setenv("npm_config_loglevel", "warn")

	res, err := NewConsoleRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", `echo "inherited=$PROJINIT_TEST_INHERITED level=$npm_config_loglevel path=$PATH"`},
		Env:  map[string]string{"npm_config_loglevel": "error"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "inherited=yes")
	assert.Contains(t, res.Output, "level=error")
	assert.Contains(t, res.Output, "path="+os.Getenv("PATH"))
}

func TestConsoleRunner_Dir(t *testing.T) {
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	res, err := NewConsoleRunner().Run(context.Background(), Command{Name: "pwd", Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(res.Output))
}

func TestEnviron(t *testing.T) {
	t.Setenv("PROJINIT_TEST_OVERRIDE", "old")

	env := environ(map[string]string{"PROJINIT_TEST_OVERRIDE": "new", "A_VAR": "1"})

	assert.Contains(t, env, "PROJINIT_TEST_OVERRIDE=old")
	assert.Equal(t, []string{"A_VAR=1", "PROJINIT_TEST_OVERRIDE=new"}, env[len(env)-2:])
}
