package submodule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/projinit/internal/git"
	"github.com/wolfeidau/projinit/internal/runner"
)

// fakeRunner records commands and fails those listed in failOn.
type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	dirs     []string
	failOn   map[string]bool

	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRunner) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.commands = append(f.commands, cmd.String())
	f.dirs = append(f.dirs, cmd.Dir)
	f.mu.Unlock()

	if f.failOn[cmd.Args[1]] {
		return runner.Result{ExitCode: 1}, &runner.ExitError{Command: cmd.String(), ExitCode: 1, Output: "Error: git fetch failed"}
	}
	return runner.Result{}, nil
}

func TestInstallCommand(t *testing.T) {
	cmd, err := InstallCommand(git.Module{
		Name:         "lib/forge-std",
		URL:          "https://github.com/foundry-rs/forge-std",
		Organization: "foundry-rs",
		Repository:   "forge-std",
		Branch:       "v1.9.4",
	})
	require.NoError(t, err)
	assert.Equal(t, "forge install foundry-rs/forge-std@v1.9.4 --no-commit", cmd.String())

	_, err = InstallCommand(git.Module{Name: "broken", URL: "local"})
	require.ErrorIs(t, err, ErrInvalidModule)
	require.ErrorIs(t, err, git.ErrUnparsableURL)
}

func TestRestore_SkipsInstalledAndContinuesPastFailures(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "present"), 0755))

	modules := []git.Module{
		{Name: "present", URL: "https://github.com/org/present", Path: "lib/present", Organization: "org", Repository: "present"},
		{Name: "missing-url", Path: "lib/missing-url"},
		{Name: "fails", URL: "https://github.com/org/fails", Path: "lib/fails", Organization: "org", Repository: "fails"},
		{Name: "ok", URL: "git@github.com:org/ok.git", Path: "lib/ok", Organization: "org", Repository: "ok", Branch: "main"},
	}

	run := &fakeRunner{failOn: map[string]bool{"org/fails": true}}
	results := NewResolver(run, root).Restore(context.Background(), modules)

	require.Len(t, results, 4)

	assert.True(t, results[0].Skipped)
	assert.NoError(t, results[0].Err)

	require.ErrorIs(t, results[1].Err, ErrInvalidModule)
	require.ErrorIs(t, results[1].Err, git.ErrMissingURL)

	var exitErr *runner.ExitError
	require.True(t, errors.As(results[2].Err, &exitErr))

	assert.NoError(t, results[3].Err)
	assert.False(t, results[3].Skipped)

	assert.ElementsMatch(t, []string{
		"forge install org/fails --no-commit",
		"forge install org/ok@main --no-commit",
	}, run.commands)

	failed := Failed(results)
	require.Len(t, failed, 2)
	assert.Equal(t, "missing-url", failed[0].Module.Name)
	assert.Equal(t, "fails", failed[1].Module.Name)
}

func TestRestore_BoundedConcurrency(t *testing.T) {
	var modules []git.Module
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		modules = append(modules, git.Module{
			Name: name, URL: "https://github.com/org/" + name, Path: "lib/" + name,
			Organization: "org", Repository: name,
		})
	}

	run := &fakeRunner{delay: 20 * time.Millisecond}
	results := NewResolver(run, t.TempDir(), WithConcurrency(2)).Restore(context.Background(), modules)

	require.Len(t, results, 6)
	require.Empty(t, Failed(results))
	require.Len(t, run.commands, 6)
	assert.LessOrEqual(t, run.peak.Load(), int32(2))
}

func TestRestore_DefaultRunsInstallsSerially(t *testing.T) {
	root := t.TempDir()
	var modules []git.Module
	for _, name := range []string{"a", "b", "c"} {
		modules = append(modules, git.Module{
			Name: name, URL: "https://github.com/org/" + name, Path: "lib/" + name,
			Organization: "org", Repository: name,
		})
	}

	run := &fakeRunner{delay: 10 * time.Millisecond}
	results := NewResolver(run, root).Restore(context.Background(), modules)

	require.Empty(t, Failed(results))
	assert.Equal(t, int32(1), run.peak.Load())
	assert.Equal(t, []string{
		"forge install org/a --no-commit",
		"forge install org/b --no-commit",
		"forge install org/c --no-commit",
	}, run.commands)
	for _, dir := range run.dirs {
		assert.Equal(t, root, dir)
	}
	assert.Len(t, run.dirs, 3)
}

func TestRestoreFromFile(t *testing.T) {
	root := t.TempDir()
	manifest := `[submodule "lib/forge-std"]
	path = lib/forge-std
	url = https://github.com/foundry-rs/forge-std
[submodule "lib/solmate"]
	path = lib/solmate
	url = git@github.com:transmissions11/solmate.git
`
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultManifest), []byte(manifest), 0600))

	run := &fakeRunner{}
	results, err := NewResolver(run, root, WithConcurrency(1)).RestoreFromFile(context.Background(), DefaultManifest)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Empty(t, Failed(results))

	assert.Equal(t, []string{
		"forge install foundry-rs/forge-std --no-commit",
		"forge install transmissions11/solmate --no-commit",
	}, run.commands)
}

func TestRestoreFromFile_MissingManifest(t *testing.T) {
	run := &fakeRunner{}
	results, err := NewResolver(run, t.TempDir()).RestoreFromFile(context.Background(), DefaultManifest)
	require.NoError(t, err)
	require.Empty(t, results)
	require.Empty(t, run.commands)
}

func TestInstalled(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(&fakeRunner{}, root)

	require.False(t, r.Installed(git.Module{}))
	require.False(t, r.Installed(git.Module{Path: "lib/x"}))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib", "x"), 0755))
	require.True(t, r.Installed(git.Module{Path: "lib/x"}))
}
