// Package pkgmgr talks to the JavaScript package tooling of the project:
// enforcing the canonical package manager, installing packages, resolving
// published versions from the npm registry and tidying package.json.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/runner"
)

// Canonical is the package manager the project must be installed with.
const Canonical = "pnpm"

type Enforcer struct {
	runner  runner.Runner
	manager string
	dir     string
	out     io.Writer
}

// NewEnforcer returns an enforcer for manager running in the project
// directory dir. Output of the enforcement run is forwarded to out so the
// operator sees only-allow's explanation.
func NewEnforcer(run runner.Runner, manager, dir string, out io.Writer) *Enforcer {
	return &Enforcer{runner: run, manager: manager, dir: dir, out: out}
}

// Available probes for only-allow. Invoked without arguments it exits
// non-zero and prints its usage, which lists the supported package managers;
// anything else means the tool could not be run.
func (e *Enforcer) Available(ctx context.Context) bool {
	res, err := e.runner.Run(ctx, runner.Command{Name: "npx", Args: []string{"only-allow"}, Dir: e.dir})
	if err == nil {
		return false
	}

	output := res.Output
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) && exitErr.Output != "" {
		output = exitErr.Output
	}

	return strings.Contains(output, e.manager)
}

// Enforce fails with ErrWrongPackageManager when the running install does not
// use the canonical package manager, and with ErrEnforcerUnavailable when the
// check cannot be made.
func (e *Enforcer) Enforce(ctx context.Context) error {
	if !e.Available(ctx) {
		return ErrEnforcerUnavailable
	}

	zerolog.Ctx(ctx).Debug().Str("manager", e.manager).Msg("Enforcing package manager")

	_, err := e.runner.Run(ctx, runner.Command{
		Name:   "npx",
		Args:   []string{"-y", "only-allow", e.manager},
		Dir:    e.dir,
		Env:    map[string]string{"npm_config_loglevel": "error"},
		Output: e.out,
	})
	if err != nil {
		return fmt.Errorf("%w: %s required: %w", ErrWrongPackageManager, e.manager, err)
	}

	return nil
}
