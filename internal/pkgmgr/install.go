package pkgmgr

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/runner"
)

// Installer adds packages to the project with the canonical package manager.
type Installer struct {
	runner  runner.Runner
	manager string
	dir     string
}

// NewInstaller returns an installer for the project rooted at dir.
func NewInstaller(run runner.Runner, dir string) *Installer {
	return &Installer{runner: run, manager: Canonical, dir: dir}
}

// Add installs packages in one invocation, as development dependencies when
// dev is set. An empty list is a no-op.
func (i *Installer) Add(ctx context.Context, packages []string, dev bool) error {
	if len(packages) == 0 {
		return nil
	}

	args := []string{"add"}
	if dev {
		args = append(args, "-D")
	}
	args = append(args, packages...)

	zerolog.Ctx(ctx).Info().Strs("packages", packages).Bool("dev", dev).Msg("Installing packages")

	if _, err := i.runner.Run(ctx, runner.Command{Name: i.manager, Args: args, Dir: i.dir}); err != nil {
		return fmt.Errorf("failed to install packages: %w", err)
	}

	return nil
}
