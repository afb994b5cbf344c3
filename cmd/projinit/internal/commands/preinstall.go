package commands

import (
	"context"
	"os"

	"github.com/wolfeidau/projinit/internal/bootstrap"
	"github.com/wolfeidau/projinit/internal/pkgmgr"
	"github.com/wolfeidau/projinit/internal/runner"
	"github.com/wolfeidau/projinit/internal/submodule"
)

type PreinstallCmd struct{}

func (cmd *PreinstallCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	run := runner.NewConsoleRunner()

	_, err = bootstrap.PreInstall(ctx, bootstrap.PreInstallConfig{
		Root:       e.root,
		Settings:   e.settings,
		Enforcer:   pkgmgr.NewEnforcer(run, pkgmgr.Canonical, e.root, os.Stderr),
		Submodules: submodule.NewResolver(run, e.root, submodule.WithConcurrency(e.settings.SubmoduleConcurrency)),
	})

	return err
}
