package commands

import (
	"context"
	"os"

	"github.com/wolfeidau/projinit/internal/bootstrap"
	"github.com/wolfeidau/projinit/internal/optdeps"
	"github.com/wolfeidau/projinit/internal/pkgmgr"
	"github.com/wolfeidau/projinit/internal/project"
	"github.com/wolfeidau/projinit/internal/prompt"
	"github.com/wolfeidau/projinit/internal/protection"
	"github.com/wolfeidau/projinit/internal/runner"
)

type PostinstallCmd struct {
	NonInteractive bool `help:"Answer every question with its default." env:"PROJINIT_NON_INTERACTIVE"`
}

func (cmd *PostinstallCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	_, err = bootstrap.PostInstall(ctx, postInstallConfig(e, cmd.NonInteractive))
	return err
}

func postInstallConfig(e *env, nonInteractive bool) bootstrap.PostInstallConfig {
	var p prompt.Prompter = prompt.NewTerminal(os.Stdin, os.Stderr)
	if nonInteractive {
		p = prompt.Defaults{}
	}

	run := runner.NewConsoleRunner()

	return bootstrap.PostInstallConfig{
		Root:     e.root,
		Settings: e.settings,
		Prompter: p,
		OptionalDeps: optdeps.New(p,
			pkgmgr.NewRegistry(e.settings.RegistryURL, e.settings.CacheDir),
			pkgmgr.NewInstaller(run, e.root),
			e.root),
		AuditMode:  project.NewAuditMode(e.root, e.settings.AuditFilesDir()),
		Protection: protection.NewConfigurator(e.root, e.settings.GitHub.Token, e.settings.GitHub.APIURL),
	}
}
