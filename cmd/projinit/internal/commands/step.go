package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/projinit/internal/bootstrap"
)

// StepCmd runs one post-install step on its own, ignoring the initialized
// marker.
type StepCmd struct {
	Name           string `arg:"" help:"Step to run." enum:"license,deps,audit-mode,workflows,protection"`
	NonInteractive bool   `help:"Answer every question with its default." env:"PROJINIT_NON_INTERACTIVE"`
}

func (cmd *StepCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	step, err := bootstrap.FindStep(bootstrap.PostInstallSteps(postInstallConfig(e, cmd.NonInteractive)), cmd.Name)
	if err != nil {
		return err
	}

	report := bootstrap.RunSteps(ctx, bootstrap.PipelinePostInstall, []bootstrap.Step{step})
	if report.Interrupted != nil {
		return report.Err()
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("step %s failed: %w", failed[0].Step, failed[0].Err)
	}

	return nil
}
