package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/projinit/internal/runner"
	"github.com/wolfeidau/projinit/internal/submodule"
)

// SubmodulesCmd restores the submodules of the manifest outside the
// pre-install pipeline. Unlike the pipeline it fails when any module could
// not be restored.
type SubmodulesCmd struct {
	Manifest    string `help:"Submodule manifest, relative to the project root." default:".gitmodules"`
	Concurrency int    `help:"Maximum concurrent installs (defaults to PROJINIT_SUBMODULE_CONCURRENCY)."`

	runner runner.Runner `kong:"-"`
}

func (cmd *SubmodulesCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	concurrency := e.settings.SubmoduleConcurrency
	if cmd.Concurrency > 0 {
		concurrency = cmd.Concurrency
	}

	run := cmd.runner
	if run == nil {
		run = runner.NewConsoleRunner()
	}

	resolver := submodule.NewResolver(run, e.root, submodule.WithConcurrency(concurrency))

	results, err := resolver.RestoreFromFile(log.Logger.WithContext(ctx), cmd.Manifest)
	if err != nil {
		return err
	}

	restored, skipped := 0, 0
	var errs []error
	for _, res := range results {
		switch {
		case res.Err != nil:
			errs = append(errs, res.Err)
		case res.Skipped:
			skipped++
		default:
			restored++
		}
	}

	log.Info().Int("restored", restored).Int("skipped", skipped).Int("failed", len(errs)).Msg("Submodules processed")

	if len(errs) > 0 {
		return fmt.Errorf("failed to restore %d submodules: %w", len(errs), errors.Join(errs...))
	}

	return nil
}
