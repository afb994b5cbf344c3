package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/config"
	"github.com/wolfeidau/projinit/internal/git"
	"github.com/wolfeidau/projinit/internal/logger"
	"github.com/wolfeidau/projinit/internal/marker"
	"github.com/wolfeidau/projinit/internal/pkgmgr"
	"github.com/wolfeidau/projinit/internal/submodule"
)

type PreInstallConfig struct {
	Root       string
	Settings   *config.Config
	Enforcer   Enforcer
	Submodules SubmoduleRestorer
}

// PreInstallSteps returns the pre-install steps in execution order.
func PreInstallSteps(cfg PreInstallConfig) []Step {
	return []Step{
		{
			Name: "package-manager",
			Run: func(ctx context.Context) error {
				err := cfg.Enforcer.Enforce(ctx)
				switch {
				case errors.Is(err, pkgmgr.ErrEnforcerUnavailable):
					zerolog.Ctx(ctx).Warn().Msg("only-allow is not available, skipping the package manager check")
					return nil
				case err != nil:
					return fmt.Errorf("%w: %w", ErrFatal, err)
				}
				return nil
			},
		},
		{
			Name: "git-init",
			Run: func(ctx context.Context) error {
				created, err := git.EnsureRepository(ctx, cfg.Root)
				if err != nil {
					return err
				}
				if created {
					zerolog.Ctx(ctx).Info().Msg("Git repository initialized")
				}
				return nil
			},
		},
		{
			Name: "submodules",
			Run: func(ctx context.Context) error {
				results, err := cfg.Submodules.RestoreFromFile(ctx, submodule.DefaultManifest)
				if err != nil {
					return fmt.Errorf("error when installing Git submodules: %w", err)
				}

				failed := submodule.Failed(results)
				if len(failed) == 0 {
					return nil
				}

				errs := make([]error, 0, len(failed))
				for _, res := range failed {
					errs = append(errs, res.Err)
				}
				return errors.Join(errs...)
			},
		},
	}
}

// PreInstall prepares the project for dependency installation. It does
// nothing in CI or once the installed marker exists. A package manager
// mismatch aborts the pipeline with an error wrapping ErrFatal; every other
// failure is logged and the marker is still written. A cancelled ctx returns
// its error and leaves the marker absent.
func PreInstall(ctx context.Context, cfg PreInstallConfig) (*Report, error) {
	ctx, _ = logger.WithRun(ctx, PipelinePreInstall)
	log := zerolog.Ctx(ctx)

	m := marker.New(setupDir(cfg.Root, cfg.Settings), marker.Installed)

	if cfg.Settings.Automated() || m.Exists() {
		log.Debug().Bool("automated", cfg.Settings.Automated()).Msg("Pre-install already done, skipping")
		return &Report{Pipeline: PipelinePreInstall, Skipped: true}, nil
	}

	report := run(ctx, PipelinePreInstall, PreInstallSteps(cfg), true)
	if err := report.Err(); err != nil {
		return report, err
	}

	if err := m.Create(); err != nil {
		log.Error().Err(err).Str("marker", m.Path()).Msg("Error when creating the marker")
	}

	return report, nil
}
