package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/config"
	"github.com/wolfeidau/projinit/internal/logger"
	"github.com/wolfeidau/projinit/internal/marker"
	"github.com/wolfeidau/projinit/internal/project"
	"github.com/wolfeidau/projinit/internal/prompt"
)

const (
	StepLicense    = "license"
	StepDeps       = "deps"
	StepAuditMode  = "audit-mode"
	StepWorkflows  = "workflows"
	StepProtection = "protection"
)

const auditModeQuestion = "If you are going to audit rather than develop, it is recommended to disable formatting for contracts so as not to change the source code.\nDisable formatting for contracts?"

type PostInstallConfig struct {
	Root         string
	Settings     *config.Config
	Prompter     prompt.Prompter
	OptionalDeps OptionalDeps
	AuditMode    AuditMode
	Protection   Protector
}

// PostInstallSteps returns the post-install steps in execution order.
func PostInstallSteps(cfg PostInstallConfig) []Step {
	return []Step{
		{
			Name: StepLicense,
			Run: func(ctx context.Context) error {
				_, err := project.RemoveTemplateLicense(ctx, cfg.Root)
				return err
			},
		},
		{
			Name: StepDeps,
			Run: func(ctx context.Context) error {
				return cfg.OptionalDeps.Run(ctx)
			},
		},
		{
			Name: StepAuditMode,
			Run: func(ctx context.Context) error {
				ok, err := cfg.Prompter.Confirm(ctx, auditModeQuestion, false)
				if err != nil || !ok {
					return err
				}
				return cfg.AuditMode.Apply(ctx)
			},
		},
		{
			Name: StepWorkflows,
			Run: func(ctx context.Context) error {
				ok, err := cfg.Prompter.Confirm(ctx, "Do you need GitHub Action workflows for testing and linting?", true)
				if err != nil || ok {
					return err
				}
				return project.RemoveWorkflows(ctx, cfg.Root)
			},
		},
		{
			Name: StepProtection,
			Run: func(ctx context.Context) error {
				ok, err := cfg.Prompter.Confirm(ctx, "Do you need Branch Protection for 'main' and 'dev'?", true)
				if err != nil || !ok {
					return err
				}
				if err := cfg.Protection.Apply(ctx); err != nil {
					return fmt.Errorf("%w: %w", ErrFatal, err)
				}
				return nil
			},
		},
	}
}

// PostInstall finalizes the project after dependencies are installed. It
// does nothing in CI or once the initialized marker exists. Every step runs
// even when an earlier one fails; the marker is only written when no fatal
// failure was recorded and the run was not interrupted, so the operator can
// re-run.
func PostInstall(ctx context.Context, cfg PostInstallConfig) (*Report, error) {
	ctx, _ = logger.WithRun(ctx, PipelinePostInstall)
	log := zerolog.Ctx(ctx)

	m := marker.New(setupDir(cfg.Root, cfg.Settings), marker.Initialized)

	if cfg.Settings.Automated() || m.Exists() {
		log.Debug().Bool("automated", cfg.Settings.Automated()).Msg("Post-install already done, skipping")
		return &Report{Pipeline: PipelinePostInstall, Skipped: true}, nil
	}

	log.Info().Msg("Starting project initialization")

	report := RunSteps(ctx, PipelinePostInstall, PostInstallSteps(cfg))
	if err := report.Err(); err != nil {
		return report, err
	}

	if err := m.Create(); err != nil {
		log.Error().Err(err).Str("marker", m.Path()).Msg("Error when creating the marker")
	}

	log.Info().Msg("Initialization completed successfully")

	return report, nil
}
