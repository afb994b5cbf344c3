// Package bootstrap runs the two install-time pipelines of a templated
// project. Pre-install gates the package manager, initializes git and
// restores submodules; post-install walks the operator through the optional
// project setup. Each pipeline runs at most once, guarded by a marker file
// in the setup directory.
package bootstrap

import (
	"context"
	"path/filepath"

	"github.com/wolfeidau/projinit/internal/config"
	"github.com/wolfeidau/projinit/internal/submodule"
)

const (
	PipelinePreInstall  = "preinstall"
	PipelinePostInstall = "postinstall"
)

// Enforcer checks the package manager the install was started with.
type Enforcer interface {
	Enforce(ctx context.Context) error
}

// SubmoduleRestorer restores the submodules listed in a manifest.
type SubmoduleRestorer interface {
	RestoreFromFile(ctx context.Context, path string) ([]submodule.Result, error)
}

// OptionalDeps offers and installs optional packages.
type OptionalDeps interface {
	Run(ctx context.Context) error
}

// AuditMode switches the project to audit mode.
type AuditMode interface {
	Apply(ctx context.Context) error
}

// Protector applies branch protection to the project's repository.
type Protector interface {
	Apply(ctx context.Context) error
}

// setupDir resolves the directory holding the pipeline markers.
func setupDir(root string, settings *config.Config) string {
	if filepath.IsAbs(settings.SetupDir) {
		return settings.SetupDir
	}
	return filepath.Join(root, settings.SetupDir)
}
