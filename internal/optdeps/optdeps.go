// Package optdeps offers the optional OpenZeppelin packages to the operator
// and wires the accepted ones into the project.
package optdeps

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/hardhat"
	"github.com/wolfeidau/projinit/internal/pkgmgr"
	"github.com/wolfeidau/projinit/internal/prompt"
)

const (
	Contracts            = "@openzeppelin/contracts"
	ContractsUpgradeable = "@openzeppelin/contracts-upgradeable"
	HardhatUpgrades      = "@openzeppelin/hardhat-upgrades"
)

// VersionSource resolves a package name to name@version.
type VersionSource interface {
	LatestSpec(ctx context.Context, name string) (string, error)
}

// PackageAdder installs packages into the project.
type PackageAdder interface {
	Add(ctx context.Context, packages []string, dev bool) error
}

type Installer struct {
	prompter prompt.Prompter
	versions VersionSource
	packages PackageAdder
	root     string
}

func New(p prompt.Prompter, versions VersionSource, packages PackageAdder, root string) *Installer {
	return &Installer{
		prompter: p,
		versions: versions,
		packages: packages,
		root:     root,
	}
}

// plan is the set of packages the operator accepted.
type plan struct {
	dependencies    []string
	devDependencies []string
	imports         []string
}

// Run asks whether optional packages are wanted and installs the accepted
// ones. Errors editing the Hardhat config or package.json do not stop the
// remaining edits and are returned joined.
func (i *Installer) Run(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	wanted, err := i.prompter.Confirm(ctx, "Would you like to install optional packages like OpenZeppelin Contracts?", false)
	if err != nil {
		return err
	}
	if !wanted {
		return nil
	}

	p, err := i.choose(ctx)
	if err != nil {
		return err
	}

	if len(p.dependencies) > 0 || len(p.devDependencies) > 0 {
		log.Info().
			Strs("dependencies", p.dependencies).
			Strs("dev_dependencies", p.devDependencies).
			Msg("Installing packages")

		if err := i.packages.Add(ctx, p.dependencies, false); err != nil {
			return err
		}
		if err := i.packages.Add(ctx, p.devDependencies, true); err != nil {
			return err
		}
	}

	var errs []error

	if len(p.imports) > 0 {
		added, err := hardhat.AddImports(ctx, filepath.Join(i.root, hardhat.DefaultConfig), p.imports)
		if err != nil {
			log.Error().Err(err).Msg("Error when adding new import statements to the Hardhat config")
			errs = append(errs, err)
		} else if len(added) > 0 {
			log.Info().Strs("imports", added).Msg("New import statements added to the Hardhat config")
		}
	}

	moved, err := pkgmgr.ReorderDependencies(filepath.Join(i.root, "package.json"))
	switch {
	case err != nil:
		log.Error().Err(err).Msg("Error when reordering package.json")
		errs = append(errs, err)
	case moved:
		log.Info().Msg("Moved dependencies before devDependencies")
	}

	return errors.Join(errs...)
}

func (i *Installer) choose(ctx context.Context) (plan, error) {
	var p plan

	contracts, err := i.versions.LatestSpec(ctx, Contracts)
	if err != nil {
		return p, err
	}
	upgradeable, err := i.versions.LatestSpec(ctx, ContractsUpgradeable)
	if err != nil {
		return p, err
	}

	ok, err := i.prompter.Confirm(ctx, fmt.Sprintf("Install `%s`?", contracts), false)
	if err != nil {
		return p, err
	}
	if ok {
		p.dependencies = append(p.dependencies, contracts)
	}

	ok, err = i.prompter.Confirm(ctx, fmt.Sprintf("Install `%s`?", upgradeable), false)
	if err != nil {
		return p, err
	}
	if !ok {
		return p, nil
	}
	p.dependencies = append(p.dependencies, upgradeable)

	upgrades, err := i.versions.LatestSpec(ctx, HardhatUpgrades)
	if err != nil {
		return p, err
	}

	ok, err = i.prompter.Confirm(ctx, fmt.Sprintf("Would you like to install `%s` as well?", upgrades), false)
	if err != nil {
		return p, err
	}
	if ok {
		p.devDependencies = append(p.devDependencies, upgrades)
		p.imports = append(p.imports, HardhatUpgrades)
	}

	return p, nil
}
