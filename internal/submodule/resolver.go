// Package submodule restores submodules listed in a .gitmodules manifest that
// are missing from the working tree, using Foundry's forge installer.
package submodule

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/wolfeidau/projinit/internal/git"
	"github.com/wolfeidau/projinit/internal/runner"
	"github.com/wolfeidau/projinit/internal/telemetry"
	"github.com/wolfeidau/projinit/internal/util"
)

const DefaultManifest = ".gitmodules"

// DefaultConcurrency runs installs one at a time. forge install edits the
// shared .gitmodules and git index, so parallel installs in one repository
// race on index.lock.
const DefaultConcurrency = 1

// ErrInvalidModule wraps validation failures of a manifest entry. Invalid
// entries are reported and never retried.
var ErrInvalidModule = errors.New("invalid submodule")

// Result is the outcome of restoring one module.
type Result struct {
	Module  git.Module
	Skipped bool
	Err     error
}

type Resolver struct {
	runner      runner.Runner
	root        string
	concurrency int
}

type Option func(*Resolver)

// WithConcurrency bounds the number of installs running at once. Values above
// one are only safe when installs do not share a git index.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func NewResolver(run runner.Runner, root string, opts ...Option) *Resolver {
	r := &Resolver{
		runner:      run,
		root:        root,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InstallCommand builds the forge invocation that restores m.
func InstallCommand(m git.Module) (runner.Command, error) {
	if err := m.Validate(); err != nil {
		return runner.Command{}, fmt.Errorf("%w: %w", ErrInvalidModule, err)
	}
	return runner.Command{
		Name: "forge",
		Args: []string{"install", m.Source(), "--no-commit"},
	}, nil
}

// Installed reports whether the module's path is present under the root.
func (r *Resolver) Installed(m git.Module) bool {
	if m.Path == "" {
		return false
	}
	return util.FileExists(filepath.Join(r.root, m.Path))
}

// RestoreFromFile reads the manifest at path (relative to the root) and
// restores it. A missing manifest means there is nothing to restore.
func (r *Resolver) RestoreFromFile(ctx context.Context, path string) ([]Result, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			zerolog.Ctx(ctx).Debug().Str("manifest", path).Msg("No submodule manifest, nothing to restore")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open submodule manifest: %w", err)
	}
	defer f.Close()

	modules, err := git.ParseModules(ctx, f)
	if err != nil {
		return nil, err
	}

	return r.Restore(ctx, modules), nil
}

// Restore installs every module whose path is missing. Installs run on a
// bounded pool; a failure never stops the others and nothing is rolled back.
// Results are returned in manifest order.
func (r *Resolver) Restore(ctx context.Context, modules []git.Module) []Result {
	results := make([]Result, len(modules))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, m := range modules {
		results[i].Module = m

		if r.Installed(m) {
			results[i].Skipped = true
			continue
		}

		g.Go(func() error {
			results[i].Err = r.install(ctx, m)
			return nil
		})
	}

	_ = g.Wait()

	return results
}

func (r *Resolver) install(ctx context.Context, m git.Module) error {
	logger := zerolog.Ctx(ctx).With().Str("module", m.Name).Logger()
	metrics := telemetry.GetMetrics()
	attrs := metric.WithAttributes(attribute.String("module", m.Name))

	logger.Info().Msg("Restoring submodule")

	cmd, err := InstallCommand(m)
	if err != nil {
		logger.Error().Err(err).Msg("Submodule entry is invalid")
		metrics.SubmodulesFailedTotal.Add(ctx, 1, attrs)
		return err
	}

	cmd.Dir = r.root
	metrics.CommandsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("command", cmd.Name)))

	if _, err := r.runner.Run(ctx, cmd); err != nil {
		logger.Error().Err(err).Str("source", m.Source()).Msg("Failed to install submodule using forge")
		metrics.SubmodulesFailedTotal.Add(ctx, 1, attrs)
		return fmt.Errorf("failed to restore %s: %w", m.Name, err)
	}

	logger.Info().Str("source", m.Source()).Msg("Restored submodule")
	metrics.SubmodulesRestoredTotal.Add(ctx, 1, attrs)

	return nil
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
