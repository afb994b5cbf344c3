package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/wolfeidau/projinit/internal/util"
)

const LintWorkflow = ".github/workflows/lint.yml"

var (
	solhintStep     = regexp.MustCompile(`\s*pnpm solhint "contracts/\*\*/\*\.sol"`)
	prettierAll     = regexp.MustCompile(`pnpm prettier --no-error-on-unmatched-pattern --check -u "\*"`)
	prettierNoSol   = `pnpm prettier --no-error-on-unmatched-pattern --check "**/*.{ts,js,mjs,json,jsonc,md}"`
	auditFileCopies = []struct{ src, dest string }{
		{src: "husky_pre_commit.sh", dest: ".husky/pre-commit"},
		{src: "lintstaged.json", dest: ".lintstagedrc.json"},
	}
	auditFileRemovals = []string{".husky/pre-push"}
)

// AuditMode disables contract formatting and linting so audited sources are
// never rewritten by the project's hooks.
type AuditMode struct {
	root     string
	filesDir string
}

// NewAuditMode returns an AuditMode for the project at root that installs
// the hook files found in filesDir. A relative filesDir is resolved against
// root.
func NewAuditMode(root, filesDir string) *AuditMode {
	if !filepath.IsAbs(filesDir) {
		filesDir = filepath.Join(root, filesDir)
	}
	return &AuditMode{root: root, filesDir: filesDir}
}

// Apply installs the audit hooks, removes the pre-push hook and corrects the
// lint workflow. Every edit is attempted; failures are returned joined.
func (a *AuditMode) Apply(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	var errs []error

	for _, c := range auditFileCopies {
		src := filepath.Join(a.filesDir, c.src)
		dest := filepath.Join(a.root, c.dest)
		if err := copyFile(src, dest); err != nil {
			log.Error().Err(err).Str("file", dest).Msg("Error when copying audit mode file")
			errs = append(errs, err)
		}
	}

	for _, r := range auditFileRemovals {
		path := filepath.Join(a.root, r)
		if err := util.RemoveIfExists(path); err != nil {
			log.Error().Err(err).Str("file", path).Msg("Error when removing file")
			errs = append(errs, err)
		}
	}

	lint := filepath.Join(a.root, LintWorkflow)
	if err := PatchLintWorkflow(lint); err != nil {
		log.Error().Err(err).Str("file", lint).Msg("Error when correcting lint workflow")
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		log.Info().Msg("The audit mode is set")
	}

	return errors.Join(errs...)
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrAuditFileMissing, src)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	if err := os.WriteFile(dest, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return nil
}

// PatchLintWorkflow drops the solhint invocation from the lint workflow at
// path and restricts prettier to non-Solidity sources. It edits the YAML
// node tree so comments and layout of untouched nodes survive.
func PatchLintWorkflow(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if !patchScalars(&doc) {
		return nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// patchScalars rewrites matching scalar values in place and reports whether
// anything changed.
func patchScalars(n *yaml.Node) bool {
	changed := false

	if n.Kind == yaml.ScalarNode {
		v := solhintStep.ReplaceAllString(n.Value, "")
		v = prettierAll.ReplaceAllLiteralString(v, prettierNoSol)
		if v != n.Value {
			n.Value = v
			changed = true
		}
	}

	for _, c := range n.Content {
		if patchScalars(c) {
			changed = true
		}
	}

	return changed
}
