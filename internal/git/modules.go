package git

import (
	"context"
	"fmt"
	"io"
	"regexp"

	formatcfg "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/rs/zerolog"
)

// moduleURLPattern extracts organization and repository from both
// https://host/org/repo(.git) and git@host:org/repo(.git) forms.
var moduleURLPattern = regexp.MustCompile(`[:\\/]([^\\/:]+)/([^\\/]+?)(?:\.git)?$`)

// Module describes one entry of a .gitmodules manifest.
type Module struct {
	Name         string
	URL          string
	Path         string
	Branch       string
	Organization string
	Repository   string
}

// Source returns the installer address: organization/repository with an
// optional @branch suffix.
func (m Module) Source() string {
	src := m.Organization + "/" + m.Repository
	if m.Branch != "" {
		src += "@" + m.Branch
	}
	return src
}

// Validate reports why a module cannot be installed.
func (m Module) Validate() error {
	if m.URL == "" {
		return fmt.Errorf("module %q: %w", m.Name, ErrMissingURL)
	}
	if m.Organization == "" || m.Repository == "" {
		return fmt.Errorf("module %q: missing organization or repository: %w", m.Name, ErrUnparsableURL)
	}
	if err := validateName(m.Organization); err != nil {
		return fmt.Errorf("module %q: organization: %w", m.Name, err)
	}
	if err := validateName(m.Repository); err != nil {
		return fmt.Errorf("module %q: repository: %w", m.Name, err)
	}
	if err := ValidateRef(m.Branch); err != nil {
		return fmt.Errorf("module %q: branch: %w", m.Name, err)
	}
	return nil
}

// ParseOrgRepo extracts the organization and repository from a submodule URL.
func ParseOrgRepo(url string) (string, string, error) {
	match := moduleURLPattern.FindStringSubmatch(url)
	if match == nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnparsableURL, url)
	}
	return match[1], match[2], nil
}

// ParseModules decodes a .gitmodules manifest. Each [submodule "name"] block
// yields one Module in manifest order; repeated blocks for the same name are
// merged with later keys winning. Blocks whose URL cannot be parsed are still
// returned, with empty Organization/Repository, so that callers can report
// them individually.
func ParseModules(ctx context.Context, r io.Reader) ([]Module, error) {
	cfg := formatcfg.New()
	if err := formatcfg.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode submodule manifest: %w", err)
	}

	var modules []Module
	for _, section := range cfg.Sections {
		if !section.IsName("submodule") {
			continue
		}

		for _, sub := range section.Subsections {
			m := Module{
				Name:   sub.Name,
				URL:    sub.Options.Get("url"),
				Path:   sub.Options.Get("path"),
				Branch: sub.Options.Get("branch"),
			}

			if m.URL != "" {
				org, repo, err := ParseOrgRepo(m.URL)
				if err != nil {
					zerolog.Ctx(ctx).Warn().Str("module", m.Name).Str("url", m.URL).Msg("Unable to parse organization and repository from URL")
				} else {
					m.Organization, m.Repository = org, repo
				}
			}

			modules = append(modules, m)
		}
	}

	return modules, nil
}
