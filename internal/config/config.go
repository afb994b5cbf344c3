// Package config builds the process configuration once at start-up from the
// environment. Every orchestrator step receives the resulting *Config instead
// of reading environment variables itself.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultSetupDir    = "scripts/project-config/setup"
	DefaultGitHubAPI   = "https://api.github.com"
	DefaultRegistryURL = "https://registry.npmjs.org"
)

type GitHub struct {
	// Token authorizes branch-protection calls. Only required when the
	// operator consents to applying protection.
	Token  string `env:"GITHUB_TOKEN"`
	APIURL string `env:"GITHUB_API_URL, default=https://api.github.com"`
}

type Config struct {
	// GHAction is set by the project's CI workflows. Any non-empty value
	// disables both install pipelines.
	GHAction string `env:"GH_ACTION"`

	GitHub GitHub

	RegistryURL string `env:"NPM_CONFIG_REGISTRY, default=https://registry.npmjs.org"`
	CacheDir    string `env:"PROJINIT_CACHE_DIR"`

	SetupDir             string `env:"PROJINIT_SETUP_DIR, default=scripts/project-config/setup"`
	SubmoduleConcurrency int    `env:"PROJINIT_SUBMODULE_CONCURRENCY, default=1"`
}

// Automated reports whether the process runs inside the project's CI.
func (c *Config) Automated() bool {
	return c.GHAction != ""
}

// AuditFilesDir is where the audit-mode replacement files are kept.
func (c *Config) AuditFilesDir() string {
	return c.SetupDir + "/audit-mode-files"
}

func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes the configuration using the given lookuper, which lets
// tests inject a fixed environment.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.SubmoduleConcurrency < 1 {
		cfg.SubmoduleConcurrency = 1
	}

	return &cfg, nil
}
