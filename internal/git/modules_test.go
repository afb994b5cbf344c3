package git

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `[submodule "lib/forge-std"]
	path = lib/forge-std
	url = https://github.com/foundry-rs/forge-std
[submodule "lib/openzeppelin-contracts"]
	path = lib/openzeppelin-contracts
	url = git@github.com:OpenZeppelin/openzeppelin-contracts.git
	branch = release-v5.0
[submodule "lib/solmate"]
	path = lib/solmate
	url = https://github.com/transmissions11/solmate.git
`

func TestParseModules(t *testing.T) {
	modules, err := ParseModules(context.Background(), strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, modules, 3)

	assert.Equal(t, Module{
		Name:         "lib/forge-std",
		URL:          "https://github.com/foundry-rs/forge-std",
		Path:         "lib/forge-std",
		Organization: "foundry-rs",
		Repository:   "forge-std",
	}, modules[0])

	assert.Equal(t, "OpenZeppelin", modules[1].Organization)
	assert.Equal(t, "openzeppelin-contracts", modules[1].Repository)
	assert.Equal(t, "release-v5.0", modules[1].Branch)

	assert.Equal(t, "transmissions11", modules[2].Organization)
	assert.Equal(t, "solmate", modules[2].Repository)

	for _, m := range modules {
		assert.NotEmpty(t, m.Organization, m.Name)
		assert.NotEmpty(t, m.Repository, m.Name)
		assert.NoError(t, m.Validate(), m.Name)
	}
}

func TestParseModules_MissingURL(t *testing.T) {
	src := `[submodule "broken"]
	path = lib/broken
[submodule "lib/forge-std"]
	path = lib/forge-std
	url = https://github.com/foundry-rs/forge-std.git
`
	modules, err := ParseModules(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, modules, 2)

	require.ErrorIs(t, modules[0].Validate(), ErrMissingURL)
	require.NoError(t, modules[1].Validate())
}

func TestParseModules_UnparsableURL(t *testing.T) {
	src := `[submodule "local"]
	path = lib/local
	url = local-only
`
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("step", "submodules").Logger().WithContext(context.Background())

	modules, err := ParseModules(ctx, strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"step":"submodules"`)
	assert.Contains(t, buf.String(), `"url":"local-only"`)

	assert.Empty(t, modules[0].Organization)
	assert.Empty(t, modules[0].Repository)
	require.ErrorIs(t, modules[0].Validate(), ErrUnparsableURL)
}

func TestParseModules_DuplicateNamesMerge(t *testing.T) {
	src := `[submodule "lib/a"]
	path = lib/a
	url = https://github.com/org/a.git
[submodule "lib/a"]
	branch = dev
`
	modules, err := ParseModules(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "org/a@dev", modules[0].Source())
}

func TestParseModules_IgnoresOtherSections(t *testing.T) {
	src := `[core]
	bare = false
[submodule "lib/a"]
	path = lib/a
	url = https://github.com/org/a
`
	modules, err := ParseModules(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, modules, 1)
}

func TestParseModules_Empty(t *testing.T) {
	modules, err := ParseModules(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, modules)
}

func TestParseOrgRepo(t *testing.T) {
	tests := []struct {
		name string
		url  string
		org  string
		repo string
	}{
		{name: "https with .git", url: "https://github.com/org/repo.git", org: "org", repo: "repo"},
		{name: "https without .git", url: "https://github.com/org/repo", org: "org", repo: "repo"},
		{name: "ssh with .git", url: "git@github.com:org/repo.git", org: "org", repo: "repo"},
		{name: "ssh without .git", url: "git@github.com:org/repo", org: "org", repo: "repo"},
		{name: "gitlab", url: "https://gitlab.com/group/project.git", org: "group", repo: "project"},
		{name: "dots in repo", url: "https://github.com/org/repo.name.git", org: "org", repo: "repo.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, repo, err := ParseOrgRepo(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.org, org)
			assert.Equal(t, tt.repo, repo)
		})
	}

	_, _, err := ParseOrgRepo("not-a-url")
	require.ErrorIs(t, err, ErrUnparsableURL)
}

func TestModule_Source(t *testing.T) {
	m := Module{Organization: "foundry-rs", Repository: "forge-std"}
	assert.Equal(t, "foundry-rs/forge-std", m.Source())

	m.Branch = "v1.9.4"
	assert.Equal(t, "foundry-rs/forge-std@v1.9.4", m.Source())
}

func TestModule_ValidateRejectsInjection(t *testing.T) {
	m := Module{Name: "x", URL: "u", Organization: "org", Repository: "repo", Branch: "main;rm -rf /"}
	require.ErrorIs(t, m.Validate(), ErrInvalidGitRef)

	m = Module{Name: "x", URL: "u", Organization: "--upload-pack", Repository: "repo"}
	require.ErrorIs(t, m.Validate(), ErrInvalidName)
}
