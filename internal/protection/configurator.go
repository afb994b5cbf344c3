package protection

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wolfeidau/projinit/internal/git"
)

// Configurator applies the policy to every branch of the repository the
// project's origin remote points at.
type Configurator struct {
	root     string
	token    string
	apiURL   string
	branches []string
	policy   Policy
	opts     []ClientOption
}

func NewConfigurator(root, token, apiURL string, opts ...ClientOption) *Configurator {
	return &Configurator{
		root:     root,
		token:    token,
		apiURL:   apiURL,
		branches: DefaultBranches,
		policy:   DefaultPolicy(),
		opts:     opts,
	}
}

// Apply protects each branch in turn and stops at the first failure.
func (c *Configurator) Apply(ctx context.Context) error {
	if c.token == "" {
		return ErrMissingToken
	}

	remoteURL, err := git.RemoteURL(c.root, "origin")
	if err != nil {
		return fmt.Errorf("failed to get git remote URL: %w", err)
	}

	owner, repo, err := git.ParseOwnerRepo(remoteURL)
	if err != nil {
		return err
	}

	client := NewClient(ctx, c.token, c.apiURL, c.opts...)
	log := zerolog.Ctx(ctx)

	for _, branch := range c.branches {
		log.Info().Str("repo", owner+"/"+repo).Str("branch", branch).Msg("Applying branch protection")

		if err := client.Protect(ctx, owner, repo, branch, c.policy); err != nil {
			return fmt.Errorf("failed to apply branch protection to %s: %w", branch, err)
		}

		log.Info().Str("branch", branch).Msg("Branch protection applied successfully")
	}

	return nil
}
