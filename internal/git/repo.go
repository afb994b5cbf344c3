// Package git wraps the local repository operations the bootstrap pipelines
// need: initializing a repository, reading remotes, and decoding the
// submodule manifest. Repository access goes through go-git so no git binary
// is required for these steps.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/projinit/internal/util"
)

// DefaultBranch is the initial branch of repositories created by EnsureRepository.
const DefaultBranch = "main"

var githubRemotePattern = regexp.MustCompile(`github\.com[:/](.+?)/(.+?)(\.git)?$`)

// EnsureRepository initializes a git repository in dir unless one is already
// present. It reports whether a repository was created.
func EnsureRepository(ctx context.Context, dir string) (bool, error) {
	if util.FileExists(filepath.Join(dir, ".git")) {
		return false, nil
	}

	zerolog.Ctx(ctx).Info().Str("dir", dir).Msg("No Git repository found, initializing one")

	_, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
		},
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	return true, nil
}

// RemoteURL returns the first URL configured for the named remote of the
// repository containing dir.
func RemoteURL(dir, remote string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	r, err := repo.Remote(remote)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoRemote, remote)
		}
		return "", fmt.Errorf("failed to read remote %s: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s has no URL", ErrNoRemote, remote)
	}

	return urls[0], nil
}

// ParseOwnerRepo extracts the GitHub owner and repository name from a remote
// URL in either SSH (git@github.com:owner/repo.git) or HTTPS form.
func ParseOwnerRepo(remoteURL string) (string, string, error) {
	match := githubRemotePattern.FindStringSubmatch(remoteURL)
	if match == nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnparsableRemote, remoteURL)
	}
	return match[1], match[2], nil
}
