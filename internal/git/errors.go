package git

import "errors"

var (
	// ErrInvalidGitRef indicates the git reference (branch/tag) is invalid or potentially malicious
	ErrInvalidGitRef = errors.New("invalid git reference")
	// ErrInvalidName indicates an organization or repository name that cannot be passed to a tool
	ErrInvalidName = errors.New("invalid repository name")
	// ErrMissingURL indicates a submodule block without a url key
	ErrMissingURL = errors.New("submodule has no url")
	// ErrUnparsableURL indicates a URL the organization/repository pattern does not match
	ErrUnparsableURL = errors.New("unable to parse organization and repository from URL")
	// ErrUnparsableRemote indicates a remote URL that does not point at a GitHub repository
	ErrUnparsableRemote = errors.New("could not parse owner and repo from remote URL")
	// ErrNoRemote indicates the requested remote is not configured
	ErrNoRemote = errors.New("git remote not configured")
	// ErrInitFailed indicates git repository initialization failed
	ErrInitFailed = errors.New("git init failed")
)
