package protection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingToken is returned before any request is made when no GitHub
	// token is configured.
	ErrMissingToken = errors.New("GITHUB_TOKEN environment variable is not set")
	// ErrProtectionFailed is matched by every *APIError.
	ErrProtectionFailed = errors.New("failed to apply branch protection")
)

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Branch     string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("GitHub API error for branch %s: %s", e.Branch, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == ErrProtectionFailed
}

func (e *APIError) retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
