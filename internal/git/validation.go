package git

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// gitRefPattern allows alphanumeric chars, dash, underscore, slash, dot
	// This prevents command injection via malicious branch/tag names
	gitRefPattern = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)

	// namePattern matches a single GitHub organization or repository segment
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ValidateRef validates that a git reference (branch name, tag or commit SHA) is safe to use.
// It only allows alphanumeric characters, dash, underscore, slash, and dot to prevent
// command injection via malicious ref names.
func ValidateRef(ref string) error {
	if ref == "" {
		return nil // Empty refs are allowed (will use default branch)
	}

	if !gitRefPattern.MatchString(ref) {
		return fmt.Errorf("%w: must contain only alphanumeric, dash, underscore, slash, or dot", ErrInvalidGitRef)
	}

	// Additional check: reject refs that look like command-line options
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("%w: cannot start with dash", ErrInvalidGitRef)
	}

	if strings.Contains(ref, "..") {
		return fmt.Errorf("%w: cannot contain '..'", ErrInvalidGitRef)
	}

	return nil
}

// validateName checks an organization or repository segment before it is
// handed to an installer.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if !namePattern.MatchString(name) || strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
