package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
		errType error
	}{
		// Valid refs
		{
			name:    "valid branch name",
			ref:     "main",
			wantErr: false,
		},
		{
			name:    "valid branch with slash",
			ref:     "feature/new-feature",
			wantErr: false,
		},
		{
			name:    "valid commit SHA",
			ref:     "abc123def456",
			wantErr: false,
		},
		{
			name:    "valid long commit SHA",
			ref:     "abc123def456789012345678901234567890abcd",
			wantErr: false,
		},
		{
			name:    "valid tag",
			ref:     "v1.0.0",
			wantErr: false,
		},
		{
			name:    "valid tag with dots and dashes",
			ref:     "v1.0.0-rc.1",
			wantErr: false,
		},
		{
			name:    "empty ref",
			ref:     "",
			wantErr: false, // Empty refs are allowed (use default branch)
		},

		// Invalid refs - shell injection
		{
			name:    "invalid shell injection with semicolon",
			ref:     "main; rm -rf /",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid shell injection with backtick",
			ref:     "main`whoami`",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid shell injection with dollar",
			ref:     "main$USER",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid shell injection with pipe",
			ref:     "main | cat",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid shell injection with &&",
			ref:     "main && evil",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},

		// Invalid refs - command-line options
		{
			name:    "invalid option with single dash",
			ref:     "-option",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid option with double dash",
			ref:     "--option=value",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},

		{
			name:    "invalid ref with parent traversal",
			ref:     "release/../main",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},

		// Invalid refs - special characters
		{
			name:    "invalid ref with parentheses",
			ref:     "branch(test)",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid ref with space",
			ref:     "main branch",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
		{
			name:    "invalid ref with equals",
			ref:     "branch=value",
			wantErr: true,
			errType: ErrInvalidGitRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errType != nil {
					require.ErrorIs(t, err, tt.errType, "expected error type %v, got %v", tt.errType, err)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"foundry-rs", "forge-std", "OpenZeppelin", "openzeppelin-contracts", "solmate_v2", "repo.name"}
	for _, name := range valid {
		require.NoError(t, validateName(name), name)
	}

	invalid := []string{"", "-rf", "org repo", "org;rm", "a/b", "$HOME"}
	for _, name := range invalid {
		err := validateName(name)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}
