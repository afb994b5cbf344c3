package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// WorkflowsDir holds the GitHub Actions workflows shipped with the template.
const WorkflowsDir = ".github/workflows"

// RemoveWorkflows deletes the workflows directory under root.
func RemoveWorkflows(ctx context.Context, root string) error {
	path := filepath.Join(root, WorkflowsDir)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("error when removing workflows: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Msg("Workflows removed successfully")

	return nil
}
