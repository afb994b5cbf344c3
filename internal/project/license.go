// Package project applies the one-off edits a freshly templated project
// receives: template license removal, audit mode and workflow removal.
package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TemplateCopyright identifies the license shipped with the template.
const TemplateCopyright = "Copyright (c) 2024 Yurii721"

// RemoveTemplateLicense deletes LICENSE under root when it is the template's
// own license. A missing file is not an error.
func RemoveTemplateLicense(ctx context.Context, root string) (bool, error) {
	path := filepath.Join(root, "LICENSE")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error when removing the template's license: %w", err)
	}

	if !strings.Contains(string(data), TemplateCopyright) {
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("error when removing the template's license: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Msg("Removed the template's license")

	return true, nil
}
