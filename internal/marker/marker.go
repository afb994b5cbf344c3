// Package marker manages idempotency markers: zero-byte files whose presence
// means a pipeline already ran. Markers are never rewritten or removed by the
// tool; deleting one by hand re-arms its pipeline.
package marker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wolfeidau/projinit/internal/util"
)

const (
	Installed   = ".installed"
	Initialized = ".initialized"
)

type Marker struct {
	path string
}

func New(dir, name string) Marker {
	return Marker{path: filepath.Join(dir, name)}
}

func (m Marker) Path() string {
	return m.path
}

func (m Marker) Exists() bool {
	return util.FileExists(m.path)
}

// Create writes the empty marker file, creating its directory if needed.
func (m Marker) Create() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}
	// #nosec G306 - marker files carry no data
	if err := os.WriteFile(m.path, nil, 0644); err != nil {
		return fmt.Errorf("failed to create marker %s: %w", m.path, err)
	}
	return nil
}
