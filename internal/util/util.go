package util

import (
	"errors"
	"io/fs"
	"os"
)

// FileExists reports whether anything exists at path. Permission errors and
// other stat failures count as absent, which is what callers probing for
// markers and checked-out submodules want.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// RemoveIfExists removes the file at path, treating a missing file as success.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
