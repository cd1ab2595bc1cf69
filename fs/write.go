package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to path, creating parent directories as needed. The
// content is written to a temporary file in the same directory and renamed
// into place, so readers never observe a partial file. An existing file keeps
// its permissions.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fs: create directories: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("fs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("fs: write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("fs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("fs: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("fs: %w", err)
	}
	return nil
}

// CodeFileName returns the default file name for a downloaded code block
// with the given extension.
func CodeFileName(ext string) string {
	if ext == "" {
		ext = "txt"
	}
	return "code." + ext
}
