// Package scaffold materializes a project skeleton from templates.
package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateDirectory creates path and its parents. Existing directories are fine.
func CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// CopyTemplate copies the template name from templates to dst, creating parent directories
func CopyTemplate(templates fs.FS, name, dst string) error {
	data, err := fs.ReadFile(templates, name)
	if err != nil {
		return fmt.Errorf("read template %s: %w", name, err)
	}
	return CreateFile(dst, data)
}

// CreateFile writes content to path, creating parent directories
func CreateFile(path string, content []byte) error {
	if err := CreateDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
