package compose

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Transform rewrites file content and reports whether anything changed
type Transform func(data []byte, config EditorConfig) ([]byte, bool, error)

// ProcessFile reads path, applies transform and writes the result back in one
// piece. A missing file is not an error: templates may not be materialized yet.
func ProcessFile(path string, config EditorConfig, transform Transform) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	output, changed, err := transform(data, config)
	if err != nil {
		return false, err
	}

	if changed && !config.DryRun {
		if err := writeFileAtomic(path, output, getFileMode(path)); err != nil {
			return false, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return changed, nil
}

// writeFileAtomic writes to a temp file next to path and renames it over path
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".laia-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	success = true
	return nil
}

func getFileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

// EnsureBlockInFile adds the block to the compose file at path
func EnsureBlockInFile(path string, b Block, config EditorConfig) (bool, error) {
	changed, err := ProcessFile(path, config, func(data []byte, _ EditorConfig) ([]byte, bool, error) {
		out, changed := EnsureBlock(data, b)
		return out, changed, nil
	})
	if err == nil && changed && !config.Quiet {
		FormatBlockChange(ActionAdded, b.Name, path)
	}
	return changed, err
}

// RemoveBlockFromFile drops the named block and its volume from the compose file at path
func RemoveBlockFromFile(path, name, volume string, config EditorConfig) (bool, error) {
	changed, err := ProcessFile(path, config, func(data []byte, _ EditorConfig) ([]byte, bool, error) {
		out, changed := RemoveBlock(data, name, volume)
		return out, changed, nil
	})
	if err == nil && changed && !config.Quiet {
		FormatBlockChange(ActionRemoved, name, path)
	}
	return changed, err
}

// EnsureDirectiveInFile injects the directive into its service in the compose file at path
func EnsureDirectiveInFile(path string, dir Directive, config EditorConfig) (bool, error) {
	changed, err := ProcessFile(path, config, func(data []byte, _ EditorConfig) ([]byte, bool, error) {
		out, changed := EnsureDirective(data, dir)
		return out, changed, nil
	})
	if err == nil && changed && !config.Quiet {
		FormatBlockChange(ActionAdded, dir.Service+" replica set", path)
	}
	return changed, err
}

// RemoveDirectiveFromFile strips the directive from its service in the compose file at path
func RemoveDirectiveFromFile(path string, dir Directive, config EditorConfig) (bool, error) {
	changed, err := ProcessFile(path, config, func(data []byte, _ EditorConfig) ([]byte, bool, error) {
		out, changed := RemoveDirective(data, dir)
		return out, changed, nil
	})
	if err == nil && changed && !config.Quiet {
		FormatBlockChange(ActionRemoved, dir.Service+" replica set", path)
	}
	return changed, err
}

// LogWarning provides consistent warning message formatting
func LogWarning(format string, args ...any) {
	color.Yellow("WARN: "+format, args...)
}

// LogSuccess prints a completed step
func LogSuccess(format string, args ...any) {
	fmt.Printf("✅ %s\n", color.GreenString(format, args...))
}

// LogInfo prints a step that is about to run
func LogInfo(format string, args ...any) {
	fmt.Printf("%s %s\n", color.BlueString("==>"), fmt.Sprintf(format, args...))
}
