package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/laia-project/laia/internal/compose"
)

// ErrNoComposeFile is returned when a directory holds no compose file
var ErrNoComposeFile = errors.New("no compose file found")

// composeNames are the file names docker compose picks up on its own, in lookup order
var composeNames = []string{
	"docker-compose.yaml",
	"docker-compose.yml",
	"compose.yaml",
	"compose.yml",
}

// IsComposeFile checks if a filename is one of the standard compose names
func IsComposeFile(filename string) bool {
	lower := strings.ToLower(filepath.Base(filename))
	for _, name := range composeNames {
		if lower == name {
			return true
		}
	}
	return false
}

// DetectCompose reports whether data decodes to a document with services
func DetectCompose(data []byte) bool {
	var cf compose.ComposeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return false
	}
	return len(cf.Services) > 0
}

// FindComposeFile returns the compose file of a project directory. Standard
// names win; otherwise the first YAML file with a services section is used.
func FindComposeFile(root string) (string, error) {
	for _, name := range composeNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", root, err)
	}
	var candidates []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		candidates = append(candidates, filepath.Join(root, e.Name()))
	}
	sort.Strings(candidates)

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if DetectCompose(data) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoComposeFile, root)
}

// ScanPath walks a directory and returns every compose file found in it
func ScanPath(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (!recursive || skipDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsComposeFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// skipDir keeps dependency and VCS trees out of recursive scans
func skipDir(name string) bool {
	switch name {
	case ".git", "node_modules", ".venv", "venv", "__pycache__":
		return true
	}
	return false
}

// ResolveTargets expands files and directories given on the command line into compose files
func ResolveTargets(targets []string, recursive bool) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		found, err := ScanPath(target, recursive)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", target, err)
		}
		files = append(files, found...)
	}
	return files, nil
}
