package compose

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestProcessFile(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.txt")

	tests := []struct {
		name           string
		config         EditorConfig
		transform      Transform
		expectedOutput string
		expectChange   bool
		expectError    bool
	}{
		{
			name:   "no changes",
			config: EditorConfig{},
			transform: func(data []byte, config EditorConfig) ([]byte, bool, error) {
				return data, false, nil
			},
			expectedOutput: "original content",
		},
		{
			name:   "changes with dry run",
			config: EditorConfig{DryRun: true},
			transform: func(data []byte, config EditorConfig) ([]byte, bool, error) {
				return []byte("modified content"), true, nil
			},
			expectedOutput: "original content",
			expectChange:   true,
		},
		{
			name:   "changes without dry run",
			config: EditorConfig{},
			transform: func(data []byte, config EditorConfig) ([]byte, bool, error) {
				return []byte("modified content"), true, nil
			},
			expectedOutput: "modified content",
			expectChange:   true,
		},
		{
			name:   "transform error",
			config: EditorConfig{},
			transform: func(data []byte, config EditorConfig) ([]byte, bool, error) {
				return nil, false, errors.New("boom")
			},
			expectedOutput: "original content",
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(testFile, []byte("original content"), 0644); err != nil {
				t.Fatalf("Failed to reset test file: %v", err)
			}

			changed, err := ProcessFile(testFile, tt.config, tt.transform)
			if tt.expectError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if changed != tt.expectChange {
				t.Errorf("Expected changed=%v, got %v", tt.expectChange, changed)
			}

			content, err := os.ReadFile(testFile)
			if err != nil {
				t.Fatalf("Failed to read test file: %v", err)
			}
			if string(content) != tt.expectedOutput {
				t.Errorf("Expected %q, got %q", tt.expectedOutput, string(content))
			}
		})
	}
}

func TestProcessFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	called := false
	changed, err := ProcessFile(path, EditorConfig{}, func(data []byte, config EditorConfig) ([]byte, bool, error) {
		called = true
		return data, true, nil
	})
	if err != nil {
		t.Errorf("Expected no error for a missing file, got %v", err)
	}
	if changed || called {
		t.Error("transform must not run for a missing file")
	}
}

func TestProcessFile_PreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "docker-compose.yaml")
	if err := os.WriteFile(path, []byte(mongoCompose), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if _, err := EnsureBlockInFile(path, OntologyBlock(), EditorConfig{Quiet: true}); err != nil {
		t.Fatalf("EnsureBlockInFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left behind, found %d entries", len(entries))
	}
}
