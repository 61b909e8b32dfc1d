package compose

// ComposeFile is a minimal representation of a docker-compose YAML
type ComposeFile struct {
	Services map[string]struct {
		Image string `yaml:"image"`
	} `yaml:"services"`
	Volumes map[string]any `yaml:"volumes"`
}

// EditorConfig holds configuration for compose edits
type EditorConfig struct {
	DryRun         bool
	Quiet          bool
	Algorithm      string // digest algorithm for pinning, e.g. sha256
	ExpandRegistry bool   // pin with the fully qualified registry name
}
