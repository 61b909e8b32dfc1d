package compose

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// Validate checks that data is well-formed YAML. The editor never relies on
// it; callers use it to warn about templates that were malformed to begin with.
func Validate(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid compose document: %w", err)
	}
	return nil
}

// Summary lists the service and global volume names of a compose document
type Summary struct {
	Services []string
	Volumes  []string
}

// Summarize parses data and returns its sorted service and volume names
func Summarize(data []byte) (Summary, error) {
	var cf ComposeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return Summary{}, fmt.Errorf("invalid compose document: %w", err)
	}

	s := Summary{
		Services: make([]string, 0, len(cf.Services)),
		Volumes:  make([]string, 0, len(cf.Volumes)),
	}
	for name := range cf.Services {
		s.Services = append(s.Services, name)
	}
	for name := range cf.Volumes {
		s.Volumes = append(s.Volumes, name)
	}
	sort.Strings(s.Services)
	sort.Strings(s.Volumes)
	return s, nil
}
