package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/laia-project/laia/internal/compose"
)

// ComposeFile is the compose file name inside a generated project
const ComposeFile = "docker-compose.yaml"

// replicaInitScript is mounted into the mongo container by the replica set directive
const replicaInitScript = "init-replica.js"

// projectDirs are created by Init, relative to the project root
var projectDirs = []string{
	"backend",
	"frontend",
	"backoffice",
	"backend/backend",
	"backend/openapi",
	"backend/openapi/paths",
	"backend/openapi/schemas",
}

// projectTemplates maps template names to their destination in the project
var projectTemplates = []struct {
	Name string
	Dst  string
}{
	{"main.py", "backend/main.py"},
	{"base.yaml", "backend/openapi/base.yaml"},
	{"User.yaml", "backend/openapi/schemas/User.yaml"},
	{"routes.py", "backend/backend/routes.py"},
	{"models.py", "backend/backend/models.py"},
	{"requirements.txt", "requirements.txt"},
	{ComposeFile, ComposeFile},
}

// Options configures Init
type Options struct {
	Dir          string // project root
	Templates    fs.FS
	ProjectName  string
	UseOntology  bool
	Storage      bool
	AccessRights bool
	PinImages    bool
	Resolver     compose.DigestResolver // required when PinImages is set
	Editor       compose.EditorConfig
}

// Init generates the project skeleton in opts.Dir. The compose template is
// copied first and the project copy is edited, so templates stay pristine.
func Init(ctx context.Context, opts Options) error {
	if opts.ProjectName == "" {
		opts.ProjectName = "routeinjector"
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	for _, dir := range projectDirs {
		if err := CreateDirectory(filepath.Join(opts.Dir, dir)); err != nil {
			return err
		}
	}
	for _, t := range projectTemplates {
		if err := CopyTemplate(opts.Templates, t.Name, filepath.Join(opts.Dir, t.Dst)); err != nil {
			return err
		}
	}
	if err := CreateConfigFiles(filepath.Join(opts.Dir, "config"), opts.UseOntology); err != nil {
		return err
	}

	toggle := ToggleOptions{Dir: opts.Dir, Templates: opts.Templates, Editor: opts.Editor}
	features := []struct {
		name    string
		enabled bool
	}{
		{compose.FeatureOntology, opts.UseOntology},
		{compose.FeatureStorage, opts.Storage},
	}
	for _, f := range features {
		toggle.Feature, toggle.Enable = f.name, f.enabled
		if err := Toggle(toggle); err != nil {
			return err
		}
	}

	composePath := filepath.Join(opts.Dir, ComposeFile)
	if opts.PinImages {
		if opts.Resolver == nil {
			return fmt.Errorf("pin images: no digest resolver configured")
		}
		if _, err := compose.ProcessPin(ctx, opts.Resolver, composePath, opts.Editor); err != nil {
			return fmt.Errorf("pin images: %w", err)
		}
	}
	checkCompose(composePath)

	cfg := ProjectConfig{
		ProjectName:     opts.ProjectName,
		UseOntology:     opts.UseOntology,
		Database:        "MongoDB",
		Frontend:        "Flutter",
		UseAccessRights: opts.AccessRights,
		Storage:         opts.Storage,
	}
	return WriteProjectConfig(opts.Dir, cfg)
}

// checkCompose warns when the edited compose file no longer parses
func checkCompose(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := compose.Validate(data); err != nil {
		compose.LogWarning("%s: %v", path, err)
	}
}

// ToggleOptions configures Toggle
type ToggleOptions struct {
	Dir         string // project root
	ComposePath string // defaults to <Dir>/docker-compose.yaml
	Templates   fs.FS
	Feature     string
	Enable      bool
	Editor      compose.EditorConfig
}

// Toggle enables or disables one feature in an existing project. Ontology
// brings the mongo replica set and its init script along; storage keeps the
// minio service and the storage section of the config files in sync.
func Toggle(opts ToggleOptions) error {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	path := opts.ComposePath
	if path == "" {
		path = filepath.Join(opts.Dir, ComposeFile)
	}

	var features []compose.Feature
	switch opts.Feature {
	case compose.FeatureOntology:
		features = []compose.Feature{compose.OntologyFeature(), compose.ReplicaSetFeature()}
		if opts.Enable && !opts.Editor.DryRun {
			// the bind mount is relative to the compose file
			if err := CopyTemplate(opts.Templates, replicaInitScript, filepath.Join(filepath.Dir(path), replicaInitScript)); err != nil {
				return err
			}
		}
	case compose.FeatureStorage:
		storage, err := prepareStorage(opts)
		if err != nil {
			return err
		}
		features = []compose.Feature{compose.StorageFeature(storage)}
	default:
		f, err := compose.LookupFeature(opts.Feature, compose.StorageConfig{})
		if err != nil {
			return err
		}
		features = []compose.Feature{f}
	}

	for _, f := range features {
		apply := f.Disable
		if opts.Enable {
			apply = f.Enable
		}
		if _, err := apply(path, opts.Editor); err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
	}

	if opts.Editor.DryRun {
		return nil
	}
	return recordFeature(opts.Dir, opts.Feature, opts.Enable)
}

// prepareStorage writes the storage section when enabling and returns the
// settings the minio block is rendered from
func prepareStorage(opts ToggleOptions) (compose.StorageConfig, error) {
	configDir := filepath.Join(opts.Dir, "config")
	if opts.Enable && !opts.Editor.DryRun {
		current, err := LoadStorageConfig(filepath.Join(configDir, "dev.json"))
		if err != nil {
			return compose.StorageConfig{}, err
		}
		if current == (compose.StorageConfig{}) {
			if err := UpdateStorageConfig(configDir, DefaultStorageConfig()); err != nil {
				return compose.StorageConfig{}, err
			}
		}
	}
	return LoadStorageConfig(filepath.Join(configDir, "dev.json"))
}

// recordFeature mirrors a toggle into laia.json when the project has one
func recordFeature(dir, feature string, enabled bool) error {
	cfg, err := ReadProjectConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	switch feature {
	case compose.FeatureOntology:
		cfg.UseOntology = enabled
	case compose.FeatureStorage:
		cfg.Storage = enabled
	default:
		return nil
	}
	return WriteProjectConfig(dir, cfg)
}
