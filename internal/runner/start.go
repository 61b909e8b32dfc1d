package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/laia-project/laia/internal/compose"
	"golang.org/x/sync/errgroup"
)

// EnvVar carries the selected environment to the started processes
const EnvVar = "LAIA_ENV"

// Options selects what Start launches
type Options struct {
	Backend    bool
	Frontend   bool
	Backoffice bool
	Env        string // dev or prod, defaults to dev
}

// ErrInvalidEnv is returned for environments without a config file
var ErrInvalidEnv = errors.New("invalid environment")

// step is one command guarded by the file it needs
type step struct {
	title    string
	requires string // relative to the project root
	dir      string // working directory, relative to the project root
	name     string
	args     []string
}

func (s step) command() string {
	return strings.Join(append([]string{s.name}, s.args...), " ")
}

var (
	setupSteps = []step{
		{title: "Installing Python dependencies", requires: "requirements.txt", name: "pip", args: []string{"install", "-r", "requirements.txt"}},
		{title: "Starting Docker containers", requires: "docker-compose.yaml", name: "docker", args: []string{"compose", "up", "-d"}},
	}
	backendStep    = step{title: "Launching backend", requires: "backend/main.py", name: "python", args: []string{"backend/main.py"}}
	frontendStep   = step{title: "Launching frontend", requires: "frontend/package.json", dir: "frontend", name: "npm", args: []string{"start"}}
	backofficeStep = step{title: "Launching backoffice", requires: "backoffice/package.json", dir: "backoffice", name: "npm", args: []string{"start"}}
)

// Start prepares the project in dir and launches the selected applications.
// Setup steps run in order; the applications run side by side until one of
// them fails or ctx is cancelled. Steps whose file is missing are skipped.
func Start(ctx context.Context, r CommandRunner, dir string, opts Options) error {
	if opts.Env == "" {
		opts.Env = "dev"
	}
	if opts.Env != "dev" && opts.Env != "prod" {
		return fmt.Errorf("%w %q (want dev or prod)", ErrInvalidEnv, opts.Env)
	}
	if !opts.Backend && !opts.Frontend && !opts.Backoffice {
		opts.Backend = true
	}

	for _, s := range setupSteps {
		if !present(dir, s) {
			continue
		}
		compose.LogInfo("%s...", s.title)
		if err := run(ctx, r, dir, s, opts.Env); err != nil {
			return err
		}
	}

	var apps []step
	for _, sel := range []struct {
		on bool
		s  step
	}{
		{opts.Backend, backendStep},
		{opts.Frontend, frontendStep},
		{opts.Backoffice, backofficeStep},
	} {
		if sel.on && present(dir, sel.s) {
			apps = append(apps, sel.s)
		}
	}
	if len(apps) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range apps {
		compose.LogInfo("%s...", s.title)
		g.Go(func() error {
			return run(gctx, r, dir, s, opts.Env)
		})
	}
	return g.Wait()
}

// present reports whether the file a step needs exists, warning when it does not
func present(dir string, s step) bool {
	_, err := os.Stat(filepath.Join(dir, s.requires))
	if errors.Is(err, fs.ErrNotExist) {
		compose.LogWarning("%s not found, skipping %s.", s.requires, s.command())
		return false
	}
	return err == nil
}

func run(ctx context.Context, r CommandRunner, dir string, s step, env string) error {
	res, err := r.Run(ctx, s.name, s.args, RunOpts{
		Dir:    filepath.Join(dir, s.dir),
		Env:    map[string]string{EnvVar: env},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.command(), err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%s: exit status %d", s.command(), res.ExitCode)
	}
	compose.LogSuccess("%s", s.command())
	return nil
}
