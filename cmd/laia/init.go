package main

import (
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/laia-project/laia/internal/compose"
	"github.com/laia-project/laia/internal/prompt"
	"github.com/laia-project/laia/internal/scaffold"
	"github.com/laia-project/laia/internal/templates"
	"github.com/regclient/regclient"
	"github.com/spf13/cobra"
)

// Replaced in tests.
var (
	newPrompter = prompt.New
	interactive = func() bool { return term.FromEnv().IsTerminalOutput() }
)

type initFlags struct {
	name          string
	ontology      bool
	storage       bool
	accessRights  bool
	noInteractive bool
	dir           string
	templates     string
	pinImages     bool
}

func newInitCmd() *cobra.Command {
	var f initFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new LAIA project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := prompt.Answers{
				ProjectName:  f.name,
				UseOntology:  f.ontology,
				Storage:      f.storage,
				AccessRights: f.accessRights,
			}
			if !f.noInteractive && interactive() {
				var err error
				if answers, err = prompt.Collect(newPrompter(), answers); err != nil {
					return err
				}
			}

			opts := scaffold.Options{
				Dir:          f.dir,
				Templates:    templates.Resolve(f.templates),
				ProjectName:  answers.ProjectName,
				UseOntology:  answers.UseOntology,
				Storage:      answers.Storage,
				AccessRights: answers.AccessRights,
				PinImages:    f.pinImages,
			}
			if f.pinImages {
				opts.Resolver = compose.NewRegistryResolver(regclient.New())
			}
			if err := scaffold.Init(cmd.Context(), opts); err != nil {
				return err
			}
			compose.LogSuccess("Project %s created", answers.ProjectName)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "project name (default \"routeinjector\")")
	flags.BoolVar(&f.ontology, "ontology", false, "add the Jena Fuseki ontology store")
	flags.BoolVar(&f.storage, "storage", false, "add MinIO object storage")
	flags.BoolVar(&f.accessRights, "access-rights", false, "enable access rights")
	flags.BoolVar(&f.noInteractive, "no-interactive", false, "do not prompt, use the flag values")
	flags.StringVar(&f.dir, "dir", ".", "project directory")
	flags.StringVar(&f.templates, "templates", "", "template directory (default $"+templates.EnvVar+" or the built-in set)")
	flags.BoolVar(&f.pinImages, "pin-images", false, "pin compose images to their registry digest")
	return cmd
}
