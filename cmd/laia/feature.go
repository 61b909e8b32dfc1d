package main

import (
	"fmt"

	"github.com/laia-project/laia/internal/compose"
	"github.com/laia-project/laia/internal/scaffold"
	"github.com/laia-project/laia/internal/scanner"
	"github.com/laia-project/laia/internal/templates"
	"github.com/spf13/cobra"
)

func newFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Enable or disable optional services in docker-compose.yaml",
	}
	cmd.AddCommand(
		newToggleCmd("enable", true),
		newToggleCmd("disable", false),
		&cobra.Command{
			Use:   "list",
			Short: "List the known features",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, name := range compose.FeatureNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			},
		},
	)
	return cmd
}

func newToggleCmd(use string, enable bool) *cobra.Command {
	var (
		file     string
		dir      string
		templDir string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:       use + " <feature>",
		Short:     fmt.Sprintf("%s a feature", use),
		Args:      cobra.ExactArgs(1),
		ValidArgs: compose.FeatureNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				found, err := scanner.FindComposeFile(dir)
				if err != nil {
					return err
				}
				file = found
			}
			return scaffold.Toggle(scaffold.ToggleOptions{
				Dir:         dir,
				ComposePath: file,
				Templates:   templates.Resolve(templDir),
				Feature:     args[0],
				Enable:      enable,
				Editor:      compose.EditorConfig{DryRun: dryRun},
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "compose file (default: detected in --dir)")
	flags.StringVar(&dir, "dir", ".", "project directory")
	flags.StringVar(&templDir, "templates", "", "template directory")
	flags.BoolVar(&dryRun, "dry-run", false, "preview changes without writing files")
	return cmd
}
