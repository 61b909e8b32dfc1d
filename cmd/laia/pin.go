package main

import (
	"fmt"

	"github.com/laia-project/laia/internal/compose"
	"github.com/laia-project/laia/internal/scanner"
	"github.com/regclient/regclient"
	"github.com/spf13/cobra"
)

// Replaced in tests.
var newResolver = func() compose.DigestResolver {
	return compose.NewRegistryResolver(regclient.New())
}

func newPinCmd() *cobra.Command {
	var (
		config    compose.EditorConfig
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "pin [file|dir...]",
		Short: "Pin compose images to their registry digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			files, err := scanner.ResolveTargets(args, recursive)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return scanner.ErrNoComposeFile
			}

			resolver := newResolver()
			for _, file := range files {
				if _, err := compose.ProcessPin(cmd.Context(), resolver, file, config); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&config.DryRun, "dry-run", false, "preview changes without writing files")
	flags.StringVar(&config.Algorithm, "algo", "sha256", "digest algorithm to check for")
	flags.BoolVar(&config.ExpandRegistry, "expand-registry", false, "write fully qualified image names")
	flags.BoolVarP(&recursive, "recursive", "r", true, "scan directories recursively")
	return cmd
}
