package main

import (
	"github.com/laia-project/laia/internal/runner"
	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	var (
		opts runner.Options
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Install dependencies, start the containers and launch the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Start(cmd.Context(), runner.NewRealRunner(), dir, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Backend, "backend", false, "launch the backend (default when nothing is selected)")
	flags.BoolVar(&opts.Frontend, "frontend", false, "launch the frontend")
	flags.BoolVar(&opts.Backoffice, "backoffice", false, "launch the backoffice")
	flags.StringVar(&opts.Env, "env", "dev", "environment (dev or prod)")
	flags.StringVar(&dir, "dir", ".", "project directory")
	return cmd
}
