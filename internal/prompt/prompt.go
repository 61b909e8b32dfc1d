// Package prompt asks the init questions on the terminal.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/prompter"
)

// DefaultProjectName is used when the name question is left empty
const DefaultProjectName = "routeinjector"

// Prompter is the subset of the go-gh prompter used by Collect
type Prompter interface {
	Input(prompt, defaultValue string) (string, error)
	Confirm(prompt string, defaultValue bool) (bool, error)
}

// New returns a prompter bound to the process terminal
func New() Prompter {
	return prompter.New(os.Stdin, os.Stdout, os.Stderr)
}

// Answers are the project choices made during init
type Answers struct {
	ProjectName  string
	UseOntology  bool
	Storage      bool
	AccessRights bool
}

// Collect asks every init question, offering defaults as the preselected answers
func Collect(p Prompter, defaults Answers) (Answers, error) {
	if defaults.ProjectName == "" {
		defaults.ProjectName = DefaultProjectName
	}

	var a Answers
	name, err := p.Input("Project name", defaults.ProjectName)
	if err != nil {
		return a, fmt.Errorf("project name: %w", err)
	}
	a.ProjectName = strings.TrimSpace(name)
	if a.ProjectName == "" {
		a.ProjectName = defaults.ProjectName
	}

	questions := []struct {
		text   string
		def    bool
		answer *bool
	}{
		{"Use an ontology (Jena Fuseki)?", defaults.UseOntology, &a.UseOntology},
		{"Add object storage (MinIO)?", defaults.Storage, &a.Storage},
		{"Enable access rights?", defaults.AccessRights, &a.AccessRights},
	}
	for _, q := range questions {
		v, err := p.Confirm(q.text, q.def)
		if err != nil {
			return a, fmt.Errorf("%s: %w", q.text, err)
		}
		*q.answer = v
	}
	return a, nil
}
