// Package templates embeds the default project templates.
package templates

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed files
var files embed.FS

// EnvVar overrides the template root with a directory on disk
const EnvVar = "LAIA_TEMPLATES"

// Default returns the embedded template set
func Default() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	return sub
}

// Resolve picks the template root: dir when set, then $LAIA_TEMPLATES, then the embedded set
func Resolve(dir string) fs.FS {
	if dir == "" {
		dir = os.Getenv(EnvVar)
	}
	if dir != "" {
		return os.DirFS(dir)
	}
	return Default()
}
