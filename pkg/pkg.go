// Package pkg holds project metadata shared by the command-line tools.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the configuration and cache
	// directories and prefixes environment variables.
	Name = "formula"

	// Description is the one-line summary shown in help output.
	Description = "Spreadsheet formula parser and evaluator"
)

// EnvPrefix returns the prefix of environment variables read by the CLI.
func EnvPrefix() string { return strings.ToUpper(Name) + "_" }

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
