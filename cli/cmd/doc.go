// Package cmd implements the formula subcommands.
//
// Each command is a Kong command struct with a Run method receiving the
// command's context.Context. Shared state travels in that context: the Kong
// context ([WithContext]), the --source readers ([WithSourceFiles]), the
// evaluation options ([WithOptions]) and the output writers ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
