package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML mapping of flag
// names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys may spell flag names with hyphens ("log-level") or underscores
// ("log_level"). Scalars are passed to Kong as their text so that Kong's own
// mappers parse them, e.g. durations and enums. Sequences supply repeated
// flags.
//
// Example config file:
//
//	log-level: debug
//	log_format: json
//	timeout: 5s
//	source:
//	  - formulas.txt
//
// Command-line flags and environment variables override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw map[string]any

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	cfg := make(config, len(raw))
	for k, v := range raw {
		cfg[k] = scalar(v)
	}

	return cfg, nil
}

// scalar converts decoded YAML numbers to text, recursing into sequences.
func scalar(v any) any {
	switch v := v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	}

	return v
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
