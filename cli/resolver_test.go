package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	input := `
log-level: debug
log_format: json
timeout: 5s
max-depth: 12
ratio: 0.5
caller: true
source:
  - a.txt
  - 3
`

	r, err := resolve(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := config{
		"log-level":  "debug",
		"log_format": "json",
		"timeout":    "5s",
		"max-depth":  "12",
		"ratio":      "0.5",
		"caller":     true,
		"source":     []any{"a.txt", "3"},
	}

	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmpty(t *testing.T) {
	r, err := resolve(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolve(empty) error = %v", err)
	}

	if diff := cmp.Diff(config{}, r); diff != "" {
		t.Errorf("resolve(empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveInvalid(t *testing.T) {
	if _, err := resolve(strings.NewReader("- [unclosed")); err == nil {
		t.Error("resolve() of malformed YAML returned nil error")
	}
}

func TestResolverAppliesFlags(t *testing.T) {
	var cli struct {
		LogLevel string        `default:"info"`
		Timeout  time.Duration `default:"1s"`
		MaxDepth int           `default:"100"`
		Pretty   bool
	}

	cfg := config{
		"log_level": "debug",
		"timeout":   "5s",
		"max-depth": "12",
		"pretty":    true,
	}

	parser, err := kong.New(&cli, kong.Resolvers(cfg))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--max-depth=7"}); err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cli.LogLevel, "debug")
	}

	if cli.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want %v", cli.Timeout, 5*time.Second)
	}

	// Command-line flags take precedence.
	if cli.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cli.MaxDepth)
	}

	if !cli.Pretty {
		t.Error("Pretty = false, want true")
	}
}
