package cli

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestUserDir(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()

	const env = "FORMULA_TEST_DIR"

	tests := []struct {
		name  string
		env   string
		base  func() (string, error)
		check func(t *testing.T, got string)
	}{
		{
			name: "base",
			base: func() (string, error) { return base, nil },
			check: func(t *testing.T, got string) {
				if want := filepath.Join(base, "formula"); got != want {
					t.Errorf("userDir() = %q, want %q", got, want)
				}
			},
		},
		{
			name: "override",
			env:  override,
			base: func() (string, error) { return base, nil },
			check: func(t *testing.T, got string) {
				if got != override {
					t.Errorf("userDir() = %q, want %q", got, override)
				}
			},
		},
		{
			name: "fallback",
			base: func() (string, error) { return "", errors.New("unset") },
			check: func(t *testing.T, got string) {
				if filepath.Base(got) != "formula" {
					t.Errorf("userDir() = %q, want a formula directory", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(env, tt.env)
			tt.check(t, userDir(env, tt.base, ".hidden"))
		})
	}
}
