package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	env := strings.Join([]string{b, missing}, string(os.PathListSeparator))

	got := searchPath(env, a)

	if diff := cmp.Diff([]string{a, b}, got); diff != "" {
		t.Errorf("searchPath() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")

	if err := os.WriteFile(path, []byte("cases: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(PathVar, dir)

	tests := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "absolute", file: path, want: path},
		{name: "search_path", file: "cases.yaml", want: path},
		{name: "absolute_missing", file: filepath.Join(dir, "none.yaml"), wantErr: true},
		{name: "relative_missing", file: "none.yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(t.Context(), tt.file)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("locate() error = %v, want %v", err, ErrNotFound)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("locate() = %q, want %q", got, tt.want)
			}
		})
	}
}
