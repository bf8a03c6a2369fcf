package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardnew/formula/pkg"
)

func TestVersion_Run(t *testing.T) {
	var out bytes.Buffer

	if err := (Version{}).Run(WithOutput(t.Context(), &out, nil)); err != nil {
		t.Fatal(err)
	}

	got := strings.TrimSpace(out.String())
	if want := pkg.Name + " " + pkg.Version(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
