package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/formula/lang"
)

func TestFmt_Run(t *testing.T) {
	tests := []struct {
		name     string
		fmt      Fmt
		wantOut  string
		contains []string
		wantErr  bool
	}{
		{
			name:    "canonical",
			fmt:     Fmt{Formulas: []string{`=sum(1,2)`, `=upper('x')`}, Output: outputNative},
			wantOut: "=SUM(1, 2)\n=UPPER(\"x\")\n",
		},
		{
			name:    "array",
			fmt:     Fmt{Formulas: []string{`=SUM({1,2;3,4})`}, Output: outputNative},
			wantOut: "=SUM({1, 2; 3, 4})\n",
		},
		{
			name:     "tree",
			fmt:      Fmt{Formulas: []string{`=SUM(1, 2)`}, Tree: true, Output: outputNative},
			contains: []string{"call SUM/2", "  number 1", "  number 2"},
		},
		{
			name:     "parse_error",
			fmt:      Fmt{Formulas: []string{`=SUM(1`, `=PI()`}, Output: outputNative},
			wantOut:  "=PI()\n",
			wantErr:  true,
			contains: []string{"=PI()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errs bytes.Buffer

			err := tt.fmt.Run(WithOutput(t.Context(), &out, &errs))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, lang.ErrParse) {
					t.Errorf("Run() error = %v, want %v", err, lang.ErrParse)
				}

				if errs.Len() == 0 {
					t.Error("stderr is empty, want the parse error")
				}
			}

			if tt.wantOut != "" && out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}

			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("stdout = %q, want it to contain %q", out.String(), want)
				}
			}
		})
	}
}

func TestFmt_RunJSON(t *testing.T) {
	var out bytes.Buffer

	f := Fmt{Formulas: []string{`=ABS(-1)`}, Output: outputJSON, Indent: 0}

	if err := f.Run(WithOutput(t.Context(), &out, nil)); err != nil {
		t.Fatal(err)
	}

	var tree any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), "ABS") {
		t.Errorf("output = %q, want it to name ABS", out.String())
	}
}

func TestFmt_RunYAML(t *testing.T) {
	var out bytes.Buffer

	f := Fmt{Formulas: []string{`=ABS(-1)`}, Output: outputYAML, Indent: 2}

	if err := f.Run(WithOutput(t.Context(), &out, nil)); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "ABS") {
		t.Errorf("output = %q, want it to name ABS", out.String())
	}
}

func TestFmt_RunWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formula.txt")
	if err := os.WriteFile(path, []byte("=sum(1,\n  upper('x'))\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	ctx := WithOutput(WithSourceFiles(t.Context(), []string{path}), &out, nil)

	if err := (&Fmt{Whole: true, Output: outputNative}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("=SUM(1, UPPER(\"x\"))\n", out.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}
