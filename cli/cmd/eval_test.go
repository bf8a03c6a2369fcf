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
)

func TestEval_Run(t *testing.T) {
	tests := []struct {
		name     string
		eval     Eval
		wantOut  string
		wantErrs string
		wantErr  bool
	}{
		{
			name:    "native",
			eval:    Eval{Formulas: []string{`=SUM(1, 2)`, `=UPPER("abc")`}, Output: outputNative},
			wantOut: "3\nABC\n",
		},
		{
			name:    "null",
			eval:    Eval{Formulas: []string{`=F.DIV(1, 0)`}, Output: outputNative},
			wantOut: "null\n",
		},
		{
			name:     "failure_continues",
			eval:     Eval{Formulas: []string{`=NOSUCH()`, `=PI()`}, Output: outputNative},
			wantOut:  "3.141592653589793\n",
			wantErrs: "evaluate formula",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errs bytes.Buffer

			ctx := WithOutput(t.Context(), &out, &errs)

			err := tt.eval.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr && !errors.Is(err, ErrEval) {
				t.Errorf("Run() error = %v, want %v", err, ErrEval)
			}

			if got := out.String(); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}

			if !strings.Contains(errs.String(), tt.wantErrs) {
				t.Errorf("stderr = %q, want it to contain %q", errs.String(), tt.wantErrs)
			}
		})
	}
}

func TestEval_RunJSON(t *testing.T) {
	var out, errs bytes.Buffer

	e := Eval{
		Formulas: []string{`=SUM(1, 2)`, `=NOSUCH()`},
		Output:   outputJSON,
		Indent:   2,
	}

	if err := e.Run(WithOutput(t.Context(), &out, &errs)); err == nil {
		t.Fatal("Run() error = nil, want evaluation error")
	}

	var got []map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if len(got) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(got))
	}

	if diff := cmp.Diff(
		map[string]any{"formula": "=SUM(1, 2)", "value": 3.0},
		got[0],
	); diff != "" {
		t.Errorf("first record mismatch (-want +got):\n%s", diff)
	}

	if msg, _ := got[1]["error"].(string); !strings.Contains(msg, "NOSUCH") {
		t.Errorf("second record error = %q, want it to name NOSUCH", msg)
	}
}

func TestEval_RunYAML(t *testing.T) {
	var out bytes.Buffer

	e := Eval{Formulas: []string{`=CONCAT("a", "b")`}, Output: outputYAML, Indent: 2}

	if err := e.Run(WithOutput(t.Context(), &out, nil)); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"formula:", "value: ab"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want it to contain %q", out.String(), want)
		}
	}
}

func TestEval_RunSourceFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formulas.txt")

	content := "# totals\n=SUM(1, 2, 3)\n\n=LEN(\"four\")\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	ctx := WithOutput(WithSourceFiles(t.Context(), []string{path}), &out, nil)

	if err := (&Eval{Output: outputNative}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "6\n4\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestEval_RunWhole(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "multiline", content: "=SUM(1,\n  2,\n  3)\n", want: "6\n"},
		{name: "crlf", content: "=CONCAT(\"a\",\r\n\"b\")\r\n", want: "ab\n"},
		{name: "parse_error", content: "=SUM(1,\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "formula.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			var out, errs bytes.Buffer

			ctx := WithOutput(WithSourceFiles(t.Context(), []string{path}), &out, &errs)

			err := (&Eval{Whole: true, Output: outputNative}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrEval) {
					t.Errorf("Run() error = %v, want %v", err, ErrEval)
				}

				return
			}

			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
