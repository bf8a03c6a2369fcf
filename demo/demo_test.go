package demo

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/formula/lang"
)

var errBoom = errors.New("boom")

func testEngine() Engine {
	clock := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)

	return Engine{Options: []lang.Option{
		lang.WithClock(func() time.Time { return clock }),
	}}
}

func TestRunConsole_DefaultSamples(t *testing.T) {
	var out, errs bytes.Buffer

	results := RunConsole(t.Context(), Static(testEngine()), &out, &errs, Samples()...)

	want := []string{
		"HELLO",
		"null",
		"2020-01-30",
		"2024-03-15 13:45:30 UTC",
		`[["TEST",3],[2,true]]`,
	}

	got := make([]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("sample %q failed: %v", r.Sample, r.Err)
		}

		if r.Sample != Samples()[i] {
			t.Errorf("result %d sample = %q, want %q", i, r.Sample, Samples()[i])
		}

		got[i] = r.Value.String()
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	slices.Sort(lines)
	slices.Sort(want)

	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("console output mismatch (-want +got):\n%s", diff)
	}

	if errs.Len() != 0 {
		t.Errorf("unexpected error output: %q", errs.String())
	}
}

func TestRunConsole_FailureIsIndependent(t *testing.T) {
	mod := ModuleFunc(func(_ context.Context, text string) (lang.Value, error) {
		if text == "bad" {
			return lang.Null(), errBoom
		}

		return lang.String(text), nil
	})

	var out, errs bytes.Buffer

	results := RunConsole(t.Context(), Static(mod), &out, &errs, "a", "bad", "b", "c")

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	for i, r := range results {
		if r.Sample == "bad" {
			if !errors.Is(r.Err, errBoom) {
				t.Errorf("result %d error = %v, want %v", i, r.Err, errBoom)
			}

			continue
		}

		if r.Err != nil || r.Value.String() != r.Sample {
			t.Errorf("result %d = %v, %v; want %q", i, r.Value, r.Err, r.Sample)
		}
	}

	if got := strings.Count(out.String(), "\n"); got != 3 {
		t.Errorf("printed %d values, want 3", got)
	}

	if got := strings.TrimSpace(errs.String()); got != "boom" {
		t.Errorf("error output = %q, want %q", got, "boom")
	}
}

func TestRunConsole_LoadsOnce(t *testing.T) {
	var loads atomic.Int32

	load := func(context.Context) (Module, error) {
		loads.Add(1)

		return testEngine(), nil
	}

	var out, errs bytes.Buffer

	RunConsole(t.Context(), load, &out, &errs, Samples()...)

	if n := loads.Load(); n != 1 {
		t.Errorf("module loaded %d times, want 1", n)
	}
}

func TestRunConsole_LoadFailure(t *testing.T) {
	load := func(context.Context) (Module, error) { return nil, errBoom }

	var out, errs bytes.Buffer

	results := RunConsole(t.Context(), load, &out, &errs, "=1", "=2")

	for _, r := range results {
		if !errors.Is(r.Err, errBoom) {
			t.Errorf("sample %q error = %v, want %v", r.Sample, r.Err, errBoom)
		}
	}

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunConsole_ParseError(t *testing.T) {
	var out, errs bytes.Buffer

	results := RunConsole(t.Context(), Static(Engine{}), &out, &errs,
		`=NOT_EXISTING(2, 0)`, `=F.ADD(1, 2)`)

	if !errors.Is(results[0].Err, lang.ErrParse) {
		t.Errorf("error = %v, want lang.ErrParse", results[0].Err)
	}

	if results[1].Err != nil || results[1].Value.String() != "3" {
		t.Errorf("sibling result = %v, %v; want 3", results[1].Value, results[1].Err)
	}
}

func TestRenderUI(t *testing.T) {
	var doc Document

	err := RenderUI(t.Context(), &doc, testEngine(), Samples()...)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		`=UPPER("hello"): HELLO`,
		`=F.DIV(2, 0): (empty)`,
		`=DATEVALUE('1/30/2020'): 2020-01-30`,
		`=NOW(): 2024-03-15 13:45:30 UTC`,
		`={'TEST', SUM(1,2); 2, TRUE}: [["TEST",3],[2,true]]`,
	}

	if diff := cmp.Diff(want, doc.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderUI_HaltsOnFailure(t *testing.T) {
	var calls int

	mod := ModuleFunc(func(_ context.Context, text string) (lang.Value, error) {
		calls++

		if text == "bad" {
			return lang.Null(), errBoom
		}

		return lang.String(text), nil
	})

	var doc Document

	err := RenderUI(t.Context(), &doc, mod, "a", "bad", "b")
	if !errors.Is(err, errBoom) {
		t.Fatalf("error = %v, want %v", err, errBoom)
	}

	if calls != 2 {
		t.Errorf("parse called %d times, want 2", calls)
	}

	if diff := cmp.Diff([]string{"a: a"}, doc.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_WriteTo(t *testing.T) {
	doc := Document{Title: "demo"}
	doc.Append("<b>x</b>: 1")
	doc.Append("y: (empty)")

	var buf bytes.Buffer

	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d bytes", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"<title>demo</title>",
		"<p><b>x</b>: 1</p>",
		"<p>y: (empty)</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSamples_Copy(t *testing.T) {
	s := Samples()
	s[0] = "changed"

	if Samples()[0] == "changed" {
		t.Error("Samples returned shared storage")
	}
}
