package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	got := New(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))
	want := Config{Mode: "cpu", Path: "/tmp/p", Quiet: true}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("New() mismatch (-want +got):\n%s", diff)
	}
}

func TestStartDisabled(t *testing.T) {
	for _, c := range []Config{
		{},
		{Mode: "bogus", Path: t.TempDir()},
	} {
		p := c.Start()
		if p == nil {
			t.Fatalf("Start(%+v) returned nil", c)
		}

		p.Stop()
	}
}
