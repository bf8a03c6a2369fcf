package lang

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParse_CacheSharesRoot(t *testing.T) {
	ClearCache()

	const text = `=CONCAT('cache', 'shared')`

	a, err := Parse(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Parse(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	if a.Root() != b.Root() {
		t.Error("same text produced distinct trees")
	}

	c, err := Parse(context.Background(), text, WithMaxDepth(5))
	if err != nil {
		t.Fatal(err)
	}

	if a.Root() == c.Root() {
		t.Error("different max depth shared a cached tree")
	}

	ClearCache()

	d, err := Parse(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	if a.Root() == d.Root() {
		t.Error("ClearCache did not drop the cached tree")
	}
}

func TestParse_CacheKeepsErrors(t *testing.T) {
	const text = `=UNKNOWNFN()`

	_, err1 := Parse(context.Background(), text)
	_, err2 := Parse(context.Background(), text)

	if !errors.Is(err1, ErrParse) || !errors.Is(err2, ErrParse) {
		t.Fatalf("errors = %v, %v; want ErrParse", err1, err2)
	}
}

func TestEvaluate_Concurrent(t *testing.T) {
	const text = `=TEXTJOIN('-', TRUE, UPPER('a'), LEFT('bcd', 2))`

	var wg sync.WaitGroup

	errs := make(chan error, 32)

	for range 32 {
		wg.Go(func() {
			v, err := Evaluate(context.Background(), text)
			if err != nil {
				errs <- err

				return
			}

			if v.String() != "A-bc" {
				errs <- errors.New("unexpected result " + v.String())
			}
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestParseReader(t *testing.T) {
	f, err := ParseReader(context.Background(), strings.NewReader("=LEN('abc')\r\n"))
	if err != nil {
		t.Fatal(err)
	}

	if f.Source != "=LEN('abc')" {
		t.Errorf("Source = %q, want trailing line break removed", f.Source)
	}

	v, err := f.Eval(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "3" {
		t.Errorf("Eval = %s, want 3", v)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}
