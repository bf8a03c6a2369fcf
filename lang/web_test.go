package lang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "hello")
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestWebService_HTTP(t *testing.T) {
	srv := newTestServer(t)
	fetch := WithFetcher(&HTTPFetcher{Client: srv.Client()})

	v, err := Evaluate(context.Background(), `=WEBSERVICE('`+srv.URL+`/ok')`, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "hello" {
		t.Errorf("WEBSERVICE = %q, want %q", v.String(), "hello")
	}

	_, err = Evaluate(context.Background(), `=WEBSERVICE('`+srv.URL+`/fail')`, fetch)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("error = %v, want ErrFetch", err)
	}

	v, err = Evaluate(context.Background(),
		`=IFERROR(WEBSERVICE('`+srv.URL+`/fail'), 'down')`, fetch)
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "down" {
		t.Errorf("IFERROR(WEBSERVICE) = %q, want %q", v.String(), "down")
	}
}

func TestWebService_DefaultFetcher(t *testing.T) {
	srv := newTestServer(t)

	v, err := Evaluate(context.Background(), `=UPPER(WEBSERVICE('`+srv.URL+`/ok'))`)
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "HELLO" {
		t.Errorf("got %q, want %q", v.String(), "HELLO")
	}
}

func TestWebService_Fetcher(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		body    string
		err     error
		want    string
		wantErr error
		fetched bool
	}{
		{"body", `=WEBSERVICE('https://example.com/a')`, "data", nil, "data", nil, true},
		{"too long", `=WEBSERVICE('https://example.com/a')`, strings.Repeat("x", maxCellLength+1), nil, "null", nil, true},
		{"bad scheme", `=WEBSERVICE('file:///etc/passwd')`, "", nil, "null", nil, false},
		{"no host", `=WEBSERVICE('http://')`, "", nil, "null", nil, false},
		{"long url", `=WEBSERVICE('https://example.com/` + strings.Repeat("a", maxURLLength) + `')`, "", nil, "null", nil, false},
		{"transport", `=WEBSERVICE('https://example.com/a')`, "", errors.New("refused"), "", ErrFetch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetched := false
			fetch := FetcherFunc(func(_ context.Context, url string) (string, error) {
				fetched = true

				return tt.body, tt.err
			})

			v, err := Evaluate(context.Background(), tt.formula, WithFetcher(fetch))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatal(err)
			} else if v.String() != tt.want {
				t.Errorf("WEBSERVICE = %.20q, want %q", v.String(), tt.want)
			}

			if fetched != tt.fetched {
				t.Errorf("fetched = %v, want %v", fetched, tt.fetched)
			}
		})
	}
}
