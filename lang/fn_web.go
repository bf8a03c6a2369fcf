package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

func init() {
	register(CategoryWeb, "ENCODEURL(text)", webEncodeURL)
	register(CategoryWeb, "WEBSERVICE(url)", webService)

	unimplemented(CategoryWeb, "FILTERXML")
}

// Limits on WEBSERVICE arguments and results, matching spreadsheet cells.
const (
	maxURLLength  = 2048
	maxCellLength = 32767
)

// Fetcher retrieves the body of a web resource for WEBSERVICE.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPFetcher is a [Fetcher] that performs an HTTP GET request. Responses
// without a 2xx status are errors.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", ErrFetch.Wrap(err).With(slog.String("url", rawURL))
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", ErrFetch.Wrap(err).With(slog.String("url", rawURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrFetch.
			Wrapf("unexpected status %s", resp.Status).
			With(slog.String("url", rawURL), slog.Int("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxCellLength+1))
	if err != nil {
		return "", ErrFetch.Wrap(err).With(slog.String("url", rawURL))
	}

	return string(body), nil
}

// webEncodeURL percent-encodes every byte except the unreserved characters
// A-Z, a-z, 0-9, "-", "_", ".", and "~".
func webEncodeURL(c *Call) (Value, error) {
	s, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	return String(strings.ReplaceAll(url.QueryEscape(s), "+", "%20")), nil
}

// webService returns the body of an http or https resource. Invalid URLs and
// bodies too long for a cell are null; transport failures are errors.
func webService(c *Call) (Value, error) {
	raw, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	if len(raw) > maxURLLength {
		return Null(), nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Null(), nil
	}

	c.Logger().DebugContext(c.Context(), "web request", slog.String("url", raw))

	body, err := c.Fetcher().Fetch(c.Context(), raw)
	if err != nil {
		if !errors.Is(err, ErrFetch) {
			err = ErrFetch.Wrap(err).With(slog.String("url", raw))
		}

		return Null(), err
	}

	if utf8.RuneCountInString(body) > maxCellLength {
		return Null(), nil
	}

	return String(body), nil
}
