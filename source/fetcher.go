package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultUserAgent    = "texcache/1.0"
	DefaultMaxRedirects = 5
)

// Response is the body of a remote fetch plus its declared content type.
type Response struct {
	Body        io.ReadCloser
	ContentType string
}

// Fetcher retrieves remote bytes. Implementations own transport concerns
// (timeouts, retries, TLS); the resolver only consumes the body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) { return f(ctx, url) }

// HTTPFetcher is the default Fetcher backed by net/http.
type HTTPFetcher struct {
	// Client is used for requests. nil => a client with MaxRedirects applied.
	Client       *http.Client
	UserAgent    string // "" => DefaultUserAgent
	MaxRedirects int    // 0 => DefaultMaxRedirects; only used when Client is nil
}

var _ Fetcher = (*HTTPFetcher)(nil)

func (f *HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	limit := f.MaxRedirects
	if limit <= 0 {
		limit = DefaultMaxRedirects
	}
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= limit {
				return fmt.Errorf("stopped after %d redirects", limit)
			}
			return nil
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	ua := f.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return &Response{Body: resp.Body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// IsStatus reports whether err carries an HTTP status code and returns it.
func IsStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
