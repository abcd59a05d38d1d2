package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultFetchTimeout bounds one remote fetch. A fetch that runs past it
// fails and is not retried.
const DefaultFetchTimeout = 10 * time.Second

const maxBodySize = 8 << 20

// URLFetcher fetches page text over HTTP. The body is used as delivered;
// no article extraction is attempted.
type URLFetcher struct {
	Client *http.Client
	Now    func() time.Time
}

// NewURLFetcher returns a fetcher with the given timeout.
func NewURLFetcher(timeout time.Duration) *URLFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &URLFetcher{
		Client: &http.Client{Timeout: timeout},
		Now:    time.Now,
	}
}

// FetchURLContent downloads rawURL and wraps the body in a URL block.
func (f *URLFetcher) FetchURLContent(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	text, err := nonEmpty(string(body))
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return URLBlock(rawURL, text, f.Now()), nil
}

// ValidURL reports whether s is an absolute http(s) URL. Input is checked
// here, before it reaches the selection store.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
