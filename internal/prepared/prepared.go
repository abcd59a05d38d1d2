// Package prepared fetches the shared set of prepared briefings: a root.txt
// manifest naming one briefing file per line, each fetched from the
// briefings/ directory next to it.
package prepared

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/rcliao/thisismy/internal/model"
)

const (
	DefaultBaseURL = "https://raw.githubusercontent.com/franzenzenhofer/thisismy-briefings/main/"
	DefaultTimeout = 10 * time.Second

	ManifestFile = "root.txt"
	briefingsDir = "briefings/"
	maxWorkers   = 4
	maxBodySize  = 16 << 20
)

// Entry is one manifest line.
type Entry struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// ParseManifest reads "name: filename" lines. Blank lines and lines
// missing either side are skipped. A repeated name keeps its last file.
func ParseManifest(text string) []Entry {
	var entries []Entry
	index := map[string]int{}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, file, ok := strings.Cut(line, ":")
		name, file = strings.TrimSpace(name), strings.TrimSpace(file)
		if !ok || name == "" || file == "" {
			continue
		}
		if i, seen := index[name]; seen {
			entries[i].File = file
			continue
		}
		index[name] = len(entries)
		entries = append(entries, Entry{Name: name, File: file})
	}
	return entries
}

// Client fetches prepared briefings over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for baseURL. An empty baseURL uses
// DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

// Manifest fetches and parses the manifest.
func (c *Client) Manifest(ctx context.Context) ([]Entry, error) {
	body, err := c.get(ctx, c.BaseURL+ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ManifestFile, err)
	}
	return ParseManifest(string(body)), nil
}

// Fetch fetches the manifest and every briefing it names. A manifest
// failure fails the call. A briefing that cannot be fetched or decoded is
// left out of the result and reported in errs.
func (c *Client) Fetch(ctx context.Context) (map[string]*model.Snapshot, []error, error) {
	entries, err := c.Manifest(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu    sync.Mutex
		snaps = make(map[string]*model.Snapshot, len(entries))
		errs  []error
	)
	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, e := range entries {
		e := e // per-iteration copy (go < 1.22 loop semantics)
		p.Go(func() {
			snap, err := c.fetchBriefing(ctx, e.File)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("fetch %s: %w", e.File, err))
				return
			}
			snaps[e.Name] = snap
		})
	}
	p.Wait()
	return snaps, errs, nil
}

func (c *Client) fetchBriefing(ctx context.Context, file string) (*model.Snapshot, error) {
	body, err := c.get(ctx, c.BaseURL+briefingsDir+file)
	if err != nil {
		return nil, err
	}
	return model.DecodeSnapshot(strings.NewReader(string(body)))
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
