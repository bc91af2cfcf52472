package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Kavirubc/ci-changelog/internal/config"
)

// HTTPError is returned for any non-2xx Jenkins response
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("jenkins: HTTP %d for %s", e.StatusCode, e.URL)
}

// Client wraps the Jenkins JSON and config.xml endpoints
type Client struct {
	baseURL  string
	username string
	apiKey   string
	http     *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a new Jenkins client
func NewClient(cfg config.JenkinsConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("jenkins url is not configured")
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    http.DefaultClient,
	}
	// Basic auth only when both halves are configured
	if cfg.Username != "" && cfg.APIKey != "" {
		c.username = cfg.Username
		c.apiKey = cfg.APIKey
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// jobURL builds {base}/job/{job}/{parts...}. Slashes in job are kept so folder
// paths such as "team/job/app" resolve; each segment is escaped on its own.
func (c *Client) jobURL(job string, parts ...string) string {
	segs := []string{c.baseURL, "job"}
	for _, seg := range strings.Split(job, "/") {
		segs = append(segs, url.PathEscape(seg))
	}
	segs = append(segs, parts...)
	return strings.Join(segs, "/")
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jenkins: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read jenkins response: %w", err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return nil
}
