package github

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"

	"github.com/Kavirubc/ci-changelog/internal/config"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

// ErrNotGitHubURL is returned by GetRepoPath for urls without a github.com host
var ErrNotGitHubURL = errors.New("not a github.com repository url")

const hostMarker = "github.com"

// anonymousToken satisfies go-gh, which refuses to build a client without a token.
// anonymousTransport keeps it off the wire.
const anonymousToken = "anonymous"

// Client wraps GitHub API operations
type Client struct {
	rest          *api.RESTClient
	baseURL       string
	authenticated bool

	mu    sync.Mutex
	cache map[string][]*models.Issue
}

// NewClient creates a new GitHub client for the configured API url.
// Without an api key the token is resolved the way the gh CLI does it; when
// none is found requests are sent unauthenticated.
func NewClient(cfg config.GitHubConfig) (*Client, error) {
	host := cfg.Host()

	token := cfg.APIKey
	if token == "" {
		token, _ = auth.TokenForHost(host)
	}

	opts := api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Headers: map[string]string{
			"Accept": "application/vnd.github.v3+json",
		},
	}
	if token == "" {
		opts.AuthToken = anonymousToken
		opts.Transport = anonymousTransport{base: http.DefaultTransport}
	}

	rest, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = config.DefaultGitHubAPIURL
	}

	return &Client{
		rest:          rest,
		baseURL:       strings.TrimRight(baseURL, "/"),
		authenticated: token != "",
		cache:         make(map[string][]*models.Issue),
	}, nil
}

// Authenticated reports whether requests carry a token
func (c *Client) Authenticated() bool {
	return c.authenticated
}

// anonymousTransport strips the Authorization header before a request leaves the process
type anonymousTransport struct {
	base http.RoundTripper
}

func (t anonymousTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Del("Authorization")
	return t.base.RoundTrip(req)
}

// GetRepoPath extracts owner and repo from a git remote url such as
// https://github.com/owner/repo.git or git@github.com:owner/repo.git.
func GetRepoPath(repoURL string) (string, string, error) {
	trimmed := strings.TrimSuffix(repoURL, path.Ext(repoURL))

	_, rest, found := strings.Cut(trimmed, hostMarker)
	if !found {
		return "", "", fmt.Errorf("%w: %s", ErrNotGitHubURL, repoURL)
	}

	if rest == "" {
		return "", "", fmt.Errorf("invalid repo url: %s (expected github.com/owner/repo)", repoURL)
	}

	parts := strings.Split(rest[1:], "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo url: %s (expected github.com/owner/repo)", repoURL)
	}
	return parts[0], parts[1], nil
}

// Issue represents a GitHub issue from the API
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      User      `json:"user"`
	Labels    []Label   `json:"labels"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// ToModel converts API Issue to models.Issue
func (i *Issue) ToModel(org, repo string) *models.Issue {
	labels := make([]string, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = l.Name
	}

	return &models.Issue{
		Org:       org,
		Repo:      repo,
		Number:    i.Number,
		Title:     i.Title,
		State:     i.State,
		Labels:    labels,
		Author:    i.User.Login,
		URL:       i.HTMLURL,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
