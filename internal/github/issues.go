package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/Kavirubc/ci-changelog/pkg/models"
)

const issuesPerPage = "100"

var linkNextPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// GetAllIssues fetches every issue (and pull request) of a repository, following the
// "next" page link until there is none. Results are cached per owner/repo for the
// lifetime of the client.
func (c *Client) GetAllIssues(ctx context.Context, org, repo string) ([]*models.Issue, error) {
	key := fmt.Sprintf("%s/%s", org, repo)

	c.mu.Lock()
	defer c.mu.Unlock()

	if issues, ok := c.cache[key]; ok {
		return issues, nil
	}

	params := url.Values{}
	params.Set("per_page", issuesPerPage)
	params.Set("state", "all")
	next := fmt.Sprintf("%s/repos/%s/%s/issues?%s", c.baseURL, org, repo, params.Encode())

	allIssues := []*models.Issue{}
	for next != "" {
		page, link, err := c.getIssuesPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		for _, ai := range page {
			allIssues = append(allIssues, ai.ToModel(org, repo))
		}
		next = nextPage(link)
	}

	c.cache[key] = allIssues
	return allIssues, nil
}

func (c *Client) getIssuesPage(ctx context.Context, pageURL string) ([]Issue, string, error) {
	resp, err := c.rest.RequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var apiIssues []Issue
	if err := json.NewDecoder(resp.Body).Decode(&apiIssues); err != nil {
		return nil, "", fmt.Errorf("failed to decode issues page: %w", err)
	}
	return apiIssues, resp.Header.Get("Link"), nil
}

// nextPage returns the url of the rel="next" entry of a Link header, or ""
func nextPage(link string) string {
	m := linkNextPattern.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// IssueIndex maps issue numbers to issues. Later duplicates replace earlier ones.
func IssueIndex(issues []*models.Issue) map[int]*models.Issue {
	index := make(map[int]*models.Issue, len(issues))
	for _, issue := range issues {
		index[issue.Number] = issue
	}
	return index
}
