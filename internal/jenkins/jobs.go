package jenkins

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrRepoURLNotFound is returned when a job's config.xml has no git remote url
var ErrRepoURLNotFound = errors.New("repository url not found in job config")

// repoURLPaths are tried in order: freestyle/maven jobs first, then pipeline definitions.
var repoURLPaths = []string{
	"/*/scm/userRemoteConfigs/hudson.plugins.git.UserRemoteConfig/url",
	"/*/definition/scm/userRemoteConfigs/hudson.plugins.git.UserRemoteConfig/url",
}

// encoding/xml rejects any version but 1.0; Jenkins writes 1.1 prologs.
var xmlVersionPattern = regexp.MustCompile(`^(\s*<\?xml[^>]*?version\s*=\s*["'])1\.1(["'])`)

// GetJob fetches the job descriptor
func (c *Client) GetJob(ctx context.Context, job string) (*Job, error) {
	var j Job
	if err := c.getJSON(ctx, c.jobURL(job, "api", "json"), &j); err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", job, err)
	}
	return &j, nil
}

// GetBuild fetches one build including its change set
func (c *Client) GetBuild(ctx context.Context, job string, number int) (*Build, error) {
	var b Build
	if err := c.getJSON(ctx, c.jobURL(job, strconv.Itoa(number), "api", "json"), &b); err != nil {
		return nil, fmt.Errorf("failed to get build %s #%d: %w", job, number, err)
	}
	return &b, nil
}

// ResolveBuild returns the number of a build reference, which is either a
// build number or a Jenkins alias such as lastSuccessfulBuild.
func (c *Client) ResolveBuild(ctx context.Context, job, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		return n, nil
	}

	var b Build
	if err := c.getJSON(ctx, c.jobURL(job, url.PathEscape(ref), "api", "json"), &b); err != nil {
		return 0, fmt.Errorf("failed to resolve build %s %s: %w", job, ref, err)
	}
	return b.Number, nil
}

// GetBuildNumbers lists a job's build numbers in the order Jenkins reports them (newest first)
func (c *Client) GetBuildNumbers(ctx context.Context, job string) ([]int, error) {
	j, err := c.GetJob(ctx, job)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, len(j.Builds))
	for i, b := range j.Builds {
		numbers[i] = b.Number
	}
	return numbers, nil
}

// GetJobRepoURL extracts the git remote url from the job's config.xml
func (c *Client) GetJobRepoURL(ctx context.Context, job string) (string, error) {
	body, err := c.get(ctx, c.jobURL(job, "config.xml"))
	if err != nil {
		return "", fmt.Errorf("failed to get config for job %s: %w", job, err)
	}
	return RepoURLFromConfig(body)
}

// RepoURLFromConfig finds the git remote url in a job config.xml document
func RepoURLFromConfig(configXML []byte) (string, error) {
	configXML = xmlVersionPattern.ReplaceAll(configXML, []byte("${1}1.0${2}"))

	doc, err := xmlquery.Parse(bytes.NewReader(configXML))
	if err != nil {
		return "", fmt.Errorf("failed to parse job config: %w", err)
	}

	for _, expr := range repoURLPaths {
		if n := xmlquery.FindOne(doc, expr); n != nil {
			return strings.TrimSpace(n.InnerText()), nil
		}
	}
	return "", ErrRepoURLNotFound
}
