// Package render turns correlated builds into the markdown changelog and its HTML form.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/Kavirubc/ci-changelog/internal/changelog"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

const (
	itemPrefix    = "  - "
	timeLayout    = "2006-01-02 15:04:05"
	otherChanges  = "#### Other changes\n"
	defaultWebURL = "https://github.com"
)

// Renderer renders builds as markdown with links into the GitHub web UI
type Renderer struct {
	webURL string
	md     goldmark.Markdown
}

// New creates a renderer linking to webURL (https://github.com when empty)
func New(webURL string) *Renderer {
	if webURL == "" {
		webURL = defaultWebURL
	}
	return &Renderer{
		webURL: strings.TrimRight(webURL, "/"),
		md:     goldmark.New(),
	}
}

// Markdown renders one build. A build with no issue groups and no orphan commits renders as "".
func (r *Renderer) Markdown(b *changelog.Build) string {
	if len(b.Issues) == 0 && len(b.Commits) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s - %s\n\n", b.JobName, b.Time.Format(timeLayout))

	for _, g := range b.Issues {
		r.writeIssue(&sb, b, g)
	}

	if len(b.Issues) > 0 && len(b.Commits) > 0 {
		sb.WriteString(otherChanges)
	}
	for _, c := range b.Commits {
		fmt.Fprintf(&sb, "%s%s ([%s](%s))\n", itemPrefix, Escape(c.Title()), c.ShortSHA1(), r.commitURL(b, c))
	}

	return sb.String()
}

func (r *Renderer) writeIssue(sb *strings.Builder, b *changelog.Build, g changelog.IssueGroup) {
	issue := g.Issue
	fmt.Fprintf(sb, "%s**[%s]** %s [#%d](%s)", itemPrefix, issue.StoryType(), Escape(issue.Title), issue.Number, r.issueURL(b, issue))

	links := make([]string, len(g.Commits))
	for i, c := range g.Commits {
		links[i] = fmt.Sprintf("[%s](%s)", c.ShortSHA1(), r.commitURL(b, c))
	}
	fmt.Fprintf(sb, " (commits: %s)\n", strings.Join(links, ", "))
}

// AllMarkdown concatenates every build's markdown in the given order
func (r *Renderer) AllMarkdown(builds []*changelog.Build) string {
	var sb strings.Builder
	for _, b := range builds {
		sb.WriteString(r.Markdown(b))
	}
	return sb.String()
}

// HTML converts markdown to HTML
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) commitURL(b *changelog.Build, c models.Commit) string {
	return fmt.Sprintf("%s/%s/%s/commit/%s", r.webURL, b.RepoOwner, b.RepoName, c.SHA1)
}

func (r *Renderer) issueURL(b *changelog.Build, issue *models.Issue) string {
	return fmt.Sprintf("%s/%s/%s/issues/%d", r.webURL, b.RepoOwner, b.RepoName, issue.Number)
}

// Escape replaces the HTML special characters & < > " '
func Escape(s string) string {
	return html.EscapeString(s)
}
