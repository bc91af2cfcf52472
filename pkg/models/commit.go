package models

import (
	"regexp"
	"strings"
	"time"
)

var issueRefPattern = regexp.MustCompile(`#(\d+)`)

// CommitChange is one file touched by a commit
type CommitChange struct {
	EditType string `json:"edit_type"`
	Filename string `json:"filename"`
}

// Commit is a source-control commit taken from a CI build's change set
type Commit struct {
	Message   string         `json:"message"`
	SHA1      string         `json:"sha1"`
	Author    string         `json:"author"`
	Timestamp time.Time      `json:"timestamp"`
	Changes   []CommitChange `json:"changes"`
}

// AssociatedIssues returns every "#<digits>" reference in the message, left to right.
// Duplicates are kept.
func (c Commit) AssociatedIssues() []string {
	matches := issueRefPattern.FindAllStringSubmatch(c.Message, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// Title returns the first line of the commit message
func (c Commit) Title() string {
	title, _, _ := strings.Cut(c.Message, "\n")
	return title
}

// ShortSHA1 returns the abbreviated 8 character hash
func (c Commit) ShortSHA1() string {
	if len(c.SHA1) <= 8 {
		return c.SHA1
	}
	return c.SHA1[:8]
}
