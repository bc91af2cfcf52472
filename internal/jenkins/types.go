package jenkins

import (
	"strconv"
	"time"

	"github.com/Kavirubc/ci-changelog/pkg/models"
)

// Job is the subset of /job/{name}/api/json used here
type Job struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	URL         string     `json:"url"`
	Builds      []BuildRef `json:"builds"`
}

// BuildRef is an entry of a job's build list
type BuildRef struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

// Build is the subset of /job/{name}/{n}/api/json used here
type Build struct {
	Number          int         `json:"number"`
	FullDisplayName string      `json:"fullDisplayName"`
	Result          string      `json:"result"`
	Timestamp       int64       `json:"timestamp"` // milliseconds
	URL             string      `json:"url"`
	ChangeSet       ChangeSet   `json:"changeSet"`
	ChangeSets      []ChangeSet `json:"changeSets"` // pipeline jobs
}

// ChangeSet lists the commits included in a build
type ChangeSet struct {
	Kind  string          `json:"kind"`
	Items []ChangeSetItem `json:"items"`
}

// ChangeSetItem is one commit of a change set
type ChangeSetItem struct {
	Comment   string `json:"comment"`
	ID        string `json:"id"`
	Author    Author `json:"author"`
	Timestamp int64  `json:"timestamp"`
	Paths     []Path `json:"paths"`
}

// Author of a change set item
type Author struct {
	FullName string `json:"fullName"`
}

// Path is one file touched by a change set item
type Path struct {
	EditType string `json:"editType"`
	File     string `json:"file"`
}

// Items returns changeSet.items, falling back to every changeSets[].items for pipeline builds
func (b *Build) Items() []ChangeSetItem {
	if len(b.ChangeSet.Items) > 0 {
		return b.ChangeSet.Items
	}
	var items []ChangeSetItem
	for _, cs := range b.ChangeSets {
		items = append(items, cs.Items...)
	}
	return items
}

// Time returns the build start time. Only the first 10 digits of the
// millisecond timestamp are kept and read as UNIX seconds.
func (b *Build) Time(loc *time.Location) time.Time {
	digits := strconv.FormatInt(b.Timestamp, 10)
	if len(digits) > 10 {
		digits = digits[:10]
	}
	secs, _ := strconv.ParseInt(digits, 10, 64)
	return time.Unix(secs, 0).In(loc)
}

// ToModel converts a change set item to models.Commit.
// The timestamp is read as UNIX seconds in loc.
func (i ChangeSetItem) ToModel(loc *time.Location) models.Commit {
	changes := make([]models.CommitChange, len(i.Paths))
	for j, p := range i.Paths {
		changes[j] = models.CommitChange{EditType: p.EditType, Filename: p.File}
	}

	return models.Commit{
		Message:   i.Comment,
		SHA1:      i.ID,
		Author:    i.Author.FullName,
		Timestamp: time.Unix(i.Timestamp, 0).In(loc),
		Changes:   changes,
	}
}

// ChangeSetItemFromModel is the inverse of ToModel
func ChangeSetItemFromModel(c models.Commit) ChangeSetItem {
	paths := make([]Path, len(c.Changes))
	for j, ch := range c.Changes {
		paths[j] = Path{EditType: ch.EditType, File: ch.Filename}
	}

	return ChangeSetItem{
		Comment:   c.Message,
		ID:        c.SHA1,
		Author:    Author{FullName: c.Author},
		Timestamp: c.Timestamp.Unix(),
		Paths:     paths,
	}
}
