package changelog

import (
	"strconv"
	"time"

	"github.com/Kavirubc/ci-changelog/internal/github"
	"github.com/Kavirubc/ci-changelog/internal/jenkins"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

// IssueGroup is one tracked issue and every commit of a build that references it
type IssueGroup struct {
	Issue   *models.Issue
	Commits []models.Commit
}

// Index holds the lookup tables built from one build's commits
type Index struct {
	// Commits maps sha1 to commit; a duplicate sha1 replaces the earlier commit.
	Commits map[string]models.Commit
	// IssuesByCommit maps sha1 to the issue numbers its message references.
	IssuesByCommit map[string][]string
	// CommitsByIssue maps an issue number to referencing sha1s, in append order.
	CommitsByIssue map[string][]string

	issueOrder []string
}

// CommitsFromItems converts a build's change set items to commits
func CommitsFromItems(items []jenkins.ChangeSetItem, loc *time.Location) []models.Commit {
	commits := make([]models.Commit, len(items))
	for i, item := range items {
		commits[i] = item.ToModel(loc)
	}
	return commits
}

// IndexCommits builds the commit and issue reference indices
func IndexCommits(commits []models.Commit) *Index {
	idx := &Index{
		Commits:        make(map[string]models.Commit, len(commits)),
		IssuesByCommit: make(map[string][]string, len(commits)),
		CommitsByIssue: make(map[string][]string),
	}

	for _, c := range commits {
		idx.Commits[c.SHA1] = c
	}

	for _, c := range commits {
		refs := c.AssociatedIssues()
		idx.IssuesByCommit[c.SHA1] = refs
		for _, n := range refs {
			if _, seen := idx.CommitsByIssue[n]; !seen {
				idx.issueOrder = append(idx.issueOrder, n)
			}
			idx.CommitsByIssue[n] = append(idx.CommitsByIssue[n], c.SHA1)
		}
	}

	return idx
}

// IssueNumbers returns referenced issue numbers in first-seen order
func (idx *Index) IssueNumbers() []string {
	return idx.issueOrder
}

// IssueGroups pairs each referenced issue with its commits, in first-seen order.
// References to numbers the tracker does not know (pull requests from other repos,
// deleted issues) produce no group.
func IssueGroups(commits []models.Commit, allIssues []*models.Issue) []IssueGroup {
	idx := IndexCommits(commits)
	issues := github.IssueIndex(allIssues)

	groups := []IssueGroup{}
	for _, ref := range idx.IssueNumbers() {
		n, err := strconv.Atoi(ref)
		if err != nil {
			continue
		}
		issue, ok := issues[n]
		if !ok {
			continue
		}

		shas := idx.CommitsByIssue[ref]
		group := IssueGroup{Issue: issue, Commits: make([]models.Commit, 0, len(shas))}
		for _, sha := range shas {
			group.Commits = append(group.Commits, idx.Commits[sha])
		}
		groups = append(groups, group)
	}
	return groups
}

// OrphanCommits returns the commits that reference no issue, in change set order.
// Each sha1 appears at most once.
func OrphanCommits(commits []models.Commit) []models.Commit {
	idx := IndexCommits(commits)

	orphans := []models.Commit{}
	seen := make(map[string]bool, len(commits))
	for _, c := range commits {
		if seen[c.SHA1] {
			continue
		}
		seen[c.SHA1] = true

		if len(idx.IssuesByCommit[c.SHA1]) != 0 {
			continue
		}
		commit, ok := idx.Commits[c.SHA1]
		if !ok {
			continue
		}
		orphans = append(orphans, commit)
	}
	return orphans
}
