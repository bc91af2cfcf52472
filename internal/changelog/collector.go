package changelog

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Kavirubc/ci-changelog/internal/github"
	"github.com/Kavirubc/ci-changelog/internal/jenkins"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

// CIClient is the part of the Jenkins client the collector needs
type CIClient interface {
	GetJob(ctx context.Context, job string) (*jenkins.Job, error)
	GetBuild(ctx context.Context, job string, number int) (*jenkins.Build, error)
	GetBuildNumbers(ctx context.Context, job string) ([]int, error)
	GetJobRepoURL(ctx context.Context, job string) (string, error)
}

// IssueTracker is the part of the GitHub client the collector needs
type IssueTracker interface {
	GetAllIssues(ctx context.Context, org, repo string) ([]*models.Issue, error)
}

// Build is one CI build correlated with the issue tracker
type Build struct {
	Job       *jenkins.Job
	Build     *jenkins.Build
	JobName   string
	Time      time.Time
	RepoOwner string
	RepoName  string
	Issues    []IssueGroup
	Commits   []models.Commit
}

// Collector gathers builds and correlates their commits with issues
type Collector struct {
	ci       CIClient
	tracker  IssueTracker
	loc      *time.Location
	progress io.Writer
}

// Option configures a Collector
type Option func(*Collector)

// WithLocation sets the zone build and commit times are reported in (default time.Local)
func WithLocation(loc *time.Location) Option {
	return func(c *Collector) {
		c.loc = loc
	}
}

// WithProgress sets where "<job> <build>" progress lines are written (default io.Discard)
func WithProgress(w io.Writer) Option {
	return func(c *Collector) {
		c.progress = w
	}
}

// NewCollector creates a collector over the given clients
func NewCollector(ci CIClient, tracker IssueTracker, opts ...Option) *Collector {
	c := &Collector{
		ci:       ci,
		tracker:  tracker,
		loc:      time.Local,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildChanges fetches one build and correlates its change set with the repository's issues
func (c *Collector) BuildChanges(ctx context.Context, job string, number int) (*Build, error) {
	fmt.Fprintf(c.progress, "%s %d\n", job, number)

	repoURL, err := c.ci.GetJobRepoURL(ctx, job)
	if err != nil {
		return nil, err
	}
	owner, repo, err := github.GetRepoPath(repoURL)
	if err != nil {
		return nil, err
	}

	ciJob, err := c.ci.GetJob(ctx, job)
	if err != nil {
		return nil, err
	}
	ciBuild, err := c.ci.GetBuild(ctx, job, number)
	if err != nil {
		return nil, err
	}

	commits := CommitsFromItems(ciBuild.Items(), c.loc)

	allIssues, err := c.tracker.GetAllIssues(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	return &Build{
		Job:       ciJob,
		Build:     ciBuild,
		JobName:   ciJob.DisplayName,
		Time:      ciBuild.Time(c.loc),
		RepoOwner: owner,
		RepoName:  repo,
		Issues:    IssueGroups(commits, allIssues),
		Commits:   OrphanCommits(commits),
	}, nil
}

// AllBuilds collects every build of every job, newest first.
// The first error aborts the whole collection.
func (c *Collector) AllBuilds(ctx context.Context, jobs []string) ([]*Build, error) {
	var builds []*Build
	for _, job := range jobs {
		numbers, err := c.ci.GetBuildNumbers(ctx, job)
		if err != nil {
			return nil, err
		}
		for _, n := range numbers {
			b, err := c.BuildChanges(ctx, job, n)
			if err != nil {
				return nil, err
			}
			builds = append(builds, b)
		}
	}

	SortNewestFirst(builds)
	return builds, nil
}

// SortNewestFirst orders builds by time descending; equal times keep their order
func SortNewestFirst(builds []*Build) {
	sort.SliceStable(builds, func(i, j int) bool {
		return builds[i].Time.After(builds[j].Time)
	})
}
