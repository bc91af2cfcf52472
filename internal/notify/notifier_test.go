package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kavirubc/ci-changelog/internal/changelog"
	"github.com/Kavirubc/ci-changelog/internal/jenkins"
	"github.com/Kavirubc/ci-changelog/internal/render"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

type stubCI struct {
	builds map[int]*jenkins.Build
}

func (s *stubCI) GetJob(ctx context.Context, job string) (*jenkins.Job, error) {
	refs := make([]jenkins.BuildRef, 0, len(s.builds))
	for n := 1; n <= len(s.builds); n++ {
		refs = append(refs, jenkins.BuildRef{Number: n})
	}
	return &jenkins.Job{Name: job, DisplayName: "Web App", Builds: refs}, nil
}

func (s *stubCI) GetBuild(ctx context.Context, job string, number int) (*jenkins.Build, error) {
	b, ok := s.builds[number]
	if !ok {
		return nil, &jenkins.HTTPError{StatusCode: 404, URL: job}
	}
	return b, nil
}

func (s *stubCI) GetBuildNumbers(ctx context.Context, job string) ([]int, error) {
	var numbers []int
	for n := 1; n <= len(s.builds); n++ {
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func (s *stubCI) GetJobRepoURL(ctx context.Context, job string) (string, error) {
	return "git@github.com:acme/webapp.git", nil
}

type stubTracker struct{}

func (stubTracker) GetAllIssues(ctx context.Context, org, repo string) ([]*models.Issue, error) {
	return []*models.Issue{{Number: 42, Title: "Login fails", Labels: []string{"(Type) Bug"}}}, nil
}

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newNotifier(mailer Mailer, out *bytes.Buffer) *Notifier {
	jan := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)

	ci := &stubCI{builds: map[int]*jenkins.Build{
		1: {Number: 1, Timestamp: jan.UnixMilli(), ChangeSet: jenkins.ChangeSet{Items: []jenkins.ChangeSetItem{
			{Comment: "Fix login bug #42", ID: "abc12345deadbeef"},
		}}},
		2: {Number: 2, Timestamp: feb.UnixMilli(), ChangeSet: jenkins.ChangeSet{Items: []jenkins.ChangeSetItem{
			{Comment: "Bump deps", ID: "0123456789abcdef"},
		}}},
		3: {Number: 3, Timestamp: feb.UnixMilli()},
	}}

	collector := changelog.NewCollector(ci, stubTracker{}, changelog.WithLocation(time.UTC))
	return NewNotifier(collector, render.New(""), mailer, out)
}

func TestNotifyBuildSends(t *testing.T) {
	mailer := &recordingMailer{}
	var out bytes.Buffer
	n := newNotifier(mailer, &out)

	result, err := n.NotifyBuild(context.Background(), Request{
		Job:    "webapp",
		Build:  1,
		Sender: "ci@example.com",
		To:     []string{"a@example.com", "b@example.com"},
		CC:     []string{"c@example.com"},
	})
	require.NoError(t, err)
	require.True(t, result.Sent)
	require.Equal(t, models.BuildUUID("webapp", 1), result.BuildID)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, result.Recipients)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	require.Equal(t, "Web App", msg.Subject)
	require.Equal(t, "ci@example.com", msg.From)
	require.Equal(t, []string{"c@example.com"}, msg.CC)
	require.Equal(t, result.BuildID, msg.BuildID)
	require.Contains(t, msg.HTML, "<strong>[Bug]</strong> Login fails")
	require.True(t, strings.HasPrefix(msg.Text, "### Web App - 2024-01-01 10:30:00"))

	require.Equal(t, "Email sent from ci@example.com to a@example.com, b@example.com\n", out.String())
}

func TestNotifyBuildSkipsEmpty(t *testing.T) {
	mailer := &recordingMailer{}
	var out bytes.Buffer
	n := newNotifier(mailer, &out)

	result, err := n.NotifyBuild(context.Background(), Request{Job: "webapp", Build: 3, Sender: "ci@example.com", To: []string{"a@example.com"}})
	require.NoError(t, err)
	require.False(t, result.Sent)
	require.NotEmpty(t, result.SkipReason)
	require.Empty(t, mailer.sent)
	require.Equal(t, "No HTML content, not sending email\n", out.String())
}

func TestNotifyBuildErrors(t *testing.T) {
	var out bytes.Buffer

	_, err := newNotifier(&recordingMailer{}, &out).NotifyBuild(context.Background(), Request{Job: "webapp", Build: 9})
	var httpErr *jenkins.HTTPError
	require.ErrorAs(t, err, &httpErr)

	boom := errors.New("boom")
	_, err = newNotifier(&recordingMailer{err: boom}, &out).NotifyBuild(context.Background(), Request{Job: "webapp", Build: 1, To: []string{"a@example.com"}})
	require.ErrorIs(t, err, boom)
	require.Empty(t, out.String())
}

func TestPrintHistory(t *testing.T) {
	var out, progress bytes.Buffer
	n := newNotifier(nil, &progress)

	stats, err := n.PrintHistory(context.Background(), &out, []string{"webapp"}, FormatMarkdown)
	require.NoError(t, err)
	require.Equal(t, &models.HistoryStats{Jobs: 1, Builds: 3, RenderedBuilds: 2}, stats)

	got := out.String()
	require.Contains(t, got, "Bump deps")
	require.Contains(t, got, "Login fails")
	require.Less(t, strings.Index(got, "2024-02-01"), strings.Index(got, "2024-01-01"), "newest build first")

	out.Reset()
	_, err = n.PrintHistory(context.Background(), &out, []string{"webapp"}, FormatHTML)
	require.NoError(t, err)
	require.Contains(t, out.String(), "<h3>Web App - 2024-02-01 10:30:00</h3>")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	require.Equal(t, FormatHTML, f)

	f, err = ParseFormat("markdown")
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
}
