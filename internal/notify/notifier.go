package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Kavirubc/ci-changelog/internal/changelog"
	"github.com/Kavirubc/ci-changelog/internal/render"
	"github.com/Kavirubc/ci-changelog/pkg/models"
)

// Format selects the output of PrintHistory
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatHTML, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected html or markdown)", s)
	}
}

// Request describes one build to mail
type Request struct {
	Job    string
	Build  int
	Sender string
	To     []string
	CC     []string
	BCC    []string
}

// Notifier renders changelogs and delivers them by email or to a writer
type Notifier struct {
	collector *changelog.Collector
	renderer  *render.Renderer
	mailer    Mailer
	out       io.Writer
}

// NewNotifier creates a notifier. Status lines are written to out.
func NewNotifier(collector *changelog.Collector, renderer *render.Renderer, mailer Mailer, out io.Writer) *Notifier {
	return &Notifier{
		collector: collector,
		renderer:  renderer,
		mailer:    mailer,
		out:       out,
	}
}

// NotifyBuild mails one build's changelog. Nothing is sent when the build renders empty.
func (n *Notifier) NotifyBuild(ctx context.Context, req Request) (*models.NotifyResult, error) {
	result := &models.NotifyResult{
		Job:     req.Job,
		Build:   req.Build,
		BuildID: models.BuildUUID(req.Job, req.Build),
	}

	build, err := n.collector.BuildChanges(ctx, req.Job, req.Build)
	if err != nil {
		return nil, err
	}

	text := n.renderer.Markdown(build)
	html, err := n.renderer.HTML(text)
	if err != nil {
		return nil, err
	}

	if html == "" {
		result.SkipReason = "no HTML content"
		fmt.Fprintln(n.out, "No HTML content, not sending email")
		return result, nil
	}

	if n.mailer == nil {
		return nil, fmt.Errorf("no mailer configured")
	}

	err = n.mailer.Send(ctx, Message{
		Subject: build.JobName,
		HTML:    html,
		Text:    text,
		From:    req.Sender,
		To:      req.To,
		CC:      req.CC,
		BCC:     req.BCC,
		BuildID: result.BuildID,
	})
	if err != nil {
		return nil, err
	}

	result.Sent = true
	result.Recipients = req.To
	fmt.Fprintf(n.out, "Email sent from %s to %s\n", req.Sender, strings.Join(req.To, ", "))
	return result, nil
}

// PrintHistory writes the changelog of every build of the given jobs, newest first.
// Nothing is written unless every build was collected.
func (n *Notifier) PrintHistory(ctx context.Context, w io.Writer, jobs []string, format Format) (*models.HistoryStats, error) {
	builds, err := n.collector.AllBuilds(ctx, jobs)
	if err != nil {
		return nil, err
	}

	stats := &models.HistoryStats{Jobs: len(jobs), Builds: len(builds)}
	for _, b := range builds {
		if n.renderer.Markdown(b) != "" {
			stats.RenderedBuilds++
		}
	}

	out := n.renderer.AllMarkdown(builds)
	if format != FormatMarkdown {
		if out, err = n.renderer.HTML(out); err != nil {
			return nil, err
		}
	}

	if _, err := io.WriteString(w, out); err != nil {
		return nil, fmt.Errorf("failed to write changelog: %w", err)
	}
	return stats, nil
}
