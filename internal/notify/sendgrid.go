package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Kavirubc/ci-changelog/internal/config"
)

const sendEndpoint = "/v3/mail/send"

// Message is one changelog email
type Message struct {
	Subject string
	HTML    string
	Text    string
	From    string
	To      []string
	CC      []string
	BCC     []string
	// BuildID is attached as a custom argument for tracking
	BuildID string
}

// Mailer dispatches a message
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendError is returned when SendGrid answers with a non-2xx status
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("sendgrid: HTTP %d: %s", e.StatusCode, e.Body)
}

// SendGridMailer sends mail through the SendGrid v3 API
type SendGridMailer struct {
	request       rest.Request
	subjectPrefix string
}

// NewSendGridMailer creates a mailer. The configured SendGrid password is used as the API key.
// host overrides https://api.sendgrid.com when non-empty.
func NewSendGridMailer(cfg config.SendGridConfig, email config.EmailConfig, host string) *SendGridMailer {
	req := sendgrid.GetRequest(cfg.Password, sendEndpoint, host)
	req.Method = rest.Post

	return &SendGridMailer{
		request:       req,
		subjectPrefix: email.SubjectPrefix,
	}
}

// Send dispatches msg, prefixing the subject with the configured subject prefix
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	req := m.request
	req.Body = mail.GetRequestBody(m.build(msg))

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &SendError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}

func (m *SendGridMailer) build(msg Message) *mail.SGMailV3 {
	email := mail.NewV3Mail()
	email.SetFrom(mail.NewEmail("", msg.From))
	email.Subject = m.subjectPrefix + msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(addresses(msg.To)...)
	if len(msg.CC) > 0 {
		p.AddCCs(addresses(msg.CC)...)
	}
	if len(msg.BCC) > 0 {
		p.AddBCCs(addresses(msg.BCC)...)
	}
	email.AddPersonalizations(p)

	// text/plain must precede text/html
	email.AddContent(
		mail.NewContent("text/plain", msg.Text),
		mail.NewContent("text/html", msg.HTML),
	)

	if msg.BuildID != "" {
		email.SetCustomArg("changelog_build_id", msg.BuildID)
	}
	return email
}

func addresses(addrs []string) []*mail.Email {
	out := make([]*mail.Email, len(addrs))
	for i, a := range addrs {
		out[i] = mail.NewEmail("", a)
	}
	return out
}
