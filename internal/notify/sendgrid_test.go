package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Kavirubc/ci-changelog/internal/config"
)

type sendGridRequest struct {
	From struct {
		Email string `json:"email"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To  []struct{ Email string } `json:"to"`
		CC  []struct{ Email string } `json:"cc"`
		BCC []struct{ Email string } `json:"bcc"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	CustomArgs map[string]string `json:"custom_args"`
}

type SendGridSuite struct {
	suite.Suite
	server *httptest.Server
	status int
	auth   string
	path   string
	body   sendGridRequest
}

func TestSendGridSuite(t *testing.T) {
	suite.Run(t, new(SendGridSuite))
}

func (s *SendGridSuite) SetupTest() {
	s.status = http.StatusAccepted
	s.body = sendGridRequest{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.auth = r.Header.Get("Authorization")
		s.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &s.body)

		w.WriteHeader(s.status)
		if s.status >= 300 {
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
		}
	}))
}

func (s *SendGridSuite) TearDownTest() {
	s.server.Close()
}

func (s *SendGridSuite) mailer() *SendGridMailer {
	return NewSendGridMailer(
		config.SendGridConfig{Username: "apikey", Password: "SG.secret"},
		config.EmailConfig{SubjectPrefix: "[CI] "},
		s.server.URL,
	)
}

func (s *SendGridSuite) TestSend() {
	err := s.mailer().Send(context.Background(), Message{
		Subject: "Web App",
		HTML:    "<h3>Web App</h3>\n",
		Text:    "### Web App\n",
		From:    "ci@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		CC:      []string{"c@example.com"},
		BCC:     []string{"d@example.com"},
		BuildID: "build-id",
	})
	s.Require().NoError(err)

	s.Equal("Bearer SG.secret", s.auth)
	s.Equal("/v3/mail/send", s.path)
	s.Equal("ci@example.com", s.body.From.Email)
	s.Equal("[CI] Web App", s.body.Subject)

	s.Require().Len(s.body.Personalizations, 1)
	p := s.body.Personalizations[0]
	s.Require().Len(p.To, 2)
	s.Equal("a@example.com", p.To[0].Email)
	s.Equal("b@example.com", p.To[1].Email)
	s.Require().Len(p.CC, 1)
	s.Equal("c@example.com", p.CC[0].Email)
	s.Require().Len(p.BCC, 1)
	s.Equal("d@example.com", p.BCC[0].Email)

	s.Require().Len(s.body.Content, 2)
	s.Equal("text/plain", s.body.Content[0].Type)
	s.Equal("text/html", s.body.Content[1].Type)
	s.Equal("<h3>Web App</h3>\n", s.body.Content[1].Value)

	s.Equal("build-id", s.body.CustomArgs["changelog_build_id"])
}

func (s *SendGridSuite) TestSendWithoutCopies() {
	err := s.mailer().Send(context.Background(), Message{
		Subject: "Web App",
		HTML:    "<p>x</p>",
		Text:    "x",
		From:    "ci@example.com",
		To:      []string{"a@example.com"},
	})
	s.Require().NoError(err)

	s.Require().Len(s.body.Personalizations, 1)
	s.Empty(s.body.Personalizations[0].CC)
	s.Empty(s.body.Personalizations[0].BCC)
	s.Empty(s.body.CustomArgs)
}

func (s *SendGridSuite) TestSendRejected() {
	s.status = http.StatusBadRequest

	err := s.mailer().Send(context.Background(), Message{
		Subject: "Web App",
		HTML:    "<p>x</p>",
		Text:    "x",
		From:    "ci@example.com",
		To:      []string{"a@example.com"},
	})

	var sendErr *SendError
	s.Require().ErrorAs(err, &sendErr)
	s.Equal(http.StatusBadRequest, sendErr.StatusCode)
	s.Contains(sendErr.Body, "bad")
}

func TestSendErrorMessage(t *testing.T) {
	err := &SendError{StatusCode: 401, Body: "unauthorized"}
	require.Equal(t, "sendgrid: HTTP 401: unauthorized", err.Error())
}
