package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for every config value on an interactive terminal
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret func() (string, error)
}

// NewPrompter reads answers from in and writes questions to out.
// Secrets are read without echo when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
	p.secret = p.line

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.secret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
	}
	return p
}

// Ask runs the full questionnaire
func (p *Prompter) Ask() (Config, error) {
	var cfg Config
	steps := []struct {
		question string
		dst      *string
		secret   bool
	}{
		{"GitHub API url (press enter for " + DefaultGitHubAPIURL + "): ", &cfg.Auth.GitHub.URL, false},
		{"GitHub API Key: ", &cfg.Auth.GitHub.APIKey, true},
		{"Jenkins url (no trailing slash): ", &cfg.Auth.Jenkins.URL, false},
		{"Jenkins username: ", &cfg.Auth.Jenkins.Username, false},
		{"Jenkins API Key: ", &cfg.Auth.Jenkins.APIKey, true},
		{"Sendgrid username: ", &cfg.Auth.SendGrid.Username, false},
		{"Sendgrid password: ", &cfg.Auth.SendGrid.Password, true},
		{"Email subject prefix: ", &cfg.Email.SubjectPrefix, false},
	}

	for _, s := range steps {
		fmt.Fprint(p.out, s.question)
		read := p.line
		if s.secret {
			read = p.secret
		}
		answer, err := read()
		if err != nil {
			return Config{}, err
		}
		*s.dst = answer
	}

	if cfg.Auth.GitHub.URL == "" {
		cfg.Auth.GitHub.URL = DefaultGitHubAPIURL
	}
	return cfg, nil
}

func (p *Prompter) line() (string, error) {
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Save writes cfg to path as indented JSON with sorted keys
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
