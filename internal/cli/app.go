package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/ci-changelog/internal/changelog"
	"github.com/Kavirubc/ci-changelog/internal/config"
	"github.com/Kavirubc/ci-changelog/internal/github"
	"github.com/Kavirubc/ci-changelog/internal/jenkins"
	"github.com/Kavirubc/ci-changelog/internal/notify"
	"github.com/Kavirubc/ci-changelog/internal/render"
)

// sendGridHost overrides the SendGrid API host; empty means api.sendgrid.com
var sendGridHost = os.Getenv("CHANGELOG_SENDGRID_HOST")

// app holds the clients one command invocation works with
type app struct {
	ci       *jenkins.Client
	notifier *notify.Notifier
}

// loadConfig loads the config file, running the interactive setup when it does not exist
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	prompter := config.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	cfg, err := config.LoadOrSetup(path, prompter, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// warnInvalid prints validation problems without stopping the command
func warnInvalid(w io.Writer, cfg *config.Config, req config.Requirement) {
	for _, err := range config.Validate(cfg, req) {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

// newApp wires the Jenkins and GitHub clients into a notifier.
// The SendGrid mailer is created only when withMailer is set.
func newApp(cmd *cobra.Command, req config.Requirement, withMailer bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	warnInvalid(cmd.ErrOrStderr(), cfg, req)

	ci, err := jenkins.NewClient(cfg.Auth.Jenkins)
	if err != nil {
		return nil, fmt.Errorf("failed to create jenkins client: %w", err)
	}

	gh, err := github.NewClient(cfg.Auth.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}
	if !gh.Authenticated() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no GitHub token for %s, sending unauthenticated requests\n", cfg.Auth.GitHub.Host())
	}

	collector := changelog.NewCollector(ci, gh, changelog.WithProgress(cmd.ErrOrStderr()))
	renderer := render.New(cfg.Auth.GitHub.WebURL())

	var mailer notify.Mailer
	if withMailer {
		mailer = notify.NewSendGridMailer(cfg.Auth.SendGrid, cfg.Email, sendGridHost)
	}

	return &app{
		ci:       ci,
		notifier: notify.NewNotifier(collector, renderer, mailer, cmd.OutOrStdout()),
	}, nil
}
