package config

import (
	"fmt"
	"net/url"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Requirement selects which services a command needs
type Requirement int

const (
	RequireJenkins Requirement = 1 << iota
	RequireGitHub
	RequireSendGrid

	RequireAll = RequireJenkins | RequireGitHub | RequireSendGrid
)

// Validate checks the configuration for the services selected by req
func Validate(cfg *Config, req Requirement) []error {
	var errs []error

	if req&RequireJenkins != 0 {
		if cfg.Auth.Jenkins.URL == "" {
			errs = append(errs, ValidationError{"auth.jenkins.url", "required"})
		} else if !isHTTPURL(cfg.Auth.Jenkins.URL) {
			errs = append(errs, ValidationError{"auth.jenkins.url", "must be an http(s) url"})
		}

		// Basic auth is only sent when both halves are present
		if (cfg.Auth.Jenkins.Username == "") != (cfg.Auth.Jenkins.APIKey == "") {
			errs = append(errs, ValidationError{"auth.jenkins", "username and api_key must be set together"})
		}
	}

	if req&RequireGitHub != 0 {
		if !isHTTPURL(cfg.Auth.GitHub.URL) {
			errs = append(errs, ValidationError{"auth.github.url", "must be an http(s) url"})
		}
	}

	if req&RequireSendGrid != 0 {
		if cfg.Auth.SendGrid.Password == "" {
			errs = append(errs, ValidationError{"auth.sendgrid.password", "required to send email"})
		}
	}

	return errs
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
