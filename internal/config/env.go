package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in url and credential fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Auth.GitHub.URL = expandEnvVars(cfg.Auth.GitHub.URL)
	cfg.Auth.GitHub.APIKey = expandEnvVars(cfg.Auth.GitHub.APIKey)
	cfg.Auth.Jenkins.URL = expandEnvVars(cfg.Auth.Jenkins.URL)
	cfg.Auth.Jenkins.Username = expandEnvVars(cfg.Auth.Jenkins.Username)
	cfg.Auth.Jenkins.APIKey = expandEnvVars(cfg.Auth.Jenkins.APIKey)
	cfg.Auth.SendGrid.Username = expandEnvVars(cfg.Auth.SendGrid.Username)
	cfg.Auth.SendGrid.Password = expandEnvVars(cfg.Auth.SendGrid.Password)
}
