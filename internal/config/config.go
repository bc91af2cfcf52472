package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGitHubAPIURL is used when no GitHub url is configured
const DefaultGitHubAPIURL = "https://api.github.com"

// DefaultFileName is the config file looked up in the user's home directory
const DefaultFileName = ".changelog.conf"

// Config represents the full application configuration.
// Field order follows the sorted JSON keys written by Save.
type Config struct {
	Auth  AuthConfig  `yaml:"auth" json:"auth"`
	Email EmailConfig `yaml:"email" json:"email"`
}

// AuthConfig contains credentials for the three external services
type AuthConfig struct {
	GitHub   GitHubConfig   `yaml:"github" json:"github"`
	Jenkins  JenkinsConfig  `yaml:"jenkins" json:"jenkins"`
	SendGrid SendGridConfig `yaml:"sendgrid" json:"sendgrid"`
}

// GitHubConfig contains GitHub API settings
type GitHubConfig struct {
	APIKey string `yaml:"api_key" json:"api_key"`
	URL    string `yaml:"url" json:"url"`
}

// JenkinsConfig contains Jenkins connection settings
type JenkinsConfig struct {
	APIKey   string `yaml:"api_key" json:"api_key"`
	URL      string `yaml:"url" json:"url"`
	Username string `yaml:"username" json:"username"`
}

// SendGridConfig contains SendGrid credentials. Password doubles as the v3 API key.
type SendGridConfig struct {
	Password string `yaml:"password" json:"password"`
	Username string `yaml:"username" json:"username"`
}

// EmailConfig contains outgoing email settings
type EmailConfig struct {
	SubjectPrefix string `yaml:"subject_prefix" json:"subject_prefix"`
}

// Default returns the configuration used before any file is read
func Default() Config {
	return Config{
		Auth: AuthConfig{
			GitHub: GitHubConfig{URL: DefaultGitHubAPIURL},
		},
	}
}

// Merge returns a copy of cfg where every non-empty field of other replaces the prior value.
// Empty fields are treated as absent and leave cfg untouched.
func (cfg Config) Merge(other Config) Config {
	set(&cfg.Auth.GitHub.APIKey, other.Auth.GitHub.APIKey)
	set(&cfg.Auth.GitHub.URL, other.Auth.GitHub.URL)
	set(&cfg.Auth.Jenkins.APIKey, other.Auth.Jenkins.APIKey)
	set(&cfg.Auth.Jenkins.URL, other.Auth.Jenkins.URL)
	set(&cfg.Auth.Jenkins.Username, other.Auth.Jenkins.Username)
	set(&cfg.Auth.SendGrid.Password, other.Auth.SendGrid.Password)
	set(&cfg.Auth.SendGrid.Username, other.Auth.SendGrid.Username)
	set(&cfg.Email.SubjectPrefix, other.Email.SubjectPrefix)
	return cfg
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Load reads and parses config from the given path.
// The file is JSON; it is decoded with yaml.v3, which also accepts hand-written YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&file)
	cfg := Default().Merge(file)
	cfg.Auth.Jenkins.URL = strings.TrimRight(cfg.Auth.Jenkins.URL, "/")
	cfg.Auth.GitHub.URL = strings.TrimRight(cfg.Auth.GitHub.URL, "/")

	return &cfg, nil
}

// LoadOrSetup loads the config at path. When the file does not exist the prompter is run once,
// its answers are saved to path and loading is retried.
func LoadOrSetup(path string, p *Prompter, out io.Writer) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	answers, err := p.Ask()
	if err != nil {
		return nil, fmt.Errorf("failed to prompt for config: %w", err)
	}
	if err := Save(path, answers); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "config written to %s\n", path)

	return Load(path)
}

// FindConfigPath returns the explicit path when given, otherwise ~/.changelog.conf
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return DefaultPath()
}

// DefaultPath returns ~/.changelog.conf, or the bare file name when home is unknown
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// WebURL returns the browser base URL matching the configured API URL.
// https://api.github.com maps to https://github.com and an Enterprise
// https://ghe.example.com/api/v3 maps to https://ghe.example.com.
func (g GitHubConfig) WebURL() string {
	u, err := url.Parse(g.URL)
	if err != nil || u.Host == "" {
		return "https://github.com"
	}
	host := strings.TrimPrefix(u.Host, "api.")
	return fmt.Sprintf("%s://%s", u.Scheme, host)
}

// Host returns the API hostname without the "api." prefix
func (g GitHubConfig) Host() string {
	u, err := url.Parse(g.URL)
	if err != nil || u.Hostname() == "" {
		return "github.com"
	}
	return strings.TrimPrefix(u.Hostname(), "api.")
}

// Redacted returns a copy with every secret masked
func (cfg Config) Redacted() Config {
	mask := func(s *string) {
		if *s != "" {
			*s = "********"
		}
	}
	mask(&cfg.Auth.GitHub.APIKey)
	mask(&cfg.Auth.Jenkins.APIKey)
	mask(&cfg.Auth.SendGrid.Password)
	return cfg
}

// YAML renders the config as YAML
func (cfg Config) YAML() (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
