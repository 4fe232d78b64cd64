package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultDataFilePath  = "./fitness_data.json"
	defaultDriveFolder   = "fitcoach-backups"
	defaultBackupBranch  = "main"
	defaultMetricsHost   = "localhost"
	defaultMetricsPort   = 2112
	defaultMetricsSubsys = "fitcoach"
)

type Config struct {
	Host        string
	Port        int
	Environment string
	// browser origins allowed by CORS, on top of localhost
	AllowedOrigins []string `toml:"allowed_origins"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// data
	DataFilePath string `toml:"data_file_path"`
	// metrics
	MetricsHost      string `toml:"metrics_host"`
	MetricsPort      int    `toml:"metrics_port"`
	MetricsSubsystem string `toml:"metrics_subsystem"`
	// auth
	SessionTTLHours int `toml:"session_ttl_hours"`
	// meal estimator
	GeminiModel   string `toml:"gemini_model"`
	GeminiBaseURL string `toml:"gemini_base_url"`
	// backups
	GithubBackupRepo   string `toml:"github_backup_repo"`
	GithubBackupBranch string `toml:"github_backup_branch"`
	DriveBackupFolder  string `toml:"drive_backup_folder"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.applyDefaults(env)
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file [%s]: %w", path, err)
	}
	return Parse(env, string(content))
}

func Parse(env, content string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(content, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// GithubBackupOwnerRepo splits "owner/name" into its parts.
func (c *Config) GithubBackupOwnerRepo() (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(strings.TrimSpace(c.GithubBackupRepo), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.DataFilePath == "" {
		c.DataFilePath = defaultDataFilePath
	}
	if c.MetricsHost == "" {
		c.MetricsHost = defaultMetricsHost
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = defaultMetricsPort
	}
	if c.MetricsSubsystem == "" {
		c.MetricsSubsystem = defaultMetricsSubsys
	}
	if c.GithubBackupBranch == "" {
		c.GithubBackupBranch = defaultBackupBranch
	}
	if c.DriveBackupFolder == "" {
		c.DriveBackupFolder = defaultDriveFolder
	}
}
