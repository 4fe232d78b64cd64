package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 9000
log_level = "debug"
log_to_stdout = true
data_file_path = "/tmp/fitcoach/fitness_data.json"
github_backup_repo = "serj/fitness-backup"

[production]
host = "0.0.0.0"
port = 8080
environment = "prod"
log_level = "info"
logs_path = "/var/log/fitcoach/service.log"
sentry_enabled = true
session_ttl_hours = 12
metrics_port = 9999
gemini_model = "gemini-2.5-flash"
github_backup_repo = "serj/fitness-backup"
github_backup_branch = "backups"
drive_backup_folder = "fitness"
`

func TestParse(t *testing.T) {
	dev, err := Parse("dev", testToml)
	require.NoError(t, err)
	assert.Equal(t, 9000, dev.Port)
	assert.Equal(t, "debug", dev.LogLevel)
	assert.True(t, dev.LogToStdout)
	assert.Equal(t, "/tmp/fitcoach/fitness_data.json", dev.DataFilePath)
	assert.Equal(t, "dev", dev.Environment)
	assert.Equal(t, defaultMetricsPort, dev.MetricsPort)
	assert.Equal(t, "main", dev.GithubBackupBranch)
	assert.Equal(t, "fitcoach-backups", dev.DriveBackupFolder)
	assert.Equal(t, 7*24*time.Hour, dev.SessionTTL())

	prod, err := Parse("production", testToml)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", prod.Host)
	assert.Equal(t, 8080, prod.Port)
	assert.Equal(t, "prod", prod.Environment)
	assert.True(t, prod.SentryEnabled)
	assert.Equal(t, 12*time.Hour, prod.SessionTTL())
	assert.Equal(t, 9999, prod.MetricsPort)
	assert.Equal(t, "gemini-2.5-flash", prod.GeminiModel)
	assert.Equal(t, "backups", prod.GithubBackupBranch)
	assert.Equal(t, "fitness", prod.DriveBackupFolder)
	assert.Equal(t, defaultDataFilePath, prod.DataFilePath)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("staging", testToml)
	assert.ErrorContains(t, err, "unknown env")

	_, err = Parse("prod", "[development]\nport = 1\n")
	assert.ErrorContains(t, err, "no config section")

	_, err = Parse("dev", "[development\nport = ")
	assert.ErrorContains(t, err, "decode config")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testToml), 0o644))

	cfg, err := Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)

	_, err = Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_GithubBackupOwnerRepo(t *testing.T) {
	testCases := []struct {
		repo      string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{repo: "serj/fitness-backup", wantOwner: "serj", wantRepo: "fitness-backup", wantOK: true},
		{repo: " serj/data ", wantOwner: "serj", wantRepo: "data", wantOK: true},
		{repo: ""},
		{repo: "serj"},
		{repo: "/data"},
		{repo: "serj/"},
		{repo: "serj/data/extra"},
	}

	for _, tc := range testCases {
		t.Run(tc.repo, func(t *testing.T) {
			c := &Config{GithubBackupRepo: tc.repo}
			owner, repo, ok := c.GithubBackupOwnerRepo()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantOwner, owner)
			assert.Equal(t, tc.wantRepo, repo)
		})
	}
}
