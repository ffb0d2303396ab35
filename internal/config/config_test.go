package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 10*time.Second, cfg.LoginTimeout)
	assert.False(t, cfg.UseTLS)
}

func TestStringRedactsSecret(t *testing.T) {
	cfg := Default()
	cfg.Address = "pbx.example.com:5038"
	cfg.Username = "monitor"
	cfg.Secret = "hunter2"

	out := cfg.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "***REDACTED***")
	assert.Contains(t, out, "monitor")

	// An empty secret stays empty rather than showing a redaction mark.
	cfg.Secret = ""
	assert.NotContains(t, cfg.String(), "REDACTED")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing address",
			mutate:  func(c *Config) { c.Address = "" },
			wantErr: "address is required",
		},
		{
			name:    "address without port",
			mutate:  func(c *Config) { c.Address = "pbx.example.com" },
			wantErr: "must be host:port",
		},
		{
			name: "secret without username",
			mutate: func(c *Config) {
				c.Username = ""
				c.Secret = "hunter2"
			},
			wantErr: "username is empty",
		},
		{
			name:    "negative connect timeout",
			mutate:  func(c *Config) { c.ConnectTimeout = -time.Second },
			wantErr: "connect timeout cannot be negative",
		},
		{
			name:    "negative login timeout",
			mutate:  func(c *Config) { c.LoginTimeout = -time.Second },
			wantErr: "login timeout cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Address = "pbx.example.com:5038"
			cfg.Username = "monitor"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	cfg := Config{Secret: "hunter2", ConnectTimeout: -1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
	assert.Contains(t, err.Error(), "username is empty")
	assert.Contains(t, err.Error(), "connect timeout cannot be negative")
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ami.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
address = "pbx.example.com:5038"
username = "monitor"
secret = "hunter2"
use_tls = true
tls_server_name = "pbx.example.com"
connect_timeout = "5s"
events = "call,system"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pbx.example.com:5038", cfg.Address)
	assert.Equal(t, "monitor", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Secret)
	assert.True(t, cfg.UseTLS)
	assert.Equal(t, "pbx.example.com", cfg.TLSServerName)
	assert.Equal(t, "call,system", cfg.Events)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	// login_timeout absent from the file keeps its default.
	assert.Equal(t, 10*time.Second, cfg.LoginTimeout)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeFile(t, `
address = "pbx.example.com:5038"
connect_timeout = "soon"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect_timeout")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeFile(t, `secret = "hunter2"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is required")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
