// Package config holds the connection settings for a manager client.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config groups the settings used to establish and authenticate a manager
// connection. The zero value is not usable; start from Default.
type Config struct {
	// Address is the host:port of the manager interface, for example
	// "pbx.example.com:5038".
	Address string

	// Username and Secret authenticate the Login action sent by Dial.
	// An empty Username skips login entirely (the caller is expected to
	// authenticate through its own action sequence).
	Username string
	Secret   string

	// UseTLS dials the manager over TLS instead of plain TCP.
	UseTLS bool
	// TLSServerName overrides the server name used for certificate
	// verification. Empty derives it from Address.
	TLSServerName string

	// ConnectTimeout bounds the TCP/TLS dial and the protocol banner
	// read. LoginTimeout bounds the Login action round trip.
	ConnectTimeout time.Duration
	LoginTimeout   time.Duration

	// Events is the value sent in the Events field of the Login action
	// ("on", "off", or a comma-separated mask such as "call,system").
	// Empty leaves the server default untouched.
	Events string
}

// Default returns a Config with the stock timeouts applied.
func Default() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		LoginTimeout:   10 * time.Second,
	}
}

func (c Config) String() string {
	copy := c
	if copy.Secret != "" {
		copy.Secret = "***REDACTED***"
	}
	// Use a type alias to avoid infinite recursion when printing
	type configAlias Config
	return fmt.Sprintf("%+v", configAlias(copy))
}

// Validate checks that the configuration can be dialed.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, errors.New("address is required"))
	} else if _, _, err := net.SplitHostPort(c.Address); err != nil {
		errs = append(errs, fmt.Errorf("address %q must be host:port: %w", c.Address, err))
	}
	if c.Username == "" && c.Secret != "" {
		errs = append(errs, errors.New("secret is set but username is empty"))
	}
	if c.ConnectTimeout < 0 {
		errs = append(errs, errors.New("connect timeout cannot be negative"))
	}
	if c.LoginTimeout < 0 {
		errs = append(errs, errors.New("login timeout cannot be negative"))
	}

	return errors.Join(errs...)
}

// fileConfig is the TOML shape of a config file. Durations are strings in
// time.ParseDuration syntax ("5s", "1m30s").
type fileConfig struct {
	Address        string `toml:"address"`
	Username       string `toml:"username"`
	Secret         string `toml:"secret"`
	UseTLS         bool   `toml:"use_tls"`
	TLSServerName  string `toml:"tls_server_name"`
	ConnectTimeout string `toml:"connect_timeout"`
	LoginTimeout   string `toml:"login_timeout"`
	Events         string `toml:"events"`
}

// Load reads a TOML config file and overlays it onto Default. Keys absent
// from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load manager config: %w", err)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("username") {
		cfg.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("secret") {
		cfg.Secret = raw.Secret
	}
	if meta.IsDefined("use_tls") {
		cfg.UseTLS = raw.UseTLS
	}
	if meta.IsDefined("tls_server_name") {
		cfg.TLSServerName = strings.TrimSpace(raw.TLSServerName)
	}
	if meta.IsDefined("events") {
		cfg.Events = strings.TrimSpace(raw.Events)
	}
	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(raw.ConnectTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("load manager config: connect_timeout: %w", err)
		}
		cfg.ConnectTimeout = d
	}
	if meta.IsDefined("login_timeout") {
		d, err := time.ParseDuration(raw.LoginTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("load manager config: login_timeout: %w", err)
		}
		cfg.LoginTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load manager config: %w", err)
	}
	return cfg, nil
}
