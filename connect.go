package ami

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"
)

// Dial connects to the manager interface described by cfg, consumes the
// protocol banner ("Asterisk Call Manager/x.y"), and, when cfg.Username
// is set, performs the Login action before returning a ready client.
//
// Dial is a thin sequencing layer over NewClient: reconnection, pooling,
// and certificate policy are deliberately left to the application.
func Dial(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ami: config: %w", err)
	}

	conn, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("ami: dial %s: %w", cfg.Address, err)
	}

	if cfg.ConnectTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(cfg.ConnectTimeout))
	}
	if _, err := readBanner(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ami: read banner: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	client := NewClient(conn, opts...)

	if cfg.Username != "" {
		login := NewAction("Login")
		login.Set("Username", cfg.Username)
		login.Set("Secret", cfg.Secret)
		if cfg.Events != "" {
			login.Set("Events", cfg.Events)
		}

		timeout := cfg.LoginTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := client.SendContext(ctx, login); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ami: login: %w", err)
		}
	}

	return client, nil
}

func dial(cfg Config) (net.Conn, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	if !cfg.UseTLS {
		return dialer.Dial("tcp", cfg.Address)
	}

	tlsDialer := tls.Dialer{
		NetDialer: &dialer,
		Config:    &tls.Config{ServerName: cfg.TLSServerName},
	}
	return tlsDialer.Dial("tcp", cfg.Address)
}

// readBanner consumes the greeting line byte by byte so no response bytes
// are buffered away from the client's own decoder.
func readBanner(conn net.Conn) (string, error) {
	var line []byte
	var b [1]byte
	for {
		if _, err := conn.Read(b[:]); err != nil {
			return "", err
		}
		if b[0] == '\n' {
			return string(bytes.TrimRight(line, "\r")), nil
		}
		line = append(line, b[0])
		if len(line) > 512 {
			return "", errors.New("banner too long")
		}
	}
}
