// Package server provides HTTP server configuration and lifecycle management.
package server

import (
	"net"
	"strconv"
	"time"

	"github.com/remiblancher/qsign/internal/config"
)

// Config holds the server configuration.
type Config struct {
	// Host is the address to bind to (default: "").
	Host string

	// Port is the listen port. Zero picks a free port.
	Port int

	// TLS configuration (optional)
	TLSCert string
	TLSKey  string

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string

	// MaxConnections caps simultaneous connections (0: unlimited).
	MaxConnections int

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return FromConfig(config.Default().Server)
}

// FromConfig converts the file/environment server section.
func FromConfig(c config.ServerConfig) *Config {
	return &Config{
		Host:            c.Host,
		Port:            c.Port,
		TLSCert:         c.TLSCert,
		TLSKey:          c.TLSKey,
		CORSOrigins:     c.CORSOrigins,
		MaxConnections:  c.MaxConnections,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		IdleTimeout:     c.IdleTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// Address returns the full listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// TLSEnabled reports whether both TLS files are set.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
