// Package config loads qsign settings from a YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, QSIGN_*
// environment variables, command-line flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/qsign/internal/logging"
	"github.com/remiblancher/qsign/pkg/codec"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// Config represents the YAML configuration for qsign.
type Config struct {
	Algorithm AlgorithmConfig `yaml:"algorithm"`

	// Encoding is the default output encoding: hex or base64.
	Encoding string `yaml:"encoding"`

	Log LogConfig `yaml:"log"`

	// AuditLog is the path of the hash-chained audit log. Empty disables it.
	AuditLog string `yaml:"audit_log"`

	Server ServerConfig `yaml:"server"`
}

// AlgorithmConfig holds the default AlgorithmSpec in textual form.
type AlgorithmConfig struct {
	Scheme         string `yaml:"scheme"`
	Hash           string `yaml:"hash"`
	ModulusLength  int    `yaml:"modulus_length"`
	PublicExponent int    `yaml:"public_exponent"`
}

// LogConfig holds technical logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`

	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`

	// MaxConnections caps simultaneous connections. Zero means no limit.
	MaxConnections int `yaml:"max_connections"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Environment variables read by ApplyEnv.
const (
	EnvScheme         = "QSIGN_SCHEME"
	EnvHash           = "QSIGN_HASH"
	EnvModulusLength  = "QSIGN_MODULUS_LENGTH"
	EnvPublicExponent = "QSIGN_PUBLIC_EXPONENT"
	EnvEncoding       = "QSIGN_ENCODING"
	EnvLogLevel       = "QSIGN_LOG_LEVEL"
	EnvLogFormat      = "QSIGN_LOG_FORMAT"
	EnvAuditLog       = "QSIGN_AUDIT_LOG"
	EnvHost           = "QSIGN_HOST"
	EnvPort           = "QSIGN_PORT"
	EnvMaxConnections = "QSIGN_MAX_CONNECTIONS"
)

// Default returns the built-in configuration.
func Default() *Config {
	spec := crypto.DefaultAlgorithmSpec()
	return &Config{
		Algorithm: AlgorithmConfig{
			Scheme:         string(spec.Scheme),
			Hash:           string(spec.Hash),
			ModulusLength:  spec.ModulusLength,
			PublicExponent: spec.PublicExponent,
		},
		Encoding: string(codec.DefaultEncoding),
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Server: ServerConfig{
			Port:            8443,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from QSIGN_* variables found by lookup
// (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", name, v)
		}
		*dst = n
		return nil
	}

	str(EnvScheme, &c.Algorithm.Scheme)
	str(EnvHash, &c.Algorithm.Hash)
	str(EnvEncoding, &c.Encoding)
	str(EnvLogLevel, &c.Log.Level)
	str(EnvLogFormat, &c.Log.Format)
	str(EnvAuditLog, &c.AuditLog)
	str(EnvHost, &c.Server.Host)
	if err := num(EnvModulusLength, &c.Algorithm.ModulusLength); err != nil {
		return err
	}
	if err := num(EnvPublicExponent, &c.Algorithm.PublicExponent); err != nil {
		return err
	}
	if err := num(EnvMaxConnections, &c.Server.MaxConnections); err != nil {
		return err
	}
	if err := num(EnvPort, &c.Server.Port); err != nil {
		return err
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := c.Spec(); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}
	if _, err := c.OutputEncoding(); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if f := c.Log.Format; f != "" && f != logging.FormatText && f != logging.FormatJSON {
		return fmt.Errorf("log.format: unsupported format %q (expected text or json)", f)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("server.max_connections: must not be negative, got %d", c.Server.MaxConnections)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
	}
	return nil
}

// Spec returns the configured default AlgorithmSpec.
func (c *Config) Spec() (crypto.AlgorithmSpec, error) {
	spec, err := crypto.ParseAlgorithmSpec(c.Algorithm.Scheme, c.Algorithm.Hash,
		c.Algorithm.ModulusLength, c.Algorithm.PublicExponent)
	if err != nil {
		return crypto.AlgorithmSpec{}, err
	}
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return crypto.AlgorithmSpec{}, err
	}
	return spec, nil
}

// OutputEncoding returns the configured default encoding.
func (c *Config) OutputEncoding() (codec.Encoding, error) {
	return codec.ParseEncoding(c.Encoding)
}
