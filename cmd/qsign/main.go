// Command qsign is the CLI for RSA key generation, signing, verification and
// digests.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/internal/config"
	"github.com/remiblancher/qsign/internal/logging"
	"github.com/remiblancher/qsign/pkg/audit"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	configPath   string
	auditLogPath string
	logLevel     string
	logFormat    string
)

// appConfig is the effective configuration, set by PersistentPreRunE.
var appConfig = config.Default()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// verify has already printed "invalid".
		if !errors.Is(err, errSignatureInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		_ = audit.Close()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qsign",
	Short: "qsign - RSA signing and digest toolkit",
	Long: `qsign generates RSA key pairs, signs and verifies text, and computes
message digests. Keys are exchanged as PEM text (PKCS#8 "PRIVATE KEY" and
SPKI "PUBLIC KEY"); signatures and digests are hex (default) or base64.

Signature schemes: RSASSA-PKCS1-v1_5 (default), RSA-PSS
Signature hashes:  SHA-1, SHA-256 (default), SHA-384, SHA-512
Digest-only:       SHA-512/256, SHA3-256/384/512, BLAKE2b-256/512

Configuration is read from --config (YAML), then QSIGN_* environment
variables, then flags.

Examples:
  # Generate a 2048-bit key pair
  qsign key gen --modulus 2048 --out-private key.pem --out-public key.pub

  # Sign and verify
  qsign sign --key key.pem --text "attack at dawn" > sig.hex
  qsign verify --key key.pub --signature "$(cat sig.hex)" --text "attack at dawn"

  # Digest a file with several algorithms
  qsign digest --algorithm sha256,sha3-256 --in file.bin

  # Start the HTTP API
  qsign serve --port 8443`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg

		logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		logging.Set(logger)

		// Initialize audit logging; an empty path installs the no-op writer.
		if err := audit.InitFile(cfg.AuditLog); err != nil {
			return fmt.Errorf("failed to initialize audit log: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Close audit log
		return audit.Close()
	},
}

func init() {
	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to YAML configuration file")
	flags.StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set "+config.EnvAuditLog+" env var)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(hexCmd)
	rootCmd.AddCommand(randCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(auditCmd)
}

// loadConfig layers the config file, the environment and the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if auditLogPath != "" {
		cfg.AuditLog = auditLogPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newService builds a Service from the effective configuration.
func newService(opts ...crypto.Option) (*crypto.Service, error) {
	spec, err := appConfig.Spec()
	if err != nil {
		return nil, err
	}
	enc, err := appConfig.OutputEncoding()
	if err != nil {
		return nil, err
	}

	base := []crypto.Option{
		crypto.WithDefaults(spec, enc),
		crypto.WithLogger(logging.Get()),
		crypto.WithAudit(audit.Default()),
	}
	return crypto.NewService(append(base, opts...)...), nil
}
