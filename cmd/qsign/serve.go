package main

import (
	"github.com/spf13/cobra"

	"github.com/remiblancher/qsign/internal/api/router"
	"github.com/remiblancher/qsign/internal/api/server"
	"github.com/remiblancher/qsign/internal/config"
	"github.com/remiblancher/qsign/internal/logging"
	"github.com/remiblancher/qsign/internal/metrics"
	"github.com/remiblancher/qsign/pkg/audit"
	"github.com/remiblancher/qsign/pkg/crypto"
)

// Serve command flags
var (
	serveHost        string
	servePort        int
	serveTLSCert     string
	serveTLSKey      string
	serveCORSOrigins []string
	serveMaxConns    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API.

Endpoints:
  GET  /health, /ready, /metrics
  POST /api/v1/keys/generate, /api/v1/keys/info
  POST /api/v1/sign, /api/v1/verify, /api/v1/digest

Environment variables:
  ` + config.EnvHost + `   Host to bind to
  ` + config.EnvPort + `   Listen port

Examples:
  qsign serve --port 8080
  qsign serve --port 8443 --tls-cert server.crt --tls-key server.key`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: 8443)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "Allowed CORS origin (repeatable; default: any)")
	serveCmd.Flags().IntVar(&serveMaxConns, "max-connections", 0, "Maximum simultaneous connections (default: unlimited)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.FromConfig(appConfig.Server)
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveTLSCert != "" || serveTLSKey != "" {
		cfg.TLSCert, cfg.TLSKey = serveTLSCert, serveTLSKey
	}
	if len(serveCORSOrigins) > 0 {
		cfg.CORSOrigins = serveCORSOrigins
	}
	if serveMaxConns > 0 {
		cfg.MaxConnections = serveMaxConns
	}

	m := metrics.New(true)
	svc, err := newService(
		crypto.WithObserver(m),
		crypto.WithActor(audit.Actor{Type: "service", ID: "qsign-api"}),
	)
	if err != nil {
		return err
	}

	logger := logging.Get()
	handler := router.New(&router.Config{
		Version:     version,
		Service:     svc,
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	return server.New(cfg, version, handler, logger, cmd.OutOrStdout()).Run(cmd.Context())
}
