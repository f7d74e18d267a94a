package commands

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/sqlidator/sqlidator/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Long: `Start an HTTP server exposing validation as JSON endpoints.

Endpoints:
  POST /v1/validate   {"query": "...", "dialect": "postgres"} -> validation envelope
  POST /v1/tokenize   {"query": "..."} -> tokens with positions
  POST /v1/report     {"query": "..."} -> rendered report (?format=txt|json|csv|yaml|md)
  GET  /v1/dialects   supported dialects
  GET  /healthz       liveness probe`,
		Example: `  sqlidator serve --addr :9090
  curl -s localhost:9090/v1/validate -H 'Content-Type: application/json' \
    -d '{"query": "SELECT * FROM users;"}'`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: :8080)")
	cmd.Flags().Duration("shutdown-timeout", 0, "Graceful shutdown deadline (default: 10s)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		Dialect:         cfg.Dialect,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Validator:       cmdCtx.Validator,
		Logger:          cmdCtx.Logger,
		OnListen: func(addr net.Addr) {
			cmdCtx.Renderer.Success(fmt.Sprintf("Listening on http://%s", addr))
			cmdCtx.Renderer.Muted("Press Ctrl+C to stop")
		},
	})

	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
