package commands

import (
	"github.com/sqlidator/sqlidator/internal/lsp"
	"github.com/sqlidator/sqlidator/pkg/validator"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server",
		Long: `Start a Language Server Protocol server on stdin/stdout.

Editors get syntax errors as diagnostics while typing, keyword completion
and keyword hover. The dialect comes from --dialect or the configuration,
and a client may override it with the "dialect" initialization option.

Logs go to stderr; use --verbose to see every message.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg, logger := cmdCtx.Cfg, cmdCtx.Logger

			srv := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
				Dialect: cfg.Dialect,
				// No normalization: diagnostics must point into the editor's text.
				Validator: validator.New(validator.WithLogger(logger)),
				Logger:    logger,
				Version:   version,
			})
			return srv.Run()
		},
	}
}
