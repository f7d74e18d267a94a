// Package cli provides the command-line interface for SQLidator.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sqlidator/sqlidator/internal/cli/commands"
	"github.com/sqlidator/sqlidator/internal/cli/config"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlidator",
		Short: "SQLidator - offline SQL syntax validator",
		Long: `SQLidator checks SQL syntax without connecting to a database.

It parses SELECT, INSERT, UPDATE, DELETE, CREATE, ALTER and DROP statements
and reports the first syntax error the way PostgreSQL, MySQL or PL/SQL would,
with the offending line and column.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			// Load configuration; cmd.Flags() includes inherited persistent flags
			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}} (commit %s, built %s)
Offline multi-dialect SQL syntax validator
`, GitCommit, BuildDate))

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlidator.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "SQL dialect: postgres, mysql, plsql (default: mysql)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("normalize", false, "Collapse whitespace before validating")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for dialect flag
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(commands.NewBuildInfo(Version, GitCommit, BuildDate)))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewTokensCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewLSPCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the CLI logger. Records go to w so they never mix with
// command output on stdout.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for SQLidator.

To load completions:

Bash:
  $ source <(sqlidator completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlidator completion bash > /etc/bash_completion.d/sqlidator
  # macOS:
  $ sqlidator completion bash > $(brew --prefix)/etc/bash_completion.d/sqlidator

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlidator completion zsh > "${fpath[1]}/_sqlidator"

Fish:
  $ sqlidator completion fish | source

  # To load completions for each session, execute once:
  $ sqlidator completion fish > ~/.config/fish/completions/sqlidator.fish

PowerShell:
  PS> sqlidator completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
