package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/validator"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrValidationFailed is returned when at least one query did not validate.
// The CLI exits with status 1.
var ErrValidationFailed = errors.New("validation failed")

// watchDebounce groups bursts of editor writes into one re-validation.
const watchDebounce = 150 * time.Millisecond

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Query string   // Inline query text
	Files []string // Files given with --file or as arguments
	Watch bool     // Re-validate files when they change
}

// fileResult pairs a source with its validation outcome.
type fileResult struct {
	Source string            `json:"source"`
	Query  string            `json:"-"`
	Result *validator.Result `json:"result"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate SQL syntax",
		Long: `Check SQL text for syntax errors without a database.

Queries come from --query, from files, or from stdin when neither is given.
Each query may hold several statements, each terminated by a semicolon.
Errors are reported the way the selected dialect's engine would report them.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: The validation envelope

Exits with status 1 when any query fails to validate.`,
		Example: `  # Validate an inline query
  sqlidator validate --query "SELECT * FROM users;"

  # Validate files with PostgreSQL style errors
  sqlidator validate --dialect postgres queries/*.sql

  # Pipe SQL in and write a JSON report
  cat query.sql | sqlidator validate --report json

  # Re-validate on every save
  sqlidator validate --watch schema.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = append(opts.Files, args...)
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "SQL text to validate")
	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "SQL file to validate (repeatable)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate files when they change")
	cmd.Flags().StringP("report", "r", "", "Write a report: txt, json, csv, yaml, md")
	cmd.Flags().String("report-output", "", "Report filename without extension (default: sqlidator_report)")
	cmd.Flags().IntP("concurrency", "j", 0, "Files validated in parallel (default: 4)")

	_ = cmd.RegisterFlagCompletionFunc("report", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(report.Formats))
		for i, f := range report.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)

	sources, err := collectSources(cmd, opts.Query, opts.Files)
	if err != nil {
		return err
	}

	results, err := validateSources(cmd.Context(), cmdCtx, sources)
	if err != nil {
		return err
	}

	failed := renderValidation(cmdCtx.Renderer, results)

	if cmdCtx.Cfg.Report.Enabled() {
		if err := writeReports(cmdCtx, results); err != nil {
			return err
		}
	}

	if opts.Watch {
		return watchAndValidate(cmd, cmdCtx, sources)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrValidationFailed, failed, len(results))
	}
	return nil
}

// validateSources reads and validates every source, at most
// cfg.Concurrency at a time. Results keep the order of sources.
func validateSources(ctx context.Context, cmdCtx *CommandContext, sources []source) ([]fileResult, error) {
	results := make([]fileResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmdCtx.Cfg.Concurrency, 1))

	for i := range sources {
		src := sources[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := src.load(); err != nil {
				return err
			}
			results[i] = fileResult{
				Source: src.Name,
				Query:  src.Query,
				Result: cmdCtx.Validator.Validate(src.Query, cmdCtx.Cfg.Dialect),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeReports writes one report per result. A single result uses the
// configured filename as is; several get a numeric suffix.
func writeReports(cmdCtx *CommandContext, results []fileResult) error {
	rc := cmdCtx.Cfg.Report
	for i, res := range results {
		path := rc.Path()
		if len(results) > 1 {
			path = fmt.Sprintf("%s_%d%s", rc.Output, i+1, rc.Format.Extension())
		}
		if err := writeReport(path, rc.Format, res); err != nil {
			return err
		}
		cmdCtx.Logger.Debug("report written", "path", path, "format", rc.Format)
		cmdCtx.Renderer.Muted(fmt.Sprintf("Report saved to %s", path))
	}
	return nil
}

func writeReport(path string, format report.Format, res fileResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	rep := report.New(res.Query, res.Result)
	if err := rep.Render(f, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

// watchAndValidate re-validates file sources whenever they change, until
// the command context is cancelled.
func watchAndValidate(cmd *cobra.Command, cmdCtx *CommandContext, sources []source) error {
	var paths []string
	for _, src := range sources {
		if src.Path != "" {
			paths = append(paths, src.Path)
		}
	}
	if len(paths) == 0 {
		return errors.New("--watch needs at least one file")
	}

	r := cmdCtx.Renderer
	r.Println("")
	r.Muted(fmt.Sprintf("Watching %s for changes. Press Ctrl+C to stop.", pluralize(len(paths), "file")))

	return watchFiles(cmd.Context(), cmdCtx.Logger, paths, watchDebounce, func(changed []string) {
		var changedSources []source
		for _, p := range changed {
			changedSources = append(changedSources, source{Name: p, Path: p})
		}
		results, err := validateSources(cmd.Context(), cmdCtx, changedSources)
		if err != nil {
			r.Error(err.Error())
			return
		}
		r.Println("")
		renderValidation(r, results)
	})
}
