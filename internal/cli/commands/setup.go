package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sqlidator/sqlidator/internal/cli/config"
	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/pkg/validator"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNoInput is returned when a command has nothing to read.
var ErrNoInput = errors.New("no query given: pass --query, a file, or pipe SQL on stdin")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Renderer  *output.Renderer
	Validator *validator.Validator
}

// NewCommandContext builds the dependencies for cmd from its context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Validator: validator.New(
			validator.WithLogger(logger),
			validator.WithNormalize(cfg.Normalize),
		),
	}
}

// Helper functions shared across commands

// source is one query to process, named for display.
type source struct {
	Name  string
	Path  string // empty unless read from a file
	Query string
}

// collectSources gathers queries from --query, file arguments and, when
// neither is given, a non-terminal stdin. Files are read later so callers
// can read them concurrently.
func collectSources(cmd *cobra.Command, query string, files []string) ([]source, error) {
	var sources []source
	if query != "" {
		sources = append(sources, source{Name: "query", Query: query})
	}
	for _, f := range files {
		sources = append(sources, source{Name: f, Path: f})
	}
	if len(sources) > 0 {
		return sources, nil
	}

	in := cmd.InOrStdin()
	if isTerminalReader(in) {
		return nil, ErrNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNoInput
	}
	return []source{{Name: "stdin", Query: string(data)}}, nil
}

// load reads the query from disk for file sources.
func (s *source) load() error {
	if s.Path == "" {
		return nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	s.Query = string(data)
	return nil
}

// isTerminalReader reports whether r is an interactive terminal.
func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	}
	return fmt.Sprintf("%d %ss", n, word)
}
