package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"github.com/spf13/cobra"
)

const continuationPrompt = "    ...> "

// lineReader is the part of readline the REPL loop needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// scanReader reads lines from a non-terminal input such as a pipe.
type scanReader struct {
	sc *bufio.Scanner
}

func (s *scanReader) Readline() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scanReader) SetPrompt(string) {}

// replSession holds the state of one REPL run.
type replSession struct {
	cmdCtx  *CommandContext
	dialect string
	out     io.Writer
	errOut  io.Writer
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Validate queries interactively",
		Long: `Start an interactive session that validates each query as you type it.

Statements may span several lines and are submitted once a line ends with
a semicolon. Dot-commands change the session:

  .dialect [name]  Show or switch the dialect
  .dialects        List supported dialects
  .tokens <sql>    Show the tokens of a query
  .help            Show help
  .quit / .exit    Leave the session`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	s := &replSession{
		cmdCtx:  cmdCtx,
		dialect: cmdCtx.Cfg.Dialect,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}

	in := cmd.InOrStdin()
	if !isTerminalReader(in) {
		// Piped input: no line editing or prompts.
		return s.loop(&scanReader{sc: bufio.NewScanner(in)})
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     historyFile(),
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(s.out, "SQLidator REPL. Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	return s.loop(rl)
}

func (s *replSession) prompt() string {
	return fmt.Sprintf("sqlidator(%s)> ", s.dialect)
}

func (s *replSession) loop(rl lineReader) error {
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(s.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			// Submit whatever is left, unterminated statements included.
			if strings.TrimSpace(buf.String()) != "" {
				s.validate(buf.String())
			}
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && buf.Len() == 0 {
			continue
		}

		// Handle dot-commands
		if buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := s.handleDotCommand(trimmed); quit {
				return nil
			}
			rl.SetPrompt(s.prompt())
			continue
		}

		// Accumulate multi-line SQL until semicolon
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			rl.SetPrompt(continuationPrompt)
			continue
		}
		rl.SetPrompt(s.prompt())

		s.validate(buf.String())
		buf.Reset()
	}
}

func (s *replSession) validate(query string) {
	res := s.cmdCtx.Validator.Validate(query, s.dialect)
	r := s.renderer()
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(res)
		return
	}
	if res.OK() {
		r.Success(fmt.Sprintf("%s (%s)", res.Message, pluralize(len(res.Statements), "statement")))
		for _, stmt := range res.Statements {
			r.Muted("  " + parser.Summary(stmt))
		}
	} else {
		r.Println(res.Message)
	}
	r.Println("")
}

// renderer returns a renderer for the session's output. Auto mode is
// resolved as text so prompts and results read the same on every input.
func (s *replSession) renderer() *output.Renderer {
	mode := output.Mode(s.cmdCtx.Cfg.Output)
	if mode == output.ModeAuto {
		mode = output.ModeText
	}
	return output.NewRenderer(s.out, s.errOut, mode)
}

// handleDotCommand runs a dot-command. It reports whether the session
// should end.
func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".dialect":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "Current dialect: %s\n", s.dialect)
			return false
		}
		d, err := dialect.Lookup(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		s.dialect = d.Name
		_, _ = fmt.Fprintf(s.out, "Dialect set to %s\n", d.DisplayName)

	case ".dialects":
		_ = renderDialects(s.renderer(), s.dialect)

	case ".tokens":
		query := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		if query == "" {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .tokens <sql>")
			return false
		}
		tokens, err := parser.NewLexerWithDialect(query, s.dialect).Tokenize()
		if err != nil {
			_, _ = fmt.Fprintln(s.out, err.Error())
			return false
		}
		renderTokens(s.renderer(), tokens)

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .dialect [name]  Show or switch the dialect
  .dialects        List supported dialects
  .tokens <sql>    Show the tokens of a query
  .quit / .exit    Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completes dot-commands and dialect names
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the REPL history path, or "" to disable history.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlidator_history")
}

// newReplCompleter completes dot-commands and dialect names.
func newReplCompleter() *readline.PrefixCompleter {
	var dialects []readline.PrefixCompleterInterface
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".dialects"),
		readline.PcItem(".tokens"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
