package commands

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"github.com/sqlidator/sqlidator/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Query string
	File  string
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Show the tokens of a query",
		Long: `Run only the lexer and print the resulting tokens with their positions.

Useful to see how keywords, identifiers and literals are recognized before
parsing. Lexical errors are reported in the selected dialect's style.`,
		Example: `  sqlidator tokens --query "SELECT name FROM users WHERE id = 1;"
  sqlidator tokens query.sql --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.File = args[0]
			}
			return runTokens(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "SQL text to tokenize")

	return cmd
}

func runTokens(cmd *cobra.Command, opts *TokensOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	var files []string
	if opts.File != "" {
		files = []string{opts.File}
	}
	sources, err := collectSources(cmd, opts.Query, files)
	if err != nil {
		return err
	}
	src := sources[0]
	if err := src.load(); err != nil {
		return err
	}

	tokens, err := parser.NewLexerWithDialect(src.Query, cmdCtx.Cfg.Dialect).Tokenize()
	if err != nil {
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) && r.EffectiveMode() == output.ModeJSON {
			_ = r.JSON(map[string]any{
				"status":  "error",
				"message": synErr.Error(),
				"line":    synErr.Pos().Line,
				"column":  synErr.Pos().Column,
			})
		}
		return err
	}

	renderTokens(r, tokens)
	return nil
}

func renderTokens(r *output.Renderer, tokens []token.Token) {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		_ = r.JSON(tokens)
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Lexeme", "Line", "Column"})
	for i, tok := range tokens {
		t.AppendRow(table.Row{i + 1, tok.Kind, tok.Lexeme, tok.Pos.Line, tok.Pos.Column})
	}

	if mode == output.ModeMarkdown {
		r.Println(t.RenderMarkdown())
	} else {
		r.Println(t.Render())
	}
	r.Println(fmt.Sprintf("(%s)", pluralize(len(tokens), "token")))
}
