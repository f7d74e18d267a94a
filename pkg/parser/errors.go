package parser

import (
	"strconv"
	"strings"

	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/token"
)

// Common error messages
const (
	ErrInvalidCharacter        = "Invalid character '%c'"
	ErrInvalidNumber           = "Invalid number format"
	ErrUnterminatedString      = "Unterminated string literal"
	ErrUnterminatedQuotedIdent = "Unterminated quoted identifier"
	ErrUnterminatedComment     = "Unterminated multi-line comment"

	ErrSyntaxNear  = `syntax error at or near "%s"`
	ErrSyntaxAtEOF = "syntax error at end of input"
)

// Stage tells which pass rejected the query.
type Stage int

// Stages.
const (
	StageSyntax Stage = iota
	StageLexical
)

func (s Stage) String() string {
	if s == StageLexical {
		return "lexical"
	}
	return "syntax"
}

// SyntaxError is the single error kind reported for malformed queries,
// whether the lexer or the parser found the fault.
//
// Error renders the message the way the selected dialect's engine would.
// The rendering is byte-stable for a given message, token, query and
// dialect.
type SyntaxError struct {
	Message string
	Token   *token.Token // offending token; nil when no location is known
	Query   string
	Dialect string
	Stage   Stage
}

// NewSyntaxError creates a syntax error. tok and query may be empty, in
// which case the error renders without location.
func NewSyntaxError(message string, tok *token.Token, query, dialectName string) *SyntaxError {
	return &SyntaxError{
		Message: message,
		Token:   tok,
		Query:   query,
		Dialect: dialectName,
	}
}

func (e *SyntaxError) Error() string {
	if e.Token == nil || e.Query == "" {
		return "ERROR: " + e.Message
	}
	if dialect.IsMySQLStyle(e.Dialect) {
		return e.mysqlFormat()
	}
	return e.postgresFormat()
}

// WithDialect returns a copy of e rendered for another dialect.
func (e *SyntaxError) WithDialect(dialectName string) *SyntaxError {
	cp := *e
	cp.Dialect = dialectName
	return &cp
}

// Pos returns the offending position, or the zero Position.
func (e *SyntaxError) Pos() token.Position {
	if e.Token == nil {
		return token.Position{}
	}
	return e.Token.Pos
}

// Lexeme returns the offending text.
func (e *SyntaxError) Lexeme() string {
	if e.Token == nil {
		return ""
	}
	return e.Token.Lexeme
}

// postgresFormat renders
//
//	ERROR:  <message>
//	LINE <n>: <source line>
//	<padding>^
//
// The padding is 6 + digits(n) spaces plus column-1 spaces.
func (e *SyntaxError) postgresFormat() string {
	line, col := e.Token.Pos.Line, e.Token.Pos.Column

	var source string
	lines := strings.Split(e.Query, "\n")
	if line >= 1 && line <= len(lines) {
		source = strings.TrimSuffix(lines[line-1], "\r")
	}

	var b strings.Builder
	b.WriteString("ERROR:  ")
	b.WriteString(e.Message)
	b.WriteString("\nLINE ")
	b.WriteString(strconv.Itoa(line))
	b.WriteString(": ")
	b.WriteString(source)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", 6+len(strconv.Itoa(line))+max(col-1, 0)))
	b.WriteByte('^')
	return b.String()
}

func (e *SyntaxError) mysqlFormat() string {
	return "ERROR 1064 (42000): You have an error in your SQL syntax;\n" +
		"near '" + e.Token.Lexeme + "' at line " + strconv.Itoa(e.Token.Pos.Line)
}
