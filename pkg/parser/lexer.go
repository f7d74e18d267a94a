package parser

import (
	"fmt"
	"unicode"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// Lexer converts query text into tokens.
//
// The scan works on runes so that columns count characters, not bytes.
type Lexer struct {
	query   string
	input   []rune
	pos     int // index of the current rune
	line    int // current line number (1-based)
	col     int // current column number (1-based)
	dialect string
	tokens  []token.Token
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(query string) *Lexer {
	return &Lexer{
		query: query,
		input: []rune(query),
		line:  1,
		col:   1,
	}
}

// NewLexerWithDialect creates a Lexer whose errors render in the style of
// the named dialect.
func NewLexerWithDialect(query, dialectName string) *Lexer {
	l := NewLexer(query)
	l.dialect = dialectName
	return l
}

// Tokenize lexes query. Errors render in PostgreSQL style.
func Tokenize(query string) ([]token.Token, error) {
	return NewLexer(query).Tokenize()
}

// Tokenize scans the whole input. The returned slice always ends with a
// single EOF token. The first malformed literal, comment or character
// aborts the scan with a *SyntaxError.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	l.tokens = l.tokens[:0]

	for !l.atEnd() {
		ch := l.ch()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case ch == '\n':
			l.advanceLine()
		case ch == ',':
			l.single(token.COMMA)
		case ch == ';':
			l.single(token.SEMICOLON)
		case ch == '(':
			l.single(token.PAREN_OPEN)
		case ch == ')':
			l.single(token.PAREN_CLOSE)
		case ch == '.':
			l.single(token.DOT)
		case ch == '*':
			l.single(token.ASTERISK)
		case ch == '=' || ch == '<' || ch == '>' || ch == '!':
			l.readOperator()
		case unicode.IsDigit(ch):
			if err := l.readNumber(); err != nil {
				return nil, err
			}
		case ch == '\'':
			if err := l.readQuoted('\'', token.STRING, ErrUnterminatedString); err != nil {
				return nil, err
			}
		case ch == '"':
			if err := l.readQuoted('"', token.QUOTED_IDENTIFIER, ErrUnterminatedQuotedIdent); err != nil {
				return nil, err
			}
		case unicode.IsLetter(ch) || ch == '_':
			l.readWord()
		case ch == '-' && l.peek() == '-':
			l.skipLineComment()
		case ch == '/' && l.peek() == '*':
			if err := l.skipBlockComment(); err != nil {
				return nil, err
			}
		default:
			return nil, l.errorAt(fmt.Sprintf(ErrInvalidCharacter, ch), string(ch), l.line, l.col)
		}
	}

	l.tokens = append(l.tokens, token.New(token.EOF, "", l.line, l.col))
	return l.tokens, nil
}

// ---------- Cursor helpers ----------

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// ch returns the current rune. Only valid when !atEnd().
func (l *Lexer) ch() rune {
	return l.input[l.pos]
}

// peek returns the rune after the current one, or 0 past the end.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) advance() {
	l.pos++
	l.col++
}

func (l *Lexer) advanceLine() {
	l.pos++
	l.line++
	l.col = 1
}

// step advances over the current rune, keeping line tracking correct when
// it is a newline embedded in a literal or comment.
func (l *Lexer) step() {
	if l.ch() == '\n' {
		l.advanceLine()
		return
	}
	l.advance()
}

func (l *Lexer) single(kind token.Kind) {
	l.tokens = append(l.tokens, token.New(kind, string(l.ch()), l.line, l.col))
	l.advance()
}

// ---------- Token readers ----------

func (l *Lexer) readOperator() {
	line, col := l.line, l.col
	op := string(l.ch())
	switch two := op + string(l.peek()); two {
	case "<=", ">=", "<>", "!=":
		op = two
		l.advance()
	}
	l.advance()
	l.tokens = append(l.tokens, token.New(token.OPERATOR, op, line, col))
}

// readNumber reads digits with at most one decimal point.
func (l *Lexer) readNumber() error {
	line, col := l.line, l.col
	start := l.pos
	dots := 0

	for !l.atEnd() && (unicode.IsDigit(l.ch()) || l.ch() == '.') {
		if l.ch() == '.' {
			dots++
			if dots > 1 {
				return l.errorAt(ErrInvalidNumber, ".", l.line, l.col)
			}
		}
		l.advance()
	}

	l.tokens = append(l.tokens, token.New(token.NUMBER, string(l.input[start:l.pos]), line, col))
	return nil
}

// readQuoted reads a literal delimited by quote. The lexeme is the text
// between the delimiters; there is no escape syntax.
func (l *Lexer) readQuoted(quote rune, kind token.Kind, unterminated string) error {
	line, col := l.line, l.col
	open := l.pos
	l.advance()
	start := l.pos

	for !l.atEnd() {
		if l.ch() == quote {
			value := string(l.input[start:l.pos])
			l.advance()
			l.tokens = append(l.tokens, token.New(kind, value, line, col))
			return nil
		}
		l.step()
	}

	return l.errorAt(unterminated, string(l.input[open:]), line, col)
}

func (l *Lexer) readWord() {
	line, col := l.line, l.col
	start := l.pos
	for !l.atEnd() && (unicode.IsLetter(l.ch()) || unicode.IsDigit(l.ch()) || l.ch() == '_') {
		l.advance()
	}

	word := string(l.input[start:l.pos])
	if kw, ok := token.LookupKeyword(word); ok {
		l.tokens = append(l.tokens, token.New(token.KEYWORD, kw, line, col))
		return
	}
	l.tokens = append(l.tokens, token.New(token.IDENTIFIER, word, line, col))
}

// ---------- Comments ----------

// skipLineComment stops at the newline so the main loop counts it.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.ch() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() error {
	line, col := l.line, l.col
	open := l.pos
	l.advance() // skip /
	l.advance() // skip *

	for !l.atEnd() {
		if l.ch() == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.step()
	}

	return l.errorAt(ErrUnterminatedComment, string(l.input[open:]), line, col)
}

func (l *Lexer) errorAt(msg, lexeme string, line, col int) *SyntaxError {
	tok := token.New(token.ILLEGAL, lexeme, line, col)
	err := NewSyntaxError(msg, &tok, l.query, l.dialect)
	err.Stage = StageLexical
	return err
}
