// Package parser turns SQL text into statement nodes, or into a single
// precisely located *SyntaxError.
//
// # Usage
//
//	stmts, err := parser.Parse("SELECT id FROM users;", "postgres")
//	if err != nil {
//	    fmt.Println(err) // ERROR:  syntax error at or near ...
//	}
//
// The dialect name only selects how errors render; the accepted grammar is
// the same for every dialect.
//
// # Grammar Overview
//
// The parser is a single-pass recursive descent parser without backtracking:
//
//	script     → ( statement ";" )*
//	statement  → select | insert | update | delete | create | alter | drop
//
// See parser_stmt.go, parser_ddl.go and parser_expr.go for the rules of each
// statement family.
package parser

import (
	"fmt"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// maxDepth bounds nested subqueries and parenthesized expressions.
const maxDepth = 256

// ErrTooDeep is reported when nesting exceeds maxDepth.
const ErrTooDeep = "nesting exceeds %d levels"

// cursor is the single read position over a token stream. The statement
// parser owns it and the expression parser borrows it.
type cursor struct {
	tokens []token.Token
	pos    int
}

// current returns the token under the cursor. Past the end of the stream
// it returns an EOF token positioned after the last token.
func (c *cursor) current() token.Token {
	if c.pos < len(c.tokens) {
		return c.tokens[c.pos]
	}
	if n := len(c.tokens); n > 0 {
		last := c.tokens[n-1]
		return token.New(token.EOF, "", last.Pos.Line, last.Pos.Column)
	}
	return token.New(token.EOF, "", 1, 1)
}

func (c *cursor) advance() {
	if c.pos < len(c.tokens) {
		c.pos++
	}
}

// Parser parses a token stream into statements.
type Parser struct {
	cur     *cursor
	query   string
	dialect string
	depth   int
}

// New creates a parser over tokens. query and dialectName are only used to
// render errors.
func New(tokens []token.Token, query, dialectName string) *Parser {
	return &Parser{
		cur:     &cursor{tokens: tokens},
		query:   query,
		dialect: dialectName,
	}
}

// Parse lexes and parses query. Errors are *SyntaxError values rendered for
// dialectName.
func Parse(query, dialectName string) ([]Statement, error) {
	tokens, err := NewLexerWithDialect(query, dialectName).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens, query, dialectName).Parse()
}

// Parse consumes the whole stream. Every statement must be terminated by a
// semicolon. On the first fault it returns nil and the error.
func (p *Parser) Parse() ([]Statement, error) {
	stmts := make([]Statement, 0, 1)

	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if !p.check(token.SEMICOLON) {
			return nil, p.errorAtCurrent()
		}
		p.advance()
	}

	return stmts, nil
}

// parseStatement dispatches on the leading keyword.
func (p *Parser) parseStatement() (Statement, error) {
	tok := p.token()
	if tok.Kind != token.KEYWORD {
		return nil, p.errorAtCurrent()
	}

	switch tok.Lexeme {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "CREATE":
		return p.parseCreate()
	case "ALTER":
		return p.parseAlter()
	case "DROP":
		return p.parseDrop()
	}
	return nil, p.errorAtCurrent()
}

// ---------- Token Helpers ----------

func (p *Parser) token() token.Token {
	return p.cur.current()
}

func (p *Parser) advance() {
	p.cur.advance()
}

// check returns true if the current token is of the given kind.
func (p *Parser) check(kind token.Kind) bool {
	return p.token().Kind == kind
}

// checkKeyword returns true if the current token is the given keyword.
func (p *Parser) checkKeyword(word string) bool {
	return p.token().IsKeyword(word)
}

// matchKeyword consumes the current token if it is the given keyword.
func (p *Parser) matchKeyword(word string) bool {
	if p.checkKeyword(word) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind or fails at the current token.
func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.token()
	if tok.Kind != kind {
		return tok, p.errorAtCurrent()
	}
	p.advance()
	return tok, nil
}

// expectKeyword consumes the given keyword or fails at the current token.
func (p *Parser) expectKeyword(word string) error {
	if !p.matchKeyword(word) {
		return p.errorAtCurrent()
	}
	return nil
}

// expectIdentifier consumes a bare or quoted identifier and returns its name.
func (p *Parser) expectIdentifier() (string, error) {
	tok := p.token()
	if !tok.IsIdentifier() {
		return "", p.errorAtCurrent()
	}
	p.advance()
	return tok.Lexeme, nil
}

// parseIdentifierList parses ident ("," ident)*.
func (p *Parser) parseIdentifierList() ([]string, error) {
	var names []string
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		names = append(names, name)

		if !p.check(token.COMMA) {
			return names, nil
		}
		p.advance()
	}
}

// enter tracks recursion into nested constructs. Callers must call leave
// when enter succeeds.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		tok := p.token()
		return p.newError(fmt.Sprintf(ErrTooDeep, maxDepth), &tok)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// ---------- Errors ----------

// errorAtCurrent reports an unexpected current token.
func (p *Parser) errorAtCurrent() *SyntaxError {
	tok := p.token()
	if tok.Kind == token.EOF {
		return p.newError(ErrSyntaxAtEOF, &tok)
	}
	return p.newError(fmt.Sprintf(ErrSyntaxNear, tok.Lexeme), &tok)
}

func (p *Parser) newError(msg string, tok *token.Token) *SyntaxError {
	return NewSyntaxError(msg, tok, p.query, p.dialect)
}
