// Package token defines the lexical tokens produced by the SQL lexer.
package token

import (
	"fmt"
	"slices"
	"strings"
)

// Kind classifies a lexical token.
type Kind int

// Kind names mirror the ones shown in token listings and diagnostics.
//
//nolint:revive // ALL_CAPS kept for parity with the rendered names
const (
	EOF Kind = iota
	KEYWORD
	IDENTIFIER
	QUOTED_IDENTIFIER
	STRING
	NUMBER
	OPERATOR
	COMMA
	SEMICOLON
	PAREN_OPEN
	PAREN_CLOSE
	DOT
	ASTERISK

	// ILLEGAL marks the offending text of a lexical error. It never appears
	// in a token stream.
	ILLEGAL
)

var kindNames = map[Kind]string{
	EOF:               "EOF",
	KEYWORD:           "KEYWORD",
	IDENTIFIER:        "IDENTIFIER",
	QUOTED_IDENTIFIER: "QUOTED_IDENTIFIER",
	STRING:            "STRING",
	NUMBER:            "NUMBER",
	OPERATOR:          "OPERATOR",
	COMMA:             "COMMA",
	SEMICOLON:         "SEMICOLON",
	PAREN_OPEN:        "PAREN_OPEN",
	PAREN_CLOSE:       "PAREN_CLOSE",
	DOT:               "DOT",
	ASTERISK:          "ASTERISK",
	ILLEGAL:           "ILLEGAL",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// MarshalText encodes the kind by name so JSON and YAML output stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown token kind %q", text)
}

// Token is a single lexeme with the position of its first character.
type Token struct {
	Kind   Kind     `json:"kind" yaml:"kind"`
	Lexeme string   `json:"lexeme" yaml:"lexeme"`
	Pos    Position `json:"pos" yaml:"pos"`
}

// New creates a token at the given line and column.
func New(kind Kind, lexeme string, line, column int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Pos: Position{Line: line, Column: column}}
}

// IsKeyword reports whether t is the given reserved word.
// The comparison is exact; keyword lexemes are always upper case.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == KEYWORD && t.Lexeme == word
}

// IsIdentifier reports whether t names something, bare or quoted.
func (t Token) IsIdentifier() bool {
	return t.Kind == IDENTIFIER || t.Kind == QUOTED_IDENTIFIER
}

func (t Token) String() string {
	if t.Kind == EOF {
		return fmt.Sprintf("EOF@%s", t.Pos)
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Pos)
}

// keywords is the reserved word set, stored upper case.
var keywords = map[string]struct{}{
	"SELECT": {}, "FROM": {}, "WHERE": {}, "GROUP": {}, "BY": {},
	"HAVING": {}, "ORDER": {}, "LIMIT": {},
	"JOIN": {}, "INNER": {}, "LEFT": {}, "RIGHT": {}, "FULL": {}, "OUTER": {}, "ON": {},
	"AS": {}, "AND": {}, "OR": {}, "NOT": {}, "IN": {}, "EXISTS": {}, "IS": {}, "NULL": {},
	"INSERT": {}, "INTO": {}, "VALUES": {},
	"DELETE": {},
	"UPDATE": {}, "SET": {},
	"CREATE": {}, "TABLE": {}, "PRIMARY": {}, "KEY": {}, "UNIQUE": {},
	"ALTER": {}, "ADD": {}, "COLUMN": {}, "DROP": {}, "RENAME": {}, "TO": {},
	"VIEW": {},
}

// LookupKeyword returns the canonical upper-case form of word and true
// if word is reserved, ignoring case.
func LookupKeyword(word string) (string, bool) {
	upper := strings.ToUpper(word)
	_, ok := keywords[upper]
	return upper, ok
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
