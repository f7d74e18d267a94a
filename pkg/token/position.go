package token

import "fmt"

// Position is a location in the query text.
type Position struct {
	Line   int `json:"line" yaml:"line"`     // 1-based line number
	Column int `json:"column" yaml:"column"` // 1-based column, counted in characters
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
