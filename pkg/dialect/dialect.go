// Package dialect describes the SQL dialect tags a query can be validated
// against.
//
// The accepted grammar is the same for every dialect. A dialect only selects
// how syntax errors are rendered: MySQL-flavoured dialects use the
// "ERROR 1064 (42000)" form, everything else uses the PostgreSQL three-line
// form with a caret under the offending column.
package dialect

import (
	"fmt"
	"strings"
)

// ErrorStyle selects the diagnostic layout for syntax errors.
type ErrorStyle int

const (
	// StylePostgres renders ERROR, LINE and caret lines.
	StylePostgres ErrorStyle = iota
	// StyleMySQL renders the single ERROR 1064 (42000) form.
	StyleMySQL
)

// String returns the string representation of ErrorStyle.
func (s ErrorStyle) String() string {
	switch s {
	case StylePostgres:
		return "postgres"
	case StyleMySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ErrorStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dialect is a registered dialect tag.
type Dialect struct {
	Name        string     `json:"name" yaml:"name"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Style       ErrorStyle `json:"error_style" yaml:"error_style"`
}

// IsMySQLStyle reports whether errors for this dialect use the MySQL layout.
func (d *Dialect) IsMySQLStyle() bool {
	return d != nil && d.Style == StyleMySQL
}

func (d *Dialect) String() string {
	return d.Name
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// The name is stored lower case; the display name defaults to the name.
func NewDialect(name string) *Builder {
	name = strings.ToLower(strings.TrimSpace(name))
	return &Builder{
		dialect: &Dialect{
			Name:        name,
			DisplayName: name,
			Style:       StylePostgres,
		},
	}
}

// DisplayName sets the human readable name used in reports.
func (b *Builder) DisplayName(display string) *Builder {
	b.dialect.DisplayName = display
	return b
}

// Describe sets a one-line description.
func (b *Builder) Describe(desc string) *Builder {
	b.dialect.Description = desc
	return b
}

// ErrorStyle sets the diagnostic layout.
func (b *Builder) ErrorStyle(style ErrorStyle) *Builder {
	b.dialect.Style = style
	return b
}

// Build returns the configured dialect.
func (b *Builder) Build() *Dialect {
	if b.dialect.Name == "" {
		panic(fmt.Sprintf("dialect: %v", ErrDialectRequired))
	}
	return b.dialect
}
