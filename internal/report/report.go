// Package report renders validation results into downloadable reports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"github.com/sqlidator/sqlidator/pkg/validator"
)

// Format is a report output format.
type Format string

// Supported formats.
const (
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "md"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatYAML, FormatMarkdown}

// ParseFormat resolves a format name. "text", "yml" and "markdown" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown report format %q (want one of txt, json, csv, yaml, md)", name)
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Report is one rendered validation.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Query       string
	Result      *validator.Result
}

// Option configures a Report.
type Option func(*Report)

// WithClock sets the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Report) {
		r.GeneratedAt = now()
	}
}

// WithID sets the report identifier.
func WithID(id string) Option {
	return func(r *Report) {
		r.ID = id
	}
}

// New creates a report for query and its result.
func New(query string, result *validator.Result, opts ...Option) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Query:       query,
		Result:      result,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report in the given format.
func (r *Report) Render(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.renderText(w)
	case FormatJSON:
		return r.renderJSON(w)
	case FormatCSV:
		return r.renderCSV(w)
	case FormatYAML:
		return r.renderYAML(w)
	case FormatMarkdown:
		return r.renderMarkdown(w)
	}
	return fmt.Errorf("unknown report format %q", format)
}

// dialectLabel returns the display name of the result's dialect.
func (r *Report) dialectLabel() string {
	if r.Result.Dialect == "" {
		return "n/a"
	}
	if d, ok := dialect.Get(r.Result.Dialect); ok {
		return d.DisplayName
	}
	return r.Result.Dialect
}

// errorType is empty for successful results.
func (r *Report) errorType() string {
	if r.Result.OK() {
		return ""
	}
	return r.Result.Type
}

// astValue converts the statements to plain maps and slices so that
// encoders without knowledge of the node types emit the JSON shape.
func (r *Report) astValue() (any, error) {
	if !r.Result.OK() {
		return nil, nil
	}
	stmts := r.Result.Statements
	if stmts == nil {
		stmts = []parser.Statement{}
	}
	data, err := json.Marshal(stmts)
	if err != nil {
		return nil, fmt.Errorf("encode ast: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	return out, nil
}
