// Package validator is the single entry point for checking SQL text.
//
// Validate never panics and never returns a Go error: every outcome,
// including unexpected faults inside the parser, is folded into a Result.
package validator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sqlidator/sqlidator/pkg/dialect"
	"github.com/sqlidator/sqlidator/pkg/parser"
)

// Input validation messages.
const (
	MsgEmptyQuery         = "Query cannot be empty."
	MsgUnsupportedDialect = "Unsupported SQL dialect: %s"
)

// ErrEmptyQuery is the error form of MsgEmptyQuery for callers that reject
// input before validating.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Validator validates queries. The zero value is not usable; call New.
// A Validator is safe for concurrent use.
type Validator struct {
	logger    *slog.Logger
	normalize bool
	now       func() time.Time
	parse     func(query, dialectName string) ([]parser.Statement, error)
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for per-query debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithNormalize collapses whitespace before parsing. Line numbers in
// diagnostics then refer to the normalized text.
func WithNormalize(enabled bool) Option {
	return func(v *Validator) {
		v.normalize = enabled
	}
}

// WithClock overrides the clock used to time validations.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		parse:  parser.Parse,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = New()

// Validate validates query with a default Validator.
func Validate(query, dialectName string) *Result {
	return defaultValidator.Validate(query, dialectName)
}

// Validate lexes and parses query for the named dialect.
func (v *Validator) Validate(query, dialectName string) (res *Result) {
	start := v.now()
	name := strings.ToLower(strings.TrimSpace(dialectName))

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panicked", "dialect", name, "panic", r)
			res = failure(name, TypeInternalError, fmt.Sprint(r))
		}
		v.logger.Debug("validated query",
			"dialect", name,
			"status", res.Status,
			"type", res.Type,
			"statements", len(res.Statements),
			"duration", v.now().Sub(start),
		)
	}()

	if strings.TrimSpace(query) == "" {
		return failure("", TypeValidationError, MsgEmptyQuery)
	}

	if v.normalize {
		query = Normalize(query)
	}

	d, ok := dialect.Get(name)
	if !ok {
		return failure("", TypeValidationError, fmt.Sprintf(MsgUnsupportedDialect, name))
	}

	stmts, err := v.parse(query, d.Name)
	if err != nil {
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) {
			return syntaxFailure(d.Name, synErr)
		}
		return failure(d.Name, TypeInternalError, err.Error())
	}

	return success(d.Name, stmts)
}

// Normalize trims query and collapses every whitespace run to one space.
func Normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
