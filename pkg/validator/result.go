package validator

import (
	"encoding/json"

	"github.com/sqlidator/sqlidator/pkg/parser"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error types reported in failed results.
const (
	TypeSyntaxError     = "SyntaxError"
	TypeInternalError   = "InternalError"
	TypeValidationError = "ValidationError"
)

// SuccessMessage is the message of every successful result.
const SuccessMessage = "Query parsed successfully."

// Result is the outcome of validating one query.
//
// Successful results carry the parsed statements. Failed results carry an
// error type and a message; for syntax errors the message is the
// dialect-flavoured diagnostic and Line/Column locate the offending token.
type Result struct {
	Status     string
	Dialect    string // empty when the dialect was never resolved
	Type       string
	Message    string
	Statements []parser.Statement
	Line       int
	Column     int

	// Err is the underlying syntax error, if any.
	Err *parser.SyntaxError
}

// OK reports whether the query parsed.
func (r *Result) OK() bool {
	return r.Status == StatusSuccess
}

type resultJSON struct {
	Status  string              `json:"status"`
	Dialect *string             `json:"dialect"`
	Type    string              `json:"type,omitempty"`
	Message string              `json:"message"`
	AST     *[]parser.Statement `json:"ast,omitempty"`
	Line    int                 `json:"line,omitempty"`
	Column  int                 `json:"column,omitempty"`
}

// MarshalJSON renders the envelope. The dialect is null when unresolved and
// "ast" is present only on success.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Status:  r.Status,
		Type:    r.Type,
		Message: r.Message,
		Line:    r.Line,
		Column:  r.Column,
	}
	if r.Dialect != "" {
		d := r.Dialect
		out.Dialect = &d
	}
	if r.OK() {
		stmts := r.Statements
		if stmts == nil {
			stmts = []parser.Statement{}
		}
		out.AST = &stmts
	}
	return json.Marshal(out)
}

func success(dialectName string, stmts []parser.Statement) *Result {
	return &Result{
		Status:     StatusSuccess,
		Dialect:    dialectName,
		Message:    SuccessMessage,
		Statements: stmts,
	}
}

func failure(dialectName, errType, message string) *Result {
	return &Result{
		Status:  StatusError,
		Dialect: dialectName,
		Type:    errType,
		Message: message,
	}
}

func syntaxFailure(dialectName string, err *parser.SyntaxError) *Result {
	r := failure(dialectName, TypeSyntaxError, err.Error())
	r.Err = err
	pos := err.Pos()
	r.Line, r.Column = pos.Line, pos.Column
	return r
}
