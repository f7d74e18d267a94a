package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type metadata struct {
	ReportID    string `json:"report_id" yaml:"report_id"`
	GeneratedOn string `json:"generated_on" yaml:"generated_on"`
	Dialect     string `json:"dialect" yaml:"dialect"`
	Status      string `json:"status" yaml:"status"`
}

type validation struct {
	Message   string `json:"message" yaml:"message"`
	ErrorType string `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Line      int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column    int    `json:"column,omitempty" yaml:"column,omitempty"`
}

type document struct {
	Metadata   metadata   `json:"metadata" yaml:"metadata"`
	Query      string     `json:"query" yaml:"query"`
	Validation validation `json:"validation" yaml:"validation"`
	AST        any        `json:"ast,omitempty" yaml:"ast,omitempty"`
}

func (r *Report) document() (*document, error) {
	ast, err := r.astValue()
	if err != nil {
		return nil, err
	}
	return &document{
		Metadata: metadata{
			ReportID:    r.ID,
			GeneratedOn: r.GeneratedAt.Format(time.RFC3339),
			Dialect:     r.Result.Dialect,
			Status:      r.Result.Status,
		},
		Query: r.Query,
		Validation: validation{
			Message:   r.Result.Message,
			ErrorType: r.errorType(),
			Line:      r.Result.Line,
			Column:    r.Result.Column,
		},
		AST: ast,
	}, nil
}

func (r *Report) renderJSON(w io.Writer) error {
	doc, err := r.document()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

func (r *Report) renderYAML(w io.Writer) error {
	doc, err := r.document()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	return enc.Close()
}

var csvHeader = []string{
	"report_id",
	"generated_on",
	"dialect",
	"status",
	"error_type",
	"message",
	"line",
	"column",
	"original_query",
}

func (r *Report) renderCSV(w io.Writer) error {
	res := r.Result
	cw := csv.NewWriter(w)

	row := []string{
		r.ID,
		r.GeneratedAt.Format(time.RFC3339),
		res.Dialect,
		res.Status,
		r.errorType(),
		res.Message,
		itoaOrEmpty(res.Line),
		itoaOrEmpty(res.Column),
		strings.ReplaceAll(r.Query, "\n", " "),
	}

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
