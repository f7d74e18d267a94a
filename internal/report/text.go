package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const textWidth = 70

// KindLabel turns a statement tag such as CREATE_TABLE into "Create Table".
func KindLabel(tag string) string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(tag), "_", " "))
}

func (r *Report) renderText(w io.Writer) error {
	rule := strings.Repeat("-", textWidth)
	banner := strings.Repeat("=", textWidth)
	res := r.Result

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("%s", banner)
	line("%s", centered("SQLidator Report", textWidth))
	line("%s", banner)
	line("Report ID    : %s", r.ID)
	line("Generated On : %s", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	line("Dialect      : %s", r.dialectLabel())
	line("Status       : %s", strings.ToUpper(res.Status))
	line("%s", rule)

	line("YOUR QUERY:")
	line("%s", r.Query)
	line("%s", rule)

	line("VALIDATION RESULT:")
	if res.OK() {
		line("Message : %s", res.Message)
	} else {
		line("Error Type : %s", res.Type)
		line("Message    : %s", res.Message)
	}

	if res.OK() {
		line("%s", rule)
		line("STATEMENTS:")
		b.WriteString(StatementTable(res.Statements))
	}
	line("%s", banner)

	_, err := io.WriteString(w, b.String())
	return err
}

// StatementTable renders parsed statements as a light box table.
func StatementTable(stmts []parser.Statement) string {
	if len(stmts) == 0 {
		return "(no statements)\n"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Statement", "Target"})
	for i, stmt := range stmts {
		t.AppendRow(table.Row{i + 1, KindLabel(stmt.Tag()), parser.Target(stmt)})
	}
	return t.Render() + "\n"
}

func centered(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
