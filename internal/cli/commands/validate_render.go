package commands

import (
	"fmt"
	"strings"

	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/internal/report"
	"github.com/sqlidator/sqlidator/pkg/validator"
)

// renderValidation writes results in the renderer's mode and returns how
// many failed.
func renderValidation(r *output.Renderer, results []fileResult) int {
	failed := 0
	for _, res := range results {
		if !res.Result.OK() {
			failed++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if len(results) == 1 {
			_ = r.JSON(results[0].Result)
		} else {
			_ = r.JSON(results)
		}
	case output.ModeMarkdown:
		renderValidationMarkdown(r, results, failed)
	default:
		renderValidationText(r, results, failed)
	}
	return failed
}

func renderValidationText(r *output.Renderer, results []fileResult, failed int) {
	for _, res := range results {
		renderResultText(r, res.Source, res.Result, len(results) == 1)
	}
	if len(results) > 1 {
		r.Println("")
		r.Printf("Summary: %d valid, %d invalid of %s\n",
			len(results)-failed, failed, pluralize(len(results), "query"))
	}
}

// renderResultText writes one result. Detailed also prints the statement
// table for successful results.
func renderResultText(r *output.Renderer, name string, res *validator.Result, detailed bool) {
	if res.OK() {
		r.StatusLine(name, "success", pluralize(len(res.Statements), "statement"))
		if detailed && len(res.Statements) > 0 {
			r.Printf("%s", report.StatementTable(res.Statements))
		}
		return
	}

	r.StatusLine(name, "error", res.Type)
	for _, line := range strings.Split(res.Message, "\n") {
		r.Println("    " + r.Styles().Error.Render(line))
	}
}

func renderValidationMarkdown(r *output.Renderer, results []fileResult, failed int) {
	r.Println(output.FormatHeader(1, "Validation Results"))
	r.Println("")

	for _, res := range results {
		r.Println(output.FormatHeader(2, res.Source))
		r.Println("")
		r.Println(output.FormatKeyValue("Status", res.Result.Status))
		r.Println(output.FormatKeyValue("Dialect", dialectOrNA(res.Result.Dialect)))
		if res.Result.OK() {
			r.Println(output.FormatKeyValue("Statements", fmt.Sprintf("%d", len(res.Result.Statements))))
			r.Println("")
			for i, stmt := range res.Result.Statements {
				r.Printf("%d. %s\n", i+1, report.KindLabel(stmt.Tag()))
			}
		} else {
			r.Println(output.FormatKeyValue("Error Type", res.Result.Type))
			r.Println("")
			r.Println("```text")
			r.Println(res.Result.Message)
			r.Println("```")
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println("")
	r.Println(output.FormatKeyValue("Valid", fmt.Sprintf("%d", len(results)-failed)))
	r.Println(output.FormatKeyValue("Invalid", fmt.Sprintf("%d", failed)))
}

func dialectOrNA(name string) string {
	if name == "" {
		return "n/a"
	}
	return name
}
