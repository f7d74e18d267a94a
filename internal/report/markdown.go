package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sqlidator/sqlidator/pkg/parser"
)

func (r *Report) renderMarkdown(w io.Writer) error {
	res := r.Result

	var b strings.Builder
	fmt.Fprintf(&b, "# SQLidator Report\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Report ID | %s |\n", r.ID)
	fmt.Fprintf(&b, "| Generated On | %s |\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "| Dialect | %s |\n", r.dialectLabel())
	fmt.Fprintf(&b, "| Status | %s |\n", strings.ToUpper(res.Status))
	if !res.OK() {
		fmt.Fprintf(&b, "| Error Type | %s |\n", res.Type)
	}

	fmt.Fprintf(&b, "\n## Query\n\n```sql\n%s\n```\n", strings.TrimRight(r.Query, "\n"))
	fmt.Fprintf(&b, "\n## Result\n\n```\n%s\n```\n", res.Message)

	if res.OK() && len(res.Statements) > 0 {
		fmt.Fprintf(&b, "\n## Statements\n\n| # | Statement | Target |\n| --- | --- | --- |\n")
		for i, stmt := range res.Statements {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, KindLabel(stmt.Tag()), escapeCell(parser.Target(stmt)))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
