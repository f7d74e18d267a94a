package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sqlidator/sqlidator/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestReport(query, dialectName string) *Report {
	return New(query, validator.Validate(query, dialectName),
		WithClock(func() time.Time { return fixedTime }),
		WithID("rep-1"),
	)
}

func render(t *testing.T, r *Report, f Format) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, f))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"txt", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"csv", FormatCSV},
		{"yml", FormatYAML},
		{"markdown", FormatMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
}

func TestNewDefaults(t *testing.T) {
	r := New("SELECT a FROM t;", validator.Validate("SELECT a FROM t;", "mysql"))
	assert.Len(t, r.ID, 36)
	assert.False(t, r.GeneratedAt.IsZero())
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Create Table", KindLabel("CREATE_TABLE"))
	assert.Equal(t, "Select", KindLabel("SELECT"))
}

func TestRenderTextSuccess(t *testing.T) {
	out := render(t, newTestReport("CREATE TABLE users (id INT);\nDROP VIEW v;", "postgres"), FormatText)

	lines := strings.Split(out, "\n")
	assert.Equal(t, strings.Repeat("=", 70), lines[0])
	assert.Equal(t, "                           SQLidator Report", lines[1])
	assert.Contains(t, out, "Report ID    : rep-1\n")
	assert.Contains(t, out, "Generated On : 2026-03-14 09:26:53\n")
	assert.Contains(t, out, "Dialect      : PostgreSQL\n")
	assert.Contains(t, out, "Status       : SUCCESS\n")
	assert.Contains(t, out, "YOUR QUERY:\nCREATE TABLE users (id INT);\nDROP VIEW v;\n")
	assert.Contains(t, out, "Message : Query parsed successfully.\n")
	assert.Contains(t, out, "STATEMENTS:\n")
	assert.Contains(t, out, "Create Table")
	assert.Contains(t, out, "Drop View")
	assert.Contains(t, out, "users")
	assert.True(t, strings.HasSuffix(out, strings.Repeat("=", 70)+"\n"))
}

func TestRenderTextError(t *testing.T) {
	out := render(t, newTestReport("DROP TABE users;", "mysql"), FormatText)

	assert.Contains(t, out, "Dialect      : MySQL\n")
	assert.Contains(t, out, "Status       : ERROR\n")
	assert.Contains(t, out, "Error Type : SyntaxError\n")
	assert.Contains(t, out, "Message    : ERROR 1064 (42000): You have an error in your SQL syntax;\nnear 'TABE' at line 1\n")
	assert.NotContains(t, out, "STATEMENTS:")
}

func TestRenderTextValidationError(t *testing.T) {
	out := render(t, newTestReport("   ", "postgres"), FormatText)
	assert.Contains(t, out, "Dialect      : n/a\n")
	assert.Contains(t, out, "Error Type : ValidationError\n")
}

func TestRenderJSON(t *testing.T) {
	out := render(t, newTestReport("DROP VIEW v;", "plsql"), FormatJSON)

	assert.JSONEq(t, `{
		"metadata": {"report_id": "rep-1", "generated_on": "2026-03-14T09:26:53Z", "dialect": "plsql", "status": "success"},
		"query": "DROP VIEW v;",
		"validation": {"message": "Query parsed successfully."},
		"ast": [{"type": "DROP_VIEW", "name": "v"}]
	}`, out)
	assert.Contains(t, out, "\n    \"metadata\"")
}

func TestRenderJSONError(t *testing.T) {
	out := render(t, newTestReport("SELECT a FROM", "postgres"), FormatJSON)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotContains(t, doc, "ast")

	v := doc["validation"].(map[string]any)
	assert.Equal(t, "SyntaxError", v["error_type"])
	assert.EqualValues(t, 1, v["line"])
	assert.EqualValues(t, 14, v["column"])
	assert.Contains(t, v["message"], "syntax error at end of input")
}

func TestRenderCSV(t *testing.T) {
	out := render(t, newTestReport("SELECT a\nFROM t WHERE;", "mysql"), FormatCSV)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])

	row := records[1]
	assert.Equal(t, "rep-1", row[0])
	assert.Equal(t, "2026-03-14T09:26:53Z", row[1])
	assert.Equal(t, "mysql", row[2])
	assert.Equal(t, "error", row[3])
	assert.Equal(t, "SyntaxError", row[4])
	assert.Equal(t, "ERROR 1064 (42000): You have an error in your SQL syntax;\nnear ';' at line 2", row[5])
	assert.Equal(t, "2", row[6])
	assert.Equal(t, "13", row[7])
	assert.Equal(t, "SELECT a FROM t WHERE;", row[8])
}

func TestRenderYAML(t *testing.T) {
	out := render(t, newTestReport("ALTER TABLE t RENAME TO u;", "postgres"), FormatYAML)

	var doc struct {
		Metadata struct {
			ReportID string `yaml:"report_id"`
			Status   string `yaml:"status"`
		} `yaml:"metadata"`
		AST []map[string]any `yaml:"ast"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "rep-1", doc.Metadata.ReportID)
	assert.Equal(t, "success", doc.Metadata.Status)
	require.Len(t, doc.AST, 1)
	assert.Equal(t, "ALTER_TABLE", doc.AST[0]["type"])
	assert.Equal(t, map[string]any{"type": "RENAME_TABLE", "new": "u"}, doc.AST[0]["action"])
}

func TestRenderMarkdown(t *testing.T) {
	out := render(t, newTestReport("SELECT a FROM t;", "mysql"), FormatMarkdown)

	assert.True(t, strings.HasPrefix(out, "# SQLidator Report\n"))
	assert.Contains(t, out, "| Status | SUCCESS |\n")
	assert.Contains(t, out, "```sql\nSELECT a FROM t;\n```\n")
	assert.Contains(t, out, "| 1 | Select | t |\n")

	out = render(t, newTestReport("DROP TABE t;", "mysql"), FormatMarkdown)
	assert.Contains(t, out, "| Error Type | SyntaxError |\n")
	assert.NotContains(t, out, "## Statements")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, newTestReport("SELECT a FROM t;", "mysql").Render(&buf, Format("pdf")))
}
