package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// MarkdownWriter accumulates a markdown page.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter creates an empty page.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes the YAML header used by the docs site.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	fmt.Fprintf(&w.buf, "---\ntitle: %q\ndescription: %q\n---\n\n", title, description)
}

// GeneratedMarker notes that the page must not be edited by hand.
func (w *MarkdownWriter) GeneratedMarker() {
	w.buf.WriteString("<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->\n\n")
}

// Header writes a heading of the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.buf, "%s %s\n\n", strings.Repeat("#", max(level, 1)), text)
}

// Paragraph writes a block of text.
func (w *MarkdownWriter) Paragraph(text string) {
	w.buf.WriteString(strings.TrimSpace(text))
	w.buf.WriteString("\n\n")
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.buf, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		fmt.Fprintf(&w.buf, "- %s\n", item)
	}
	w.buf.WriteString("\n")
}

// Table writes a table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.row(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.row(sep)
	for _, r := range rows {
		w.row(r)
	}
	w.buf.WriteString("\n")
}

func (w *MarkdownWriter) row(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(&w.buf, "| %s |\n", strings.Join(escaped, " | "))
}

// Bytes returns the page.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanDescription cleans up extracted description text.
func cleanDescription(s string) string {
	// Remove multiple whitespace
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	// Truncate very long descriptions
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
