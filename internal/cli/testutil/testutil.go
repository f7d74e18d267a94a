// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/sqlidator/sqlidator/internal/cli/output"
	"github.com/sqlidator/sqlidator/internal/testutil"
)

// SetupQueryFiles creates a temporary directory holding one valid and one
// invalid query file. It returns the directory.
func SetupQueryFiles(t *testing.T) string {
	t.Helper()

	return testutil.WriteFiles(t, map[string]string{
		"good.sql": "SELECT id, name FROM users WHERE id = 1;\n",
		"bad.sql":  "SELECT id\nFROM;\n",
	})
}

// Capture is a Renderer whose streams are kept in memory.
type Capture struct {
	*output.Renderer
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewCapture returns a capture in mode. The streams are not terminals, so
// auto mode resolves to markdown.
func NewCapture(mode output.OutputMode) *Capture {
	return newCapture(mode, false)
}

// NewTTYCapture returns a capture that renders as if attached to a terminal.
func NewTTYCapture(mode output.OutputMode) *Capture {
	return newCapture(mode, true)
}

func newCapture(mode output.OutputMode, tty bool) *Capture {
	c := &Capture{}
	c.Renderer = output.NewRendererWithTTY(&c.stdout, &c.stderr, tty, mode)
	return c
}

// Stdout returns what was written to the output stream.
func (c *Capture) Stdout() string { return c.stdout.String() }

// Stderr returns what was written to the error stream.
func (c *Capture) Stderr() string { return c.stderr.String() }

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails when s contains terminal escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if loc := ansiEscape.FindStringIndex(s); loc != nil {
		t.Errorf("unexpected ANSI escape at offset %d in %q", loc[0], s)
	}
}

// AssertValidMarkdown checks fences are balanced, headers have text and
// every row of a table has as many cells as its header.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences: %d markers", n)
	}

	header := 0
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("line %d: empty header", i+1)
		}

		if !strings.HasPrefix(trimmed, "|") {
			header = 0
			continue
		}
		cells := tableCells(trimmed)
		if header == 0 {
			header = cells
		} else if cells != header {
			t.Errorf("line %d: table row has %d cells, header has %d", i+1, cells, header)
		}
	}
}

// tableCells counts the cells of a markdown table row, skipping escaped pipes.
func tableCells(row string) int {
	pipes := strings.Count(row, "|") - strings.Count(row, `\|`)
	return pipes - 1
}
