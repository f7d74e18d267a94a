// Package output renders command results for terminals, pipes and machines.
//
// In auto mode a terminal gets styled text and anything else gets markdown,
// so piping a command into a file or another tool produces stable plain
// output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// OutputMode selects how a Renderer formats output.
//
//nolint:revive // output.OutputMode reads better at call sites than output.Kind
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a user supplied mode name. Unknown names fall back to auto.
func Mode(name string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(name))) {
	case ModeText:
		return ModeText
	case ModeMarkdown, "md":
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	isTTY  bool
	mode   OutputMode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(w, errW, isTerminal(w), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		w:      w,
		errW:   errW,
		isTTY:  isTTY,
		mode:   mode,
		styles: NewStyles(lipgloss.NewRenderer(w)),
	}
}

// isTerminal reports whether w is backed by a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// EffectiveMode resolves auto into text or markdown.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer {
	return r.w
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a heading, styled in text mode and as markdown otherwise.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header1.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.status(r.styles.Success, "✓", msg)
}

// Warning writes a warning message.
func (r *Renderer) Warning(msg string) {
	r.status(r.styles.Warning, "!", msg)
}

// Error writes an error message to the error writer.
func (r *Renderer) Error(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errW, r.styles.Error.Render("✗ "+msg))
		return
	}
	_, _ = fmt.Fprintln(r.errW, "Error: "+msg)
}

// Muted writes secondary information.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(r.styles.Muted.Render(msg))
		return
	}
	_, _ = fmt.Fprintln(r.messageWriter(), msg)
}

func (r *Renderer) status(style lipgloss.Style, icon, msg string) {
	if r.EffectiveMode() == ModeText {
		r.Println(style.Render(icon + " " + msg))
		return
	}
	_, _ = fmt.Fprintln(r.messageWriter(), msg)
}

// messageWriter is where status messages go. JSON mode keeps stdout
// parseable by sending them to the error writer.
func (r *Renderer) messageWriter() io.Writer {
	if r.EffectiveMode() == ModeJSON {
		return r.errW
	}
	return r.w
}

// StatusLine writes one item with a status icon. Status is one of
// success, error, warning or skipped.
func (r *Renderer) StatusLine(name, status, detail string) {
	icon, style := statusIcon(r.styles, status)
	line := name
	if detail != "" {
		line += "  " + detail
	}
	if r.EffectiveMode() == ModeText {
		r.Printf("  %s %s\n", style.Render(icon), line)
		return
	}
	r.Printf("- [%s] %s\n", status, line)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusIcon(s *Styles, status string) (string, lipgloss.Style) {
	switch status {
	case "success":
		return "✓", s.Success
	case "error":
		return "✗", s.Error
	case "warning":
		return "!", s.Warning
	default:
		return "-", s.Muted
	}
}

// FormatHeader formats a markdown heading.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown list entry with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
