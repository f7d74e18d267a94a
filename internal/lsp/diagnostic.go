package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/sqlidator/sqlidator/pkg/token"
)

const diagnosticSource = "sqlidator"

// publishDiagnostics validates the document and publishes the outcome.
// A valid document publishes an empty list, clearing earlier errors.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: s.diagnose(doc),
	})
}

// diagnose returns the diagnostics for doc: none when it parses, otherwise
// exactly one for the first fault. Blank documents are not errors in an
// editor, so they produce none.
func (s *Server) diagnose(doc *Document) []Diagnostic {
	diagnostics := []Diagnostic{}
	if strings.TrimSpace(doc.Content) == "" {
		return diagnostics
	}

	res := s.validator.Validate(doc.Content, s.currentDialect())
	if res.OK() {
		return diagnostics
	}

	d := Diagnostic{
		Severity: DiagnosticSeverityError,
		Code:     res.Type,
		Source:   diagnosticSource,
		Message:  res.Message,
	}
	if res.Err != nil {
		d.Message = res.Err.Message
		d.Range = doc.TokenRange(res.Err.Pos(), tokenWidth(res.Err.Token))
	}
	return append(diagnostics, d)
}

// tokenWidth is the number of characters tok occupies in the source.
func tokenWidth(tok *token.Token) int {
	if tok == nil {
		return 0
	}
	n := utf8.RuneCountInString(tok.Lexeme)
	switch tok.Kind {
	case token.STRING, token.QUOTED_IDENTIFIER:
		n += 2 // quotes
	case token.EOF:
		n = 1
	}
	return n
}
