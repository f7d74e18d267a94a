package lsp

import (
	"net/url"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/file.sql)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = newDocument(uri, content, version)
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI. The returned document is a snapshot and
// is not changed by later updates.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces an open document's content. Updates for documents that
// are not open are ignored.
func (s *DocumentStore) Update(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; ok {
		s.documents[uri] = newDocument(uri, content, version)
	}
}

// List returns all open document URIs.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// GetLine returns the content of a specific zero-based line without its
// line terminator.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1] - 1 // Exclude newline
	}

	return strings.TrimSuffix(d.Content[start:end], "\r")
}

// PositionToOffset converts a Position to a byte offset in the document.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	start := d.Lines[line]
	text := d.GetLine(line)
	units := 0
	for i, r := range text {
		if units >= int(pos.Character) {
			return start + i
		}
		units += utf16.RuneLen(r)
	}
	return start + len(text)
}

// TokenRange converts a 1-based line/column token position into an LSP
// range spanning width characters.
func (d *Document) TokenRange(pos token.Position, width int) Range {
	if !pos.IsValid() {
		return Range{}
	}

	line := pos.Line - 1
	text := []rune(d.GetLine(line))
	startCol := min(max(pos.Column-1, 0), len(text))
	endCol := min(startCol+max(width, 0), len(text))

	l := uint32(line) //nolint:gosec // line is positive
	return Range{
		Start: Position{Line: l, Character: utf16Len(text[:startCol])},
		End:   Position{Line: l, Character: utf16Len(text[:endCol])},
	}
}

func utf16Len(runes []rune) uint32 {
	n := 0
	for _, r := range runes {
		n += utf16.RuneLen(r)
	}
	return uint32(n) //nolint:gosec // bounded by line length
}

// GetWordAtPosition returns the word at the given position and its range.
func (d *Document) GetWordAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)

	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(d.Content[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}

	end := offset
	for end < len(d.Content) {
		r, size := utf8.DecodeRuneInString(d.Content[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}

	if start == end {
		return "", Range{Start: pos, End: pos}
	}

	return d.Content[start:end], Range{
		Start: d.offsetToPosition(start),
		End:   d.offsetToPosition(end),
	}
}

// offsetToPosition converts a byte offset to a Position.
func (d *Document) offsetToPosition(offset int) Position {
	offset = min(max(offset, 0), len(d.Content))

	line := 0
	for i, lineOffset := range d.Lines {
		if lineOffset > offset {
			break
		}
		line = i
	}

	return Position{
		Line:      uint32(line), //nolint:gosec // index into Lines
		Character: utf16Len([]rune(d.Content[d.Lines[line]:offset])),
	}
}

// isWordRune matches the identifier characters of the lexer.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return u.Path
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
