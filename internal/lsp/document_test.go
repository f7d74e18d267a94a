package lsp

import (
	"testing"

	"github.com/sqlidator/sqlidator/pkg/token"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/query.sql"
	content := "SELECT * FROM users;"

	store.Open(uri, content, 1)

	doc := store.Get(uri)
	if doc == nil {
		t.Fatal("expected document to exist")
	}
	if doc.URI != uri {
		t.Errorf("expected URI %s, got %s", uri, doc.URI)
	}
	if doc.Content != content {
		t.Errorf("expected content %q, got %q", content, doc.Content)
	}
	if doc.Version != 1 {
		t.Errorf("expected version 1, got %d", doc.Version)
	}

	store.Close(uri)
	if store.Get(uri) != nil {
		t.Error("expected document to be nil after close")
	}
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/query.sql"
	store.Open(uri, "SELECT a FROM t;", 1)
	before := store.Get(uri)

	store.Update(uri, "SELECT b FROM t;", 2)

	doc := store.Get(uri)
	if doc.Content != "SELECT b FROM t;" {
		t.Errorf("expected updated content, got %q", doc.Content)
	}
	if doc.Version != 2 {
		t.Errorf("expected version 2, got %d", doc.Version)
	}
	if before.Content != "SELECT a FROM t;" {
		t.Errorf("earlier snapshot changed to %q", before.Content)
	}

	store.Update("file:///not/open.sql", "SELECT 1;", 1)
	if store.Get("file:///not/open.sql") != nil {
		t.Error("update must not open a document")
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()

	store.Open("file:///a.sql", "SELECT a FROM t;", 1)
	store.Open("file:///b.sql", "SELECT b FROM t;", 1)
	store.Open("file:///c.sql", "SELECT c FROM t;", 1)

	if uris := store.List(); len(uris) != 3 {
		t.Errorf("expected 3 URIs, got %d", len(uris))
	}
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"line1\nline2\nline3", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		offsets := computeLineOffsets(tt.content)
		if len(offsets) != len(tt.expected) {
			t.Errorf("content %q: expected %d offsets, got %d", tt.content, len(tt.expected), len(offsets))
			continue
		}
		for i, exp := range tt.expected {
			if offsets[i] != exp {
				t.Errorf("content %q: offset[%d] expected %d, got %d", tt.content, i, exp, offsets[i])
			}
		}
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	doc := newDocument("file:///q.sql", "line0\nline1\r\nlíne2", 1)

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 0}, 13},
		{Position{Line: 2, Character: 2}, 16}, // í is two bytes
		// Edge cases
		{Position{Line: 1, Character: 100}, 11},               // clamped to end of line, before \r
		{Position{Line: 100, Character: 0}, len(doc.Content)}, // line beyond document
	}

	for _, tt := range tests {
		if offset := doc.PositionToOffset(tt.pos); offset != tt.expected {
			t.Errorf("PositionToOffset(%v): expected %d, got %d", tt.pos, tt.expected, offset)
		}
	}
}

func TestDocument_GetLine(t *testing.T) {
	doc := newDocument("file:///q.sql", "line0\r\nline1\nline2", 1)

	tests := []struct {
		line     int
		expected string
	}{
		{0, "line0"},
		{1, "line1"},
		{2, "line2"},
		{-1, ""},
		{100, ""},
	}

	for _, tt := range tests {
		if line := doc.GetLine(tt.line); line != tt.expected {
			t.Errorf("GetLine(%d): expected %q, got %q", tt.line, tt.expected, line)
		}
	}
}

func TestDocument_TokenRange(t *testing.T) {
	doc := newDocument("file:///q.sql", "SELECT a\nFROM 😀x;", 1)

	tests := []struct {
		name  string
		pos   token.Position
		width int
		want  Range
	}{
		{
			name:  "first line",
			pos:   token.Position{Line: 1, Column: 8},
			width: 1,
			want:  Range{Start: Position{0, 7}, End: Position{0, 8}},
		},
		{
			name:  "astral rune counts two units",
			pos:   token.Position{Line: 2, Column: 7},
			width: 1,
			want:  Range{Start: Position{1, 7}, End: Position{1, 8}},
		},
		{
			name:  "width clamped to line",
			pos:   token.Position{Line: 2, Column: 1},
			width: 50,
			want:  Range{Start: Position{1, 0}, End: Position{1, 9}},
		},
		{
			name: "unknown position",
			pos:  token.Position{},
			want: Range{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.TokenRange(tt.pos, tt.width); got != tt.want {
				t.Errorf("TokenRange(%v, %d) = %v, want %v", tt.pos, tt.width, got, tt.want)
			}
		})
	}
}

func TestDocument_GetWordAtPosition(t *testing.T) {
	doc := newDocument("file:///q.sql", "SELECT id, name FROM users WHERE active", 1)

	tests := []struct {
		pos          Position
		expectedWord string
	}{
		{Position{Line: 0, Character: 0}, "SELECT"},
		{Position{Line: 0, Character: 3}, "SELECT"},
		{Position{Line: 0, Character: 6}, "SELECT"}, // end of word
		{Position{Line: 0, Character: 7}, "id"},
		{Position{Line: 0, Character: 11}, "name"},
		{Position{Line: 0, Character: 39}, "active"}, // end of document
	}

	for _, tt := range tests {
		word, _ := doc.GetWordAtPosition(tt.pos)
		if word != tt.expectedWord {
			t.Errorf("GetWordAtPosition(%v): expected %q, got %q", tt.pos, tt.expectedWord, word)
		}
	}

	word, rng := doc.GetWordAtPosition(Position{Line: 0, Character: 10})
	if word != "" || rng.Start != rng.End {
		t.Errorf("expected no word after comma, got %q", word)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/user/query.sql", "/home/user/query.sql"},
		{"file:///home/user/my%20queries/q.sql", "/home/user/my queries/q.sql"},
		{"untitled:Untitled-1", "untitled:Untitled-1"},
	}

	for _, tt := range tests {
		if got := URIToPath(tt.uri); got != tt.want {
			t.Errorf("URIToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}

	if got := PathToURI("/tmp/my queries/q.sql"); got != "file:///tmp/my%20queries/q.sql" {
		t.Errorf("PathToURI = %q", got)
	}
	if got := URIToPath(PathToURI("/tmp/a b.sql")); got != "/tmp/a b.sql" {
		t.Errorf("round trip = %q", got)
	}
}
