package lsp

import (
	"fmt"
	"strings"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// statementSnippets complete whole statements in the accepted grammar.
var statementSnippets = []CompletionItem{
	{
		Label:      "SELECT ... FROM",
		Detail:     "Select rows",
		InsertText: "SELECT ${1:*} FROM ${2:table_name}$0;",
	},
	{
		Label:      "INSERT INTO ... VALUES",
		Detail:     "Insert rows",
		InsertText: "INSERT INTO ${1:table_name} (${2:columns}) VALUES (${3:values});",
	},
	{
		Label:      "UPDATE ... SET",
		Detail:     "Update rows",
		InsertText: "UPDATE ${1:table_name} SET ${2:column} = ${3:value} WHERE ${4:condition};",
	},
	{
		Label:      "DELETE FROM",
		Detail:     "Delete rows",
		InsertText: "DELETE FROM ${1:table_name} WHERE ${2:condition};",
	},
	{
		Label:      "CREATE TABLE",
		Detail:     "Create a table",
		InsertText: "CREATE TABLE ${1:table_name} (\n\t${2:id} ${3:INT} PRIMARY KEY$0\n);",
	},
	{
		Label:      "CREATE VIEW",
		Detail:     "Create a view",
		InsertText: "CREATE VIEW ${1:view_name} AS SELECT ${2:*} FROM ${3:table_name};",
	},
}

// keywordDocs describes the statement keywords on hover.
var keywordDocs = map[string]string{
	"SELECT": "SELECT list FROM source [WHERE expr] [GROUP BY columns] [HAVING expr] [ORDER BY columns] [LIMIT n]",
	"INSERT": "INSERT INTO table [(columns)] VALUES (values) [, (values)]...",
	"UPDATE": "UPDATE table SET column = value [, column = value]... [WHERE expr]",
	"DELETE": "DELETE FROM table [WHERE expr]",
	"CREATE": "CREATE TABLE table (name type [constraints] [, ...])\nCREATE VIEW name AS SELECT ...",
	"ALTER":  "ALTER TABLE table ADD COLUMN name type | DROP COLUMN name | RENAME COLUMN old TO new | RENAME TO new",
	"DROP":   "DROP TABLE name\nDROP VIEW name",
}

// getCompletions returns keywords, and statement snippets when the client
// supports them, matching the word being typed.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	prefix := strings.ToUpper(wordBefore(doc, params.Position))

	items := []CompletionItem{}
	for _, kw := range token.Keywords() {
		if strings.HasPrefix(kw, prefix) {
			items = append(items, CompletionItem{
				Label:    kw,
				Kind:     CompletionItemKindKeyword,
				SortText: "1" + kw,
			})
		}
	}

	if s.snippetSupport {
		for _, snip := range statementSnippets {
			if strings.HasPrefix(snip.Label, prefix) {
				snip.Kind = CompletionItemKindSnippet
				snip.InsertTextFormat = InsertTextFormatSnippet
				snip.SortText = "0" + snip.Label
				items = append(items, snip)
			}
		}
	}

	return items
}

// wordBefore returns the part of the word under pos that precedes it.
func wordBefore(doc *Document, pos Position) string {
	word, rng := doc.GetWordAtPosition(pos)
	if word == "" {
		return ""
	}
	start := doc.PositionToOffset(rng.Start)
	end := doc.PositionToOffset(pos)
	if end <= start {
		return ""
	}
	return doc.Content[start:end]
}

// getHover describes the keyword under the cursor, or returns nil.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	word, rng := doc.GetWordAtPosition(params.Position)
	kw, ok := token.LookupKeyword(word)
	if !ok {
		return nil
	}

	value := fmt.Sprintf("**%s** keyword", kw)
	if syntax, ok := keywordDocs[kw]; ok {
		value += "\n\n```sql\n" + syntax + "\n```"
	}

	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: value},
		Range:    &rng,
	}
}
