package parser

import (
	"strings"
	"testing"

	"github.com/sqlidator/sqlidator/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxErrorFormat(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		dialect string
		want    string
	}{
		{
			name:    "postgres misspelled keyword",
			query:   "DROP TABE users;",
			dialect: "postgres",
			want: "ERROR:  syntax error at or near \"TABE\"\n" +
				"LINE 1: DROP TABE users;\n" +
				strings.Repeat(" ", 7+5) + "^",
		},
		{
			name:    "mysql misspelled keyword",
			query:   "DROP TABE users;",
			dialect: "mysql",
			want: "ERROR 1064 (42000): You have an error in your SQL syntax;\n" +
				"near 'TABE' at line 1",
		},
		{
			name:    "plsql renders postgres style",
			query:   "DROP TABE users;",
			dialect: "plsql",
			want: "ERROR:  syntax error at or near \"TABE\"\n" +
				"LINE 1: DROP TABE users;\n" +
				strings.Repeat(" ", 7+5) + "^",
		},
		{
			name:    "missing semicolon at end of input",
			query:   "SELECT id FROM users",
			dialect: "postgres",
			want: "ERROR:  syntax error at end of input\n" +
				"LINE 1: SELECT id FROM users\n" +
				strings.Repeat(" ", 7+20) + "^",
		},
		{
			name:    "error on third line",
			query:   "SELECT id\nFROM users\nWHERE = 1;",
			dialect: "postgres",
			want: "ERROR:  syntax error at or near \"=\"\n" +
				"LINE 3: WHERE = 1;\n" +
				strings.Repeat(" ", 7+6) + "^",
		},
		{
			name:    "mysql reports the offending line",
			query:   "SELECT id\nFROM users\nWHERE = 1;",
			dialect: "mysql",
			want: "ERROR 1064 (42000): You have an error in your SQL syntax;\n" +
				"near '=' at line 3",
		},
		{
			name:    "mysql at end of input",
			query:   "SELECT id FROM",
			dialect: "mysql",
			want: "ERROR 1064 (42000): You have an error in your SQL syntax;\n" +
				"near '' at line 1",
		},
		{
			name:    "unknown dialect falls back to postgres",
			query:   "SELECT;",
			dialect: "sqlite",
			want: "ERROR:  syntax error at or near \";\"\n" +
				"LINE 1: SELECT;\n" +
				strings.Repeat(" ", 7+6) + "^",
		},
		{
			name:    "lexical error",
			query:   "SELECT 'abc FROM t;",
			dialect: "postgres",
			want: "ERROR:  Unterminated string literal\n" +
				"LINE 1: SELECT 'abc FROM t;\n" +
				strings.Repeat(" ", 7+7) + "^",
		},
		{
			name:    "lexical error mysql",
			query:   "SELECT 'abc FROM t;",
			dialect: "mysql",
			want: "ERROR 1064 (42000): You have an error in your SQL syntax;\n" +
				"near ''abc FROM t;' at line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query, tt.dialect)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSyntaxErrorWithoutContext(t *testing.T) {
	tok := token.New(token.IDENTIFIER, "x", 1, 1)

	assert.Equal(t, "ERROR: boom", NewSyntaxError("boom", nil, "SELECT", "postgres").Error())
	assert.Equal(t, "ERROR: boom", NewSyntaxError("boom", &tok, "", "mysql").Error())

	e := NewSyntaxError("boom", nil, "", "")
	assert.Equal(t, token.Position{}, e.Pos())
	assert.Empty(t, e.Lexeme())
}

func TestSyntaxErrorCaretWidth(t *testing.T) {
	query := strings.Repeat("\n", 11) + "SELECT x FROM t WHERE"
	_, err := Parse(query, "postgres")
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "LINE 12: SELECT x FROM t WHERE", lines[1])
	// 6 + two digits, then column 22 - 1.
	assert.Equal(t, strings.Repeat(" ", 8+21)+"^", lines[2])
}

func TestSyntaxErrorLineOutOfRange(t *testing.T) {
	tok := token.New(token.IDENTIFIER, "x", 5, 2)
	got := NewSyntaxError("oops", &tok, "SELECT", "postgres").Error()
	assert.Equal(t, "ERROR:  oops\nLINE 5: \n"+strings.Repeat(" ", 7+1)+"^", got)
}

func TestSyntaxErrorWithDialect(t *testing.T) {
	_, err := Parse("DROP TABE users;", "postgres")
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, StageSyntax, synErr.Stage)
	assert.Equal(t, "syntax", synErr.Stage.String())

	mysql := synErr.WithDialect("mysql")
	assert.Contains(t, mysql.Error(), "ERROR 1064 (42000)")
	assert.Contains(t, synErr.Error(), "LINE 1: ")
	assert.Equal(t, "postgres", synErr.Dialect)
}

func TestSyntaxErrorStripsCarriageReturn(t *testing.T) {
	_, err := Parse("SELECT\r\nFROM t;", "postgres")
	require.Error(t, err)
	assert.Equal(t, "ERROR:  syntax error at or near \"FROM\"\nLINE 2: FROM t;\n"+strings.Repeat(" ", 7)+"^", err.Error())
}
