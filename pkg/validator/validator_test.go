package validator

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sqlidator/sqlidator/internal/testutil"
	"github.com/sqlidator/sqlidator/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSuccess(t *testing.T) {
	v := New(WithLogger(testutil.NewTestLogger(t)))

	res := v.Validate("SELECT id, name FROM users WHERE active = true;", "postgres")
	require.True(t, res.OK(), res.Message)
	assert.Equal(t, "postgres", res.Dialect)
	assert.Equal(t, SuccessMessage, res.Message)
	assert.Empty(t, res.Type)
	require.Len(t, res.Statements, 1)

	sel, ok := res.Statements[0].(*parser.SelectStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, sel.Columns)
	assert.Equal(t, "(active = true)", sel.Where.String())
}

func TestValidateDialectCaseInsensitive(t *testing.T) {
	res := Validate("DROP TABLE t;", " MySQL ")
	require.True(t, res.OK())
	assert.Equal(t, "mysql", res.Dialect)
}

func TestValidateSyntaxError(t *testing.T) {
	tests := []struct {
		dialect string
		prefix  string
	}{
		{"mysql", "ERROR 1064 (42000): You have an error in your SQL syntax;\nnear 'TABE' at line 1"},
		{"postgres", "ERROR:  syntax error at or near \"TABE\"\nLINE 1: DROP TABE users;\n"},
		{"plsql", "ERROR:  syntax error at or near \"TABE\"\nLINE 1: "},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			res := Validate("DROP TABE users;", tt.dialect)
			assert.False(t, res.OK())
			assert.Equal(t, StatusError, res.Status)
			assert.Equal(t, TypeSyntaxError, res.Type)
			assert.Equal(t, tt.dialect, res.Dialect)
			assert.True(t, strings.HasPrefix(res.Message, tt.prefix), res.Message)
			assert.Equal(t, 1, res.Line)
			assert.Equal(t, 6, res.Column)
			require.NotNil(t, res.Err)
			assert.Equal(t, "TABE", res.Err.Lexeme())
			assert.Nil(t, res.Statements)
		})
	}
}

func TestValidateLexicalError(t *testing.T) {
	res := Validate("SELECT 'abc FROM t;", "postgres")
	assert.Equal(t, TypeSyntaxError, res.Type)
	assert.Contains(t, res.Message, "Unterminated string literal")
	assert.Equal(t, parser.StageLexical, res.Err.Stage)
}

func TestValidateInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		dialect string
		message string
	}{
		{"empty", "", "postgres", "Query cannot be empty."},
		{"whitespace", " \n\t ", "mysql", "Query cannot be empty."},
		{"empty beats unknown dialect", "", "oracle", "Query cannot be empty."},
		{"unknown dialect", "SELECT a FROM t;", "SQLite", "Unsupported SQL dialect: sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.query, tt.dialect)
			assert.Equal(t, StatusError, res.Status)
			assert.Equal(t, TypeValidationError, res.Type)
			assert.Equal(t, tt.message, res.Message)
			assert.Empty(t, res.Dialect)
		})
	}
}

func TestValidateRecoversPanics(t *testing.T) {
	logger, logs := testutil.NewCapturingLogger()
	v := New(WithLogger(logger))
	v.parse = func(string, string) ([]parser.Statement, error) {
		panic("cursor ran off the end")
	}

	res := v.Validate("SELECT a FROM t;", "postgres")
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, TypeInternalError, res.Type)
	assert.Equal(t, "postgres", res.Dialect)
	assert.Equal(t, "cursor ran off the end", res.Message)
	assert.Contains(t, logs.String(), "validation panicked")
}

func TestValidateNonSyntaxErrorIsInternal(t *testing.T) {
	v := New()
	v.parse = func(string, string) ([]parser.Statement, error) {
		return nil, errors.New("disk on fire")
	}

	res := v.Validate("SELECT a FROM t;", "mysql")
	assert.Equal(t, TypeInternalError, res.Type)
	assert.Equal(t, "disk on fire", res.Message)
}

func TestValidateNormalize(t *testing.T) {
	query := "SELECT id\n  FROM users\n\tWHERE = 1;"

	plain := Validate(query, "postgres")
	assert.Equal(t, 3, plain.Line)

	normalized := New(WithNormalize(true)).Validate(query, "postgres")
	assert.Equal(t, 1, normalized.Line)
	assert.Contains(t, normalized.Message, "LINE 1: SELECT id FROM users WHERE = 1;")

	assert.Equal(t, "a b c", Normalize("  a \n\t b   c \r\n"))
	assert.Empty(t, Normalize(" \n "))
}

func TestValidateIdempotent(t *testing.T) {
	queries := []string{
		"SELECT a FROM t WHERE a = 1 OR b = 2;",
		"CREATE TABLE t (a INT name TEXT);",
		"",
		"SELECT 'x",
	}

	for _, q := range queries {
		first, err := json.Marshal(Validate(q, "postgres"))
		require.NoError(t, err)
		second, err := json.Marshal(Validate(q, "postgres"))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(second), q)
	}
}

func TestValidateConcurrent(t *testing.T) {
	v := New()
	queries := map[string]bool{
		"SELECT a FROM t;":             true,
		"DROP TABE t;":                 false,
		"UPDATE t SET a = 1;":          true,
		"INSERT INTO t VALUES (1 2);":  false,
		"ALTER TABLE t RENAME TO u;":   true,
		"CREATE VIEW v AS SELECT * t;": false,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for q, ok := range queries {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.Equal(t, ok, v.Validate(q, "mysql").OK(), q)
			}()
		}
	}
	wg.Wait()
}

func TestValidateLogsDuration(t *testing.T) {
	logger, logs := testutil.NewCapturingLogger()
	ticks := []time.Time{time.Unix(0, 0), time.Unix(0, int64(3*time.Millisecond))}
	var calls int
	clock := func() time.Time {
		tick := ticks[min(calls, len(ticks)-1)]
		calls++
		return tick
	}

	New(WithLogger(logger), WithClock(clock)).Validate("DROP TABLE t;", "plsql")
	assert.Contains(t, logs.String(), "duration=3ms")
	assert.Contains(t, logs.String(), "statements=1")
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		dialect string
		want    string
	}{
		{
			name:    "success",
			query:   "DROP VIEW v;",
			dialect: "postgres",
			want:    `{"status":"success","dialect":"postgres","message":"Query parsed successfully.","ast":[{"type":"DROP_VIEW","name":"v"}]}`,
		},
		{
			name:    "success without statements",
			query:   "-- nothing here",
			dialect: "postgres",
			want:    `{"status":"success","dialect":"postgres","message":"Query parsed successfully.","ast":[]}`,
		},
		{
			name:    "validation error has null dialect",
			query:   "  ",
			dialect: "mysql",
			want:    `{"status":"error","dialect":null,"type":"ValidationError","message":"Query cannot be empty."}`,
		},
		{
			name:    "syntax error",
			query:   "DROP TABE users;",
			dialect: "mysql",
			want:    `{"status":"error","dialect":"mysql","type":"SyntaxError","message":"ERROR 1064 (42000): You have an error in your SQL syntax;\nnear 'TABE' at line 1","line":1,"column":6}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Validate(tt.query, tt.dialect))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
