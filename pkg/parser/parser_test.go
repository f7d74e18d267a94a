package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sqlidator/sqlidator/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, sql string) Statement {
	t.Helper()
	stmts, err := Parse(sql, "postgres")
	require.NoError(t, err, "parse %q", sql)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func parseFail(t *testing.T, sql string) *SyntaxError {
	t.Helper()
	stmts, err := Parse(sql, "postgres")
	require.Error(t, err, "expected %q to fail", sql)
	assert.Nil(t, stmts)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	return synErr
}

func lexemes(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Lexeme
	}
	return out
}

func TestParseSelect(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want *SelectStmt
	}{
		{
			name: "bare columns",
			sql:  "SELECT id, name FROM users WHERE active = true;",
			want: &SelectStmt{
				Columns: []string{"id", "name"},
				From:    TableName("users"),
				Where: &BinaryExpr{
					Left:  &Identifier{Name: "active"},
					Op:    "=",
					Right: &Identifier{Name: "true"},
				},
			},
		},
		{
			name: "star",
			sql:  "SELECT * FROM t;",
			want: &SelectStmt{Columns: []string{"*"}, From: TableName("t")},
		},
		{
			name: "quoted identifiers",
			sql:  `SELECT "First Name" FROM "People";`,
			want: &SelectStmt{Columns: []string{"First Name"}, From: TableName("People")},
		},
		{
			name: "all clauses",
			sql:  "SELECT dept, cnt FROM stats WHERE cnt > 1 GROUP BY dept HAVING cnt >= 10 ORDER BY dept, cnt LIMIT 5;",
			want: &SelectStmt{
				Columns: []string{"dept", "cnt"},
				From:    TableName("stats"),
				Where: &BinaryExpr{
					Left:  &Identifier{Name: "cnt"},
					Op:    ">",
					Right: &Literal{Kind: token.NUMBER, Value: "1"},
				},
				GroupBy: []string{"dept"},
				Having: &BinaryExpr{
					Left:  &Identifier{Name: "cnt"},
					Op:    ">=",
					Right: &Literal{Kind: token.NUMBER, Value: "10"},
				},
				OrderBy: []string{"dept", "cnt"},
				Limit:   "5",
			},
		},
		{
			name: "subquery with alias",
			sql:  "SELECT * FROM (SELECT id FROM t WHERE name = 'x') sub;",
			want: &SelectStmt{
				Columns: []string{"*"},
				From: &Subquery{
					Query: &SelectStmt{
						Columns: []string{"id"},
						From:    TableName("t"),
						Where: &BinaryExpr{
							Left:  &Identifier{Name: "name"},
							Op:    "=",
							Right: &Literal{Kind: token.STRING, Value: "x"},
						},
					},
					Alias: "sub",
				},
			},
		},
		{
			name: "subquery without alias",
			sql:  "SELECT a FROM (SELECT a FROM (SELECT a FROM t));",
			want: &SelectStmt{
				Columns: []string{"a"},
				From: &Subquery{Query: &SelectStmt{
					Columns: []string{"a"},
					From: &Subquery{Query: &SelectStmt{
						Columns: []string{"a"},
						From:    TableName("t"),
					}},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOne(t, tt.sql))
		})
	}
}

func TestParseInsert(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO users (id, name) VALUES (1, 'bob'), (2, NULL);")
	ins, ok := stmt.(*InsertStmt)
	require.True(t, ok)

	assert.Equal(t, "users", ins.Table)
	assert.Equal(t, []string{"id", "name"}, ins.Columns)
	require.Len(t, ins.Values, 2)
	assert.Equal(t, []string{"1", "bob"}, lexemes(ins.Values[0]))
	assert.Equal(t, []string{"2", "NULL"}, lexemes(ins.Values[1]))
	assert.Equal(t, token.STRING, ins.Values[0][1].Kind)
	assert.Equal(t, token.KEYWORD, ins.Values[1][1].Kind)

	t.Run("without column list", func(t *testing.T) {
		ins := parseOne(t, "INSERT INTO t VALUES (x);").(*InsertStmt)
		assert.Nil(t, ins.Columns)
		assert.Equal(t, []string{"x"}, lexemes(ins.Values[0]))
	})

	t.Run("empty group", func(t *testing.T) {
		ins := parseOne(t, "INSERT INTO t VALUES ();").(*InsertStmt)
		require.Len(t, ins.Values, 1)
		assert.Empty(t, ins.Values[0])
	})
}

func TestParseUpdate(t *testing.T) {
	upd, ok := parseOne(t, "UPDATE users SET name = 'x', age = 3 WHERE id = 1;").(*UpdateStmt)
	require.True(t, ok)

	assert.Equal(t, "users", upd.Table)
	require.Len(t, upd.Assignments, 2)
	assert.Equal(t, "name", upd.Assignments[0].Column)
	assert.Equal(t, token.New(token.STRING, "x", 1, 25), upd.Assignments[0].Value)
	assert.Equal(t, "age", upd.Assignments[1].Column)
	assert.Equal(t, "3", upd.Assignments[1].Value.Lexeme)
	assert.Equal(t, "(id = 1)", upd.Where.String())
}

func TestParseDelete(t *testing.T) {
	del := parseOne(t, "DELETE FROM users;").(*DeleteStmt)
	assert.Equal(t, &DeleteStmt{Table: "users"}, del)

	del = parseOne(t, "delete from users where id = 7;").(*DeleteStmt)
	assert.Equal(t, "(id = 7)", del.Where.String())
}

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, `CREATE TABLE users (
		id INT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		price DECIMAL(10, 2),
		note TEXT UNIQUE UNIQUE
	);`)

	want := &CreateTableStmt{
		Table: "users",
		Columns: []ColumnDef{
			{Name: "id", DataType: "INT", Constraints: []Constraint{ConstraintPrimaryKey}},
			{Name: "name", DataType: "VARCHAR(100)", Constraints: []Constraint{ConstraintNotNull, ConstraintUnique}},
			{Name: "price", DataType: "DECIMAL(10,2)", Constraints: []Constraint{}},
			{Name: "note", DataType: "TEXT", Constraints: []Constraint{ConstraintUnique, ConstraintUnique}},
		},
	}
	assert.Equal(t, want, stmt)
}

func TestParseCreateView(t *testing.T) {
	stmt := parseOne(t, "CREATE VIEW v AS SELECT * FROM t;")

	want := &CreateViewStmt{
		Name:  "v",
		Query: &SelectStmt{Columns: []string{"*"}, From: TableName("t")},
	}
	assert.Equal(t, want, stmt)
}

func TestParseAlterTable(t *testing.T) {
	tests := []struct {
		sql  string
		want AlterAction
	}{
		{
			"ALTER TABLE users ADD COLUMN email VARCHAR(255) NOT NULL;",
			&AddColumn{ColumnDef{Name: "email", DataType: "VARCHAR(255)", Constraints: []Constraint{ConstraintNotNull}}},
		},
		{
			"ALTER TABLE users ADD COLUMN age INT;",
			&AddColumn{ColumnDef{Name: "age", DataType: "INT", Constraints: []Constraint{}}},
		},
		{"ALTER TABLE users DROP COLUMN email;", &DropColumn{Name: "email"}},
		{"ALTER TABLE users RENAME COLUMN a TO b;", &RenameColumn{Old: "a", New: "b"}},
		{"ALTER TABLE users RENAME TO people;", &RenameTable{New: "people"}},
	}

	for _, tt := range tests {
		t.Run(tt.want.Tag(), func(t *testing.T) {
			stmt := parseOne(t, tt.sql)
			assert.Equal(t, &AlterTableStmt{Table: "users", Action: tt.want}, stmt)
		})
	}
}

func TestParseDrop(t *testing.T) {
	assert.Equal(t, &DropTableStmt{Table: "users"}, parseOne(t, "DROP TABLE users;"))
	assert.Equal(t, &DropViewStmt{Name: "v"}, parseOne(t, "DROP VIEW v;"))
}

func TestParseStatementTags(t *testing.T) {
	tests := []struct {
		sql string
		tag string
	}{
		{"SELECT a FROM t;", TagSelect},
		{"INSERT INTO t VALUES (1);", TagInsert},
		{"UPDATE t SET a = 1;", TagUpdate},
		{"DELETE FROM t;", TagDelete},
		{"CREATE TABLE t (a INT);", TagCreateTable},
		{"CREATE VIEW v AS SELECT a FROM t;", TagCreateView},
		{"ALTER TABLE t DROP COLUMN a;", TagAlterTable},
		{"DROP TABLE t;", TagDropTable},
		{"DROP VIEW v;", TagDropView},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.tag, parseOne(t, tt.sql).Tag())
		})
	}
}

func TestParseMultipleStatements(t *testing.T) {
	stmts, err := Parse("SELECT a FROM t;\nDELETE FROM t;\n-- done\n", "mysql")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, TagSelect, stmts[0].Tag())
	assert.Equal(t, TagDelete, stmts[1].Tag())
}

func TestParseEmptyStream(t *testing.T) {
	stmts, err := Parse("  -- only a comment\n", "postgres")
	require.NoError(t, err)
	assert.Empty(t, stmts)

	stmts, err = New(nil, "", "postgres").Parse()
	require.NoError(t, err)
	assert.Empty(t, stmts)
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		where string
		want  string
	}{
		{"a = 1", "(a = 1)"},
		{"NOT NOT x", "(NOT (NOT x))"},
		{"a OR b OR c", "((a OR b) OR c)"},
		{"a AND b AND c", "((a AND b) AND c)"},
		{"a = 1 OR b = 2 AND c = 3", "((a = 1) OR ((b = 2) AND (c = 3)))"},
		{"(a = 1 OR b = 2) AND c", "(((a = 1) OR (b = 2)) AND c)"},
		{"NOT a = 1 AND b", "((NOT (a = 1)) AND b)"},
		{"name <> 'bob'", "(name <> bob)"},
		{`"Col" != 2.5`, "(Col != 2.5)"},
		{"((x))", "x"},
		{"(a) = (b)", "(a = b)"},
	}

	for _, tt := range tests {
		t.Run(tt.where, func(t *testing.T) {
			stmt := parseOne(t, "SELECT a FROM t WHERE "+tt.where+";").(*SelectStmt)
			require.NotNil(t, stmt.Where)
			assert.Equal(t, tt.want, stmt.Where.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		msg    string
		lexeme string
		line   int
		column int
	}{
		{"misspelled keyword", "DROP TABE users;", `syntax error at or near "TABE"`, "TABE", 1, 6},
		{"missing comma in column list", "CREATE TABLE users (id INT name VARCHAR(100));", `syntax error at or near "name"`, "name", 1, 28},
		{"missing semicolon", "SELECT a FROM t", "syntax error at end of input", "", 1, 16},
		{"missing semicolon between statements", "SELECT a FROM t DELETE FROM t;", `syntax error at or near "DELETE"`, "DELETE", 1, 17},
		{"unknown statement", "users;", `syntax error at or near "users"`, "users", 1, 1},
		{"lone semicolon", ";", `syntax error at or near ";"`, ";", 1, 1},
		{"missing from", "SELECT a WHERE x = 1;", `syntax error at or near "WHERE"`, "WHERE", 1, 10},
		{"chained comparison", "SELECT a FROM t WHERE a = b = c;", `syntax error at or near "="`, "=", 1, 29},
		{"bad primary", "SELECT a FROM t WHERE AND;", `syntax error at or near "AND"`, "AND", 1, 23},
		{"dangling operator", "SELECT a FROM t WHERE a = ;", `syntax error at or near ";"`, ";", 1, 27},
		{"unclosed paren", "SELECT a FROM t WHERE (a = 1;", `syntax error at or near ";"`, ";", 1, 29},
		{"null is not a primary", "SELECT a FROM t WHERE a IS NULL;", `syntax error at or near "IS"`, "IS", 1, 25},
		{"limit requires number", "SELECT a FROM t LIMIT x;", `syntax error at or near "x"`, "x", 1, 23},
		{"group without by", "SELECT a FROM t GROUP a;", `syntax error at or near "a"`, "a", 1, 23},
		{"clauses out of order", "SELECT a FROM t ORDER BY a WHERE a = 1;", `syntax error at or near "WHERE"`, "WHERE", 1, 28},
		{"dotted name", "SELECT t.a FROM t;", `syntax error at or near "."`, ".", 1, 9},
		{"subquery must be select", "SELECT a FROM (DELETE FROM t);", `syntax error at or near "DELETE"`, "DELETE", 1, 16},
		{"insert values without comma", "INSERT INTO t VALUES (1 2);", `syntax error at or near "2"`, "2", 1, 25},
		{"insert trailing comma", "INSERT INTO t VALUES (1,);", `syntax error at or near ")"`, ")", 1, 25},
		{"insert unterminated group", "INSERT INTO t VALUES (1", "syntax error at end of input", "", 1, 24},
		{"insert missing values", "INSERT INTO t (a);", `syntax error at or near ";"`, ";", 1, 18},
		{"update missing equals", "UPDATE users SET name 'x';", `syntax error at or near "x"`, "x", 1, 23},
		{"update missing value", "UPDATE users SET name = ;", `syntax error at or near ";"`, ";", 1, 25},
		{"delete missing from", "DELETE users;", `syntax error at or near "users"`, "users", 1, 8},
		{"create unknown object", "CREATE INDEX i;", `syntax error at or near "INDEX"`, "INDEX", 1, 8},
		{"create table missing type", "CREATE TABLE t (a);", `syntax error at or near ")"`, ")", 1, 18},
		{"create table empty size", "CREATE TABLE t (a VARCHAR());", `syntax error at or near ")"`, ")", 1, 27},
		{"primary without key", "CREATE TABLE t (a INT PRIMARY);", `syntax error at or near ")"`, ")", 1, 30},
		{"not without null", "CREATE TABLE t (a INT NOT UNIQUE);", `syntax error at or near "UNIQUE"`, "UNIQUE", 1, 27},
		{"view without select", "CREATE VIEW v AS DELETE FROM t;", `syntax error at or near "DELETE"`, "DELETE", 1, 18},
		{"alter unknown action", "ALTER TABLE t MODIFY x;", `syntax error at or near "MODIFY"`, "MODIFY", 1, 15},
		{"alter rename without target", "ALTER TABLE t RENAME x;", `syntax error at or near "x"`, "x", 1, 22},
		{"alter add without column", "ALTER TABLE t ADD x INT;", `syntax error at or near "x"`, "x", 1, 19},
		{"drop unknown object", "DROP INDEX i;", `syntax error at or near "INDEX"`, "INDEX", 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseFail(t, tt.sql)
			assert.Equal(t, tt.msg, err.Message)
			assert.Equal(t, tt.lexeme, err.Lexeme())
			assert.Equal(t, token.Position{Line: tt.line, Column: tt.column}, err.Pos())
			assert.Equal(t, StageSyntax, err.Stage)
		})
	}
}

func TestParseNestingLimit(t *testing.T) {
	where := strings.Repeat("(", maxDepth+1) + "x" + strings.Repeat(")", maxDepth+1)
	err := parseFail(t, "SELECT a FROM t WHERE "+where+";")
	assert.Equal(t, fmt.Sprintf(ErrTooDeep, maxDepth), err.Message)

	where = strings.Repeat("(", maxDepth) + "x" + strings.Repeat(")", maxDepth)
	parseOne(t, "SELECT a FROM t WHERE "+where+";")
}

func TestParseDeterministic(t *testing.T) {
	sql := "SELECT a, b FROM (SELECT a, b FROM t WHERE a = 1 OR NOT b = 'x') s ORDER BY a LIMIT 3;"

	first, err := Parse(sql, "postgres")
	require.NoError(t, err)
	second, err := Parse(sql, "mysql")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTargetAndSummary(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT a FROM users;", "SELECT users"},
		{"SELECT a FROM (SELECT a FROM t) s;", "SELECT s"},
		{"SELECT a FROM (SELECT a FROM t);", "SELECT"},
		{"CREATE TABLE users (a INT);", "CREATE TABLE users"},
		{"CREATE VIEW v AS SELECT a FROM t;", "CREATE VIEW v"},
		{"ALTER TABLE t RENAME TO u;", "ALTER TABLE t"},
		{"DROP VIEW v;", "DROP VIEW v"},
		{"INSERT INTO t VALUES (1);", "INSERT t"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(parseOne(t, tt.sql)))
		})
	}
}
