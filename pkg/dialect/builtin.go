package dialect

// Names of the built-in dialects.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	PLSQL    = "plsql"
)

// DefaultName is the dialect used when none is configured.
const DefaultName = MySQL

var builtinPostgres = NewDialect(Postgres).
	DisplayName("PostgreSQL").
	Describe("PostgreSQL style diagnostics with LINE and caret").
	ErrorStyle(StylePostgres).
	Build()

var builtinMySQL = NewDialect(MySQL).
	DisplayName("MySQL").
	Describe("MySQL style ERROR 1064 (42000) diagnostics").
	ErrorStyle(StyleMySQL).
	Build()

var builtinPLSQL = NewDialect(PLSQL).
	DisplayName("PL/SQL").
	Describe("Oracle PL/SQL tag, rendered with PostgreSQL style diagnostics").
	ErrorStyle(StylePostgres).
	Build()

func init() {
	Register(builtinPostgres)
	Register(builtinMySQL)
	Register(builtinPLSQL)
}

// Default returns the default dialect.
func Default() *Dialect {
	d, _ := Get(DefaultName)
	return d
}
