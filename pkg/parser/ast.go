package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// Statement tags, as emitted in the "type" field of the JSON form.
const (
	TagSelect      = "SELECT"
	TagInsert      = "INSERT"
	TagUpdate      = "UPDATE"
	TagDelete      = "DELETE"
	TagCreateTable = "CREATE_TABLE"
	TagCreateView  = "CREATE_VIEW"
	TagAlterTable  = "ALTER_TABLE"
	TagDropTable   = "DROP_TABLE"
	TagDropView    = "DROP_VIEW"
)

// Statement represents a SQL statement.
type Statement interface {
	stmtNode()
	Tag() string
}

// Expr represents an expression in a WHERE or HAVING clause.
type Expr interface {
	exprNode()
	fmt.Stringer
}

// TableSource represents the FROM target of a SELECT.
type TableSource interface {
	tableSourceNode()
}

// AlterAction is the single change requested by an ALTER TABLE statement.
type AlterAction interface {
	alterActionNode()
	Tag() string
}

// ---------- Statement Types ----------

// SelectStmt represents a SELECT statement. Absent optional clauses are
// nil, and Limit is empty when there is no LIMIT.
type SelectStmt struct {
	Columns []string    `json:"columns"`
	From    TableSource `json:"from"`
	Where   Expr        `json:"where"`
	GroupBy []string    `json:"group_by"`
	Having  Expr        `json:"having"`
	OrderBy []string    `json:"order_by"`
	Limit   string      `json:"limit,omitempty"`
}

// InsertStmt represents INSERT INTO ... VALUES. Columns is nil when no
// column list was given. Values keep the raw tokens of each group.
type InsertStmt struct {
	Table   string          `json:"table"`
	Columns []string        `json:"columns"`
	Values  [][]token.Token `json:"values"`
}

// Assignment is one column = value pair of an UPDATE.
type Assignment struct {
	Column string      `json:"column"`
	Value  token.Token `json:"value"`
}

// UpdateStmt represents an UPDATE statement.
type UpdateStmt struct {
	Table       string       `json:"table"`
	Assignments []Assignment `json:"assignments"`
	Where       Expr         `json:"where"`
}

// DeleteStmt represents a DELETE statement.
type DeleteStmt struct {
	Table string `json:"table"`
	Where Expr   `json:"where"`
}

// Constraint is a column constraint.
type Constraint string

// Column constraints.
const (
	ConstraintPrimaryKey Constraint = "PRIMARY KEY"
	ConstraintNotNull    Constraint = "NOT NULL"
	ConstraintUnique     Constraint = "UNIQUE"
)

// ColumnDef is one column of a CREATE TABLE or ADD COLUMN.
type ColumnDef struct {
	Name        string       `json:"name"`
	DataType    string       `json:"datatype"`
	Constraints []Constraint `json:"constraints"`
}

// CreateTableStmt represents CREATE TABLE.
type CreateTableStmt struct {
	Table   string      `json:"table"`
	Columns []ColumnDef `json:"columns"`
}

// CreateViewStmt represents CREATE VIEW name AS SELECT.
type CreateViewStmt struct {
	Name  string      `json:"name"`
	Query *SelectStmt `json:"query"`
}

// AlterTableStmt represents ALTER TABLE with exactly one action.
type AlterTableStmt struct {
	Table  string      `json:"table"`
	Action AlterAction `json:"action"`
}

// DropTableStmt represents DROP TABLE.
type DropTableStmt struct {
	Table string `json:"table"`
}

// DropViewStmt represents DROP VIEW.
type DropViewStmt struct {
	Name string `json:"name"`
}

func (*SelectStmt) stmtNode()      {}
func (*InsertStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*CreateTableStmt) stmtNode() {}
func (*CreateViewStmt) stmtNode()  {}
func (*AlterTableStmt) stmtNode()  {}
func (*DropTableStmt) stmtNode()   {}
func (*DropViewStmt) stmtNode()    {}

// Tag returns "SELECT".
func (*SelectStmt) Tag() string { return TagSelect }

// Tag returns "INSERT".
func (*InsertStmt) Tag() string { return TagInsert }

// Tag returns "UPDATE".
func (*UpdateStmt) Tag() string { return TagUpdate }

// Tag returns "DELETE".
func (*DeleteStmt) Tag() string { return TagDelete }

// Tag returns "CREATE_TABLE".
func (*CreateTableStmt) Tag() string { return TagCreateTable }

// Tag returns "CREATE_VIEW".
func (*CreateViewStmt) Tag() string { return TagCreateView }

// Tag returns "ALTER_TABLE".
func (*AlterTableStmt) Tag() string { return TagAlterTable }

// Tag returns "DROP_TABLE".
func (*DropTableStmt) Tag() string { return TagDropTable }

// Tag returns "DROP_VIEW".
func (*DropViewStmt) Tag() string { return TagDropView }

// ---------- Table Sources ----------

// TableName is a plain table reference.
type TableName string

// Subquery is a parenthesized SELECT with an optional alias.
type Subquery struct {
	Query *SelectStmt `json:"subquery"`
	Alias string      `json:"alias,omitempty"`
}

func (TableName) tableSourceNode() {}
func (*Subquery) tableSourceNode() {}

// ---------- ALTER TABLE Actions ----------

// AddColumn is ADD COLUMN name datatype [constraints].
type AddColumn struct {
	ColumnDef
}

// DropColumn is DROP COLUMN name.
type DropColumn struct {
	Name string `json:"name"`
}

// RenameColumn is RENAME COLUMN old TO new.
type RenameColumn struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// RenameTable is RENAME TO new.
type RenameTable struct {
	New string `json:"new"`
}

func (*AddColumn) alterActionNode()    {}
func (*DropColumn) alterActionNode()   {}
func (*RenameColumn) alterActionNode() {}
func (*RenameTable) alterActionNode()  {}

// Tag returns "ADD_COLUMN".
func (*AddColumn) Tag() string { return "ADD_COLUMN" }

// Tag returns "DROP_COLUMN".
func (*DropColumn) Tag() string { return "DROP_COLUMN" }

// Tag returns "RENAME_COLUMN".
func (*RenameColumn) Tag() string { return "RENAME_COLUMN" }

// Tag returns "RENAME_TABLE".
func (*RenameTable) Tag() string { return "RENAME_TABLE" }

// ---------- Expressions ----------

// BinaryExpr is left op right, where op is AND, OR or a comparison.
type BinaryExpr struct {
	Left  Expr   `json:"left"`
	Op    string `json:"operator"`
	Right Expr   `json:"right"`
}

// UnaryExpr is a prefix operator application. Only NOT is produced.
type UnaryExpr struct {
	Op      string `json:"operator"`
	Operand Expr   `json:"operand"`
}

// Literal is a number or string literal.
type Literal struct {
	Kind  token.Kind `json:"kind"`
	Value string     `json:"value"`
}

// Identifier is a column reference.
type Identifier struct {
	Name string `json:"name"`
}

func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}

func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}

func (e *UnaryExpr) String() string {
	return "(" + e.Op + " " + e.Operand.String() + ")"
}

func (e *Literal) String() string { return e.Value }

func (e *Identifier) String() string { return e.Name }

// ---------- JSON ----------

// Each MarshalJSON embeds a method-less alias of the node so the encoder
// emits its fields after the "type" discriminant without recursing.

// MarshalJSON implements json.Marshaler.
func (s *SelectStmt) MarshalJSON() ([]byte, error) {
	type alias SelectStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagSelect, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *InsertStmt) MarshalJSON() ([]byte, error) {
	type alias InsertStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagInsert, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *UpdateStmt) MarshalJSON() ([]byte, error) {
	type alias UpdateStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagUpdate, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *DeleteStmt) MarshalJSON() ([]byte, error) {
	type alias DeleteStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagDelete, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *CreateTableStmt) MarshalJSON() ([]byte, error) {
	type alias CreateTableStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagCreateTable, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *CreateViewStmt) MarshalJSON() ([]byte, error) {
	type alias CreateViewStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagCreateView, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *AlterTableStmt) MarshalJSON() ([]byte, error) {
	type alias AlterTableStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagAlterTable, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *DropTableStmt) MarshalJSON() ([]byte, error) {
	type alias DropTableStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagDropTable, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (s *DropViewStmt) MarshalJSON() ([]byte, error) {
	type alias DropViewStmt
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{TagDropView, (*alias)(s)})
}

// MarshalJSON implements json.Marshaler.
func (a *AddColumn) MarshalJSON() ([]byte, error) {
	type alias AddColumn
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{a.Tag(), (*alias)(a)})
}

// MarshalJSON implements json.Marshaler.
func (a *DropColumn) MarshalJSON() ([]byte, error) {
	type alias DropColumn
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{a.Tag(), (*alias)(a)})
}

// MarshalJSON implements json.Marshaler.
func (a *RenameColumn) MarshalJSON() ([]byte, error) {
	type alias RenameColumn
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{a.Tag(), (*alias)(a)})
}

// MarshalJSON implements json.Marshaler.
func (a *RenameTable) MarshalJSON() ([]byte, error) {
	type alias RenameTable
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{a.Tag(), (*alias)(a)})
}

// MarshalJSON implements json.Marshaler.
func (e *BinaryExpr) MarshalJSON() ([]byte, error) {
	type alias BinaryExpr
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"BINARY_OP", (*alias)(e)})
}

// MarshalJSON implements json.Marshaler.
func (e *UnaryExpr) MarshalJSON() ([]byte, error) {
	type alias UnaryExpr
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"UNARY_OP", (*alias)(e)})
}

// MarshalJSON implements json.Marshaler.
func (e *Literal) MarshalJSON() ([]byte, error) {
	type alias Literal
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"LITERAL", (*alias)(e)})
}

// MarshalJSON implements json.Marshaler.
func (e *Identifier) MarshalJSON() ([]byte, error) {
	type alias Identifier
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{"IDENTIFIER", (*alias)(e)})
}

// ---------- Helpers ----------

// Target returns the name of the table or view a statement acts on.
// SELECT returns its FROM table, or the subquery alias.
func Target(stmt Statement) string {
	switch s := stmt.(type) {
	case *SelectStmt:
		switch from := s.From.(type) {
		case TableName:
			return string(from)
		case *Subquery:
			return from.Alias
		}
	case *InsertStmt:
		return s.Table
	case *UpdateStmt:
		return s.Table
	case *DeleteStmt:
		return s.Table
	case *CreateTableStmt:
		return s.Table
	case *CreateViewStmt:
		return s.Name
	case *AlterTableStmt:
		return s.Table
	case *DropTableStmt:
		return s.Table
	case *DropViewStmt:
		return s.Name
	}
	return ""
}

// Summary describes a statement in one line, e.g. "CREATE TABLE users".
func Summary(stmt Statement) string {
	kind := strings.ReplaceAll(stmt.Tag(), "_", " ")
	if target := Target(stmt); target != "" {
		return kind + " " + target
	}
	return kind
}
