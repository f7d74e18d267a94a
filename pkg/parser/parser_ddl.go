package parser

import (
	"strings"

	"github.com/sqlidator/sqlidator/pkg/token"
)

// ---------- CREATE ----------

// parseCreate parses:
//
//	create → CREATE TABLE ident "(" column_def ( "," column_def )* ")"
//	       | CREATE VIEW ident AS select
func (p *Parser) parseCreate() (Statement, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}

	switch {
	case p.matchKeyword("TABLE"):
		return p.parseCreateTable()
	case p.matchKeyword("VIEW"):
		return p.parseCreateView()
	}
	return nil, p.errorAtCurrent()
}

func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	table, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err = p.expect(token.PAREN_OPEN); err != nil {
		return nil, err
	}

	stmt := &CreateTableStmt{Table: table}
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}

	if _, err = p.expect(token.PAREN_CLOSE); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseCreateView() (*CreateViewStmt, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err = p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	if !p.checkKeyword("SELECT") {
		return nil, p.errorAtCurrent()
	}

	query, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	return &CreateViewStmt{Name: name, Query: query}, nil
}

// parseColumnDef parses:
//
//	column_def → ident datatype constraint*
//	constraint → PRIMARY KEY | NOT NULL | UNIQUE
func (p *Parser) parseColumnDef() (ColumnDef, error) {
	var col ColumnDef
	var err error

	if col.Name, err = p.expectIdentifier(); err != nil {
		return col, err
	}
	if col.DataType, err = p.parseDataType(); err != nil {
		return col, err
	}

	col.Constraints = []Constraint{}
	for {
		switch {
		case p.matchKeyword("PRIMARY"):
			if err := p.expectKeyword("KEY"); err != nil {
				return col, err
			}
			col.Constraints = append(col.Constraints, ConstraintPrimaryKey)
		case p.matchKeyword("NOT"):
			if err := p.expectKeyword("NULL"); err != nil {
				return col, err
			}
			col.Constraints = append(col.Constraints, ConstraintNotNull)
		case p.matchKeyword("UNIQUE"):
			col.Constraints = append(col.Constraints, ConstraintUnique)
		default:
			return col, nil
		}
	}
}

// parseDataType parses:
//
//	datatype → IDENTIFIER [ "(" arg ( "," arg )* ")" ]
//	arg      → NUMBER | IDENTIFIER
//
// The lexemes are joined without spaces, so DECIMAL ( 10 , 2 ) yields
// "DECIMAL(10,2)".
func (p *Parser) parseDataType() (string, error) {
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return "", err
	}

	parts := []string{name.Lexeme}
	if !p.check(token.PAREN_OPEN) {
		return name.Lexeme, nil
	}
	p.advance()
	parts = append(parts, "(")

	for {
		tok := p.token()
		if tok.Kind != token.NUMBER && tok.Kind != token.IDENTIFIER {
			return "", p.errorAtCurrent()
		}
		parts = append(parts, tok.Lexeme)
		p.advance()

		if !p.check(token.COMMA) {
			break
		}
		parts = append(parts, ",")
		p.advance()
	}

	if _, err := p.expect(token.PAREN_CLOSE); err != nil {
		return "", err
	}
	parts = append(parts, ")")

	return strings.Join(parts, ""), nil
}

// ---------- ALTER ----------

// parseAlter parses:
//
//	alter  → ALTER TABLE ident action
//	action → ADD COLUMN column_def
//	       | DROP COLUMN ident
//	       | RENAME COLUMN ident TO ident
//	       | RENAME TO ident
func (p *Parser) parseAlter() (*AlterTableStmt, error) {
	if err := p.expectKeyword("ALTER"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	table, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	action, err := p.parseAlterAction()
	if err != nil {
		return nil, err
	}
	return &AlterTableStmt{Table: table, Action: action}, nil
}

func (p *Parser) parseAlterAction() (AlterAction, error) {
	switch {
	case p.matchKeyword("ADD"):
		if err := p.expectKeyword("COLUMN"); err != nil {
			return nil, err
		}
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return &AddColumn{ColumnDef: col}, nil

	case p.matchKeyword("DROP"):
		if err := p.expectKeyword("COLUMN"); err != nil {
			return nil, err
		}
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return &DropColumn{Name: name}, nil

	case p.matchKeyword("RENAME"):
		if p.matchKeyword("COLUMN") {
			oldName, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("TO"); err != nil {
				return nil, err
			}
			newName, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			return &RenameColumn{Old: oldName, New: newName}, nil
		}
		if p.matchKeyword("TO") {
			newName, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			return &RenameTable{New: newName}, nil
		}
	}
	return nil, p.errorAtCurrent()
}

// ---------- DROP ----------

// parseDrop parses:
//
//	drop → DROP TABLE ident | DROP VIEW ident
func (p *Parser) parseDrop() (Statement, error) {
	if err := p.expectKeyword("DROP"); err != nil {
		return nil, err
	}

	switch {
	case p.matchKeyword("TABLE"):
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return &DropTableStmt{Table: name}, nil
	case p.matchKeyword("VIEW"):
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return &DropViewStmt{Name: name}, nil
	}
	return nil, p.errorAtCurrent()
}
