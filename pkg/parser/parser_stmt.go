package parser

import "github.com/sqlidator/sqlidator/pkg/token"

// ---------- SELECT ----------

// parseSelect parses:
//
//	select       → SELECT select_list FROM table_source
//	               [WHERE expr] [GROUP BY ident_list] [HAVING expr]
//	               [ORDER BY ident_list] [LIMIT NUMBER]
//	select_list  → ( "*" | ident ) ( "," ( "*" | ident ) )*
//
// Optional clauses must appear in this order.
func (p *Parser) parseSelect() (*SelectStmt, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	stmt := &SelectStmt{}
	var err error

	if stmt.Columns, err = p.parseSelectList(); err != nil {
		return nil, err
	}
	if err = p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	if stmt.From, err = p.parseTableSource(); err != nil {
		return nil, err
	}

	if p.matchKeyword("WHERE") {
		if stmt.Where, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	if p.matchKeyword("GROUP") {
		if err = p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if stmt.GroupBy, err = p.parseIdentifierList(); err != nil {
			return nil, err
		}
	}

	if p.matchKeyword("HAVING") {
		if stmt.Having, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	if p.matchKeyword("ORDER") {
		if err = p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		if stmt.OrderBy, err = p.parseIdentifierList(); err != nil {
			return nil, err
		}
	}

	if p.matchKeyword("LIMIT") {
		tok, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		stmt.Limit = tok.Lexeme
	}

	return stmt, nil
}

func (p *Parser) parseSelectList() ([]string, error) {
	var cols []string
	for {
		if p.check(token.ASTERISK) {
			cols = append(cols, "*")
			p.advance()
		} else {
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			cols = append(cols, name)
		}

		if !p.check(token.COMMA) {
			return cols, nil
		}
		p.advance()
	}
}

// parseTableSource parses:
//
//	table_source → ident | "(" select ")" [ident]
func (p *Parser) parseTableSource() (TableSource, error) {
	if !p.check(token.PAREN_OPEN) {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		return TableName(name), nil
	}
	p.advance()

	if err := p.enter(); err != nil {
		return nil, err
	}
	nested, err := p.parseSelect()
	p.leave()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.PAREN_CLOSE); err != nil {
		return nil, err
	}

	sub := &Subquery{Query: nested}
	if p.token().IsIdentifier() {
		sub.Alias = p.token().Lexeme
		p.advance()
	}
	return sub, nil
}

// ---------- DML ----------

// parseInsert parses:
//
//	insert      → INSERT INTO ident [ "(" ident_list ")" ] VALUES group ( "," group )*
//	group       → "(" [ value ( "," value )* ] ")"
func (p *Parser) parseInsert() (*InsertStmt, error) {
	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}

	table, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	stmt := &InsertStmt{Table: table}

	if p.check(token.PAREN_OPEN) {
		p.advance()
		if stmt.Columns, err = p.parseIdentifierList(); err != nil {
			return nil, err
		}
		if _, err = p.expect(token.PAREN_CLOSE); err != nil {
			return nil, err
		}
	}

	if err = p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if stmt.Values, err = p.parseValueGroups(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseValueGroups() ([][]token.Token, error) {
	var groups [][]token.Token
	for {
		if _, err := p.expect(token.PAREN_OPEN); err != nil {
			return nil, err
		}

		group := []token.Token{}
		if !p.check(token.PAREN_CLOSE) {
			for {
				v, err := p.parseRawValue()
				if err != nil {
					return nil, err
				}
				group = append(group, v)

				if !p.check(token.COMMA) {
					break
				}
				p.advance()
			}
		}

		if _, err := p.expect(token.PAREN_CLOSE); err != nil {
			return nil, err
		}
		groups = append(groups, group)

		if !p.check(token.COMMA) {
			return groups, nil
		}
		p.advance()
	}
}

// parseRawValue consumes one value token of an INSERT group or UPDATE
// assignment. Values are kept as written; structural tokens are rejected.
func (p *Parser) parseRawValue() (token.Token, error) {
	tok := p.token()
	switch tok.Kind {
	case token.COMMA, token.SEMICOLON, token.PAREN_OPEN, token.PAREN_CLOSE, token.EOF:
		return tok, p.errorAtCurrent()
	}
	p.advance()
	return tok, nil
}

// parseUpdate parses:
//
//	update → UPDATE ident SET ident "=" value ( "," ident "=" value )* [WHERE expr]
func (p *Parser) parseUpdate() (*UpdateStmt, error) {
	if err := p.expectKeyword("UPDATE"); err != nil {
		return nil, err
	}

	table, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err = p.expectKeyword("SET"); err != nil {
		return nil, err
	}

	stmt := &UpdateStmt{Table: table}
	for {
		col, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if tok := p.token(); tok.Kind != token.OPERATOR || tok.Lexeme != "=" {
			return nil, p.errorAtCurrent()
		}
		p.advance()

		value, err := p.parseRawValue()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: value})

		if !p.check(token.COMMA) {
			break
		}
		p.advance()
	}

	if p.matchKeyword("WHERE") {
		if stmt.Where, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseDelete parses:
//
//	delete → DELETE FROM ident [WHERE expr]
func (p *Parser) parseDelete() (*DeleteStmt, error) {
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	table, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	stmt := &DeleteStmt{Table: table}

	if p.matchKeyword("WHERE") {
		if stmt.Where, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}
