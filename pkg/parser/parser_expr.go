package parser

import "github.com/sqlidator/sqlidator/pkg/token"

// Expression grammar, lowest to highest precedence:
//
//	expr       → or
//	or         → and ( OR and )*
//	and        → not ( AND not )*
//	not        → NOT not | comparison
//	comparison → primary [ OPERATOR primary ]
//	primary    → ident | NUMBER | STRING | "(" expr ")"
//
// OR and AND fold to the left. Comparisons do not chain.

// exprParser reads expressions from its parent's cursor. It never owns a
// position of its own, so both parsers always agree on where they are.
type exprParser struct {
	p *Parser
}

// parseExpression parses a boolean expression at the current position.
func (p *Parser) parseExpression() (Expr, error) {
	return (&exprParser{p: p}).parseOr()
}

func (e *exprParser) parseOr() (Expr, error) {
	left, err := e.parseAnd()
	if err != nil {
		return nil, err
	}

	for e.p.checkKeyword("OR") {
		op := e.p.token().Lexeme
		e.p.advance()
		right, err := e.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (e *exprParser) parseAnd() (Expr, error) {
	left, err := e.parseNot()
	if err != nil {
		return nil, err
	}

	for e.p.checkKeyword("AND") {
		op := e.p.token().Lexeme
		e.p.advance()
		right, err := e.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (e *exprParser) parseNot() (Expr, error) {
	if !e.p.checkKeyword("NOT") {
		return e.parseComparison()
	}

	op := e.p.token().Lexeme
	e.p.advance()

	if err := e.p.enter(); err != nil {
		return nil, err
	}
	operand, err := e.parseNot()
	e.p.leave()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: op, Operand: operand}, nil
}

func (e *exprParser) parseComparison() (Expr, error) {
	left, err := e.parsePrimary()
	if err != nil {
		return nil, err
	}

	if !e.p.check(token.OPERATOR) {
		return left, nil
	}
	op := e.p.token().Lexeme
	e.p.advance()

	right, err := e.parsePrimary()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: left, Op: op, Right: right}, nil
}

func (e *exprParser) parsePrimary() (Expr, error) {
	tok := e.p.token()

	switch tok.Kind {
	case token.IDENTIFIER, token.QUOTED_IDENTIFIER:
		e.p.advance()
		return &Identifier{Name: tok.Lexeme}, nil

	case token.NUMBER, token.STRING:
		e.p.advance()
		return &Literal{Kind: tok.Kind, Value: tok.Lexeme}, nil

	case token.PAREN_OPEN:
		e.p.advance()
		if err := e.p.enter(); err != nil {
			return nil, err
		}
		inner, err := e.parseOr()
		e.p.leave()
		if err != nil {
			return nil, err
		}
		if _, err := e.p.expect(token.PAREN_CLOSE); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, e.p.errorAtCurrent()
}
