package parser

import (
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Expression precedence parsing by precedence climbing over the static
// table in precedence.go (highest binding first):
//
//	binary_is > unary_not > binary_exp > binary_times > binary_plus >
//	unary_other > binary_op > binary_in > binary_compare > binary_relation >
//	pattern_matching > between > AND > OR
//
// Grammar:
//
//	expr         → prefix {infix_op expr}
//	prefix       → unary_not_op expr | unary_other_op expr | postfix
//	postfix      → primary {'::' type | '[' expr ']' | '[' [expr] ':' [expr] ']'}
//	is_expr      → expr IS [NOT] [DISTINCT FROM] expr
//	in_expr      → expr [NOT] IN ( '(' expr {',' expr} ')' | subquery )
//	like_expr    → expr [NOT] (LIKE | ILIKE | SIMILAR TO) expr
//	between_expr → expr [NOT] BETWEEN expr AND expr

// parseExpr parses a full expression.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseExpressionWithPrecedence(precOr)
}

// parseExpressionWithPrecedence consumes a prefix expression and then every
// infix operator binding at least as tightly as minPrec.
func (p *Parser) parseExpressionWithPrecedence(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefixExpr()
	if err != nil {
		return nil, err
	}

	for {
		prec := p.infixPrecedence()
		if prec == precNone || prec < minPrec {
			return left, nil
		}
		left, err = p.parseInfixExpr(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

// parsePrefixExpr parses unary operators and primary expressions.
func (p *Parser) parsePrefixExpr() (ast.Expr, error) {
	tok := p.token()

	// NOT EXISTS stays a plain NOT over an Exists node
	if unaryNot[tok.Type] {
		p.nextToken()
		operand, err := p.parseExpressionWithPrecedence(notOperandPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{NodeInfo: p.nodeInfo(tok.Pos), Op: unaryOpName(tok), Operand: operand}, nil
	}

	if unaryOther[tok.Type] {
		p.nextToken()
		operand, err := p.parseExpressionWithPrecedence(otherOperandPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{NodeInfo: p.nodeInfo(tok.Pos), Op: tok.Literal, Operand: operand}, nil
	}

	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(primary)
}

func unaryOpName(tok token.Token) string {
	if token.IsKeyword(tok.Type) {
		return tok.Type.String()
	}
	return tok.Literal
}

// parsePostfix applies casts and subscripts, which bind tighter than any
// infix operator.
func (p *Parser) parsePostfix(expr ast.Expr) (ast.Expr, error) {
	start := expr.Pos()
	for {
		switch {
		case p.match(token.DCOLON):
			typ, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			expr = &ast.Cast{NodeInfo: p.nodeInfo(start), Expr: expr, Type: typ, Shorthand: true}

		case p.check(token.LBRACKET):
			sub, err := p.parseSubscript(expr)
			if err != nil {
				return nil, err
			}
			expr = sub

		default:
			return expr, nil
		}
	}
}

// parseSubscript parses [index] or [lower:upper] after expr.
func (p *Parser) parseSubscript(expr ast.Expr) (ast.Expr, error) {
	p.nextToken() // consume [
	sub := &ast.Subscript{Expr: expr}

	if !p.check(token.COLON) {
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sub.Index = idx
	}

	if p.match(token.COLON) {
		sub.Slice = true
		sub.Lower, sub.Index = sub.Index, nil
		if !p.check(token.RBRACKET) {
			upper, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			sub.Upper = upper
		}
	}

	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	sub.NodeInfo = p.nodeInfo(expr.Pos())
	return sub, nil
}

// parseInfixExpr parses the operator at the cursor and its right operand.
func (p *Parser) parseInfixExpr(left ast.Expr, prec int) (ast.Expr, error) {
	switch p.token().Type {
	case token.IS:
		return p.parseIsExpr(left)
	case token.NOT:
		p.nextToken() // consume NOT; infixPrecedence has checked what follows
		return p.parseNegatableInfix(left, true)
	case token.IN, token.LIKE, token.ILIKE, token.SIMILAR, token.BETWEEN:
		return p.parseNegatableInfix(left, false)
	}

	op := p.nextToken()
	right, err := p.parseExpressionWithPrecedence(prec + 1)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{
		NodeInfo: p.nodeInfo(left.Pos()),
		Left:     left,
		Op:       binaryOpName(op),
		Right:    right,
	}, nil
}

// binaryOpName returns the canonical spelling of a single-token operator.
func binaryOpName(tok token.Token) string {
	if token.IsKeyword(tok.Type) {
		return tok.Type.String()
	}
	return tok.Literal
}

// parseNegatableInfix parses IN, LIKE, ILIKE, SIMILAR TO and BETWEEN, each
// optionally preceded by an already-consumed NOT.
func (p *Parser) parseNegatableInfix(left ast.Expr, not bool) (ast.Expr, error) {
	prefix := ""
	if not {
		prefix = "NOT "
	}

	switch p.nextToken().Type {
	case token.IN:
		right, err := p.parseInRightHand()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{NodeInfo: p.nodeInfo(left.Pos()), Left: left, Op: prefix + "IN", Right: right}, nil

	case token.BETWEEN:
		return p.parseBetweenExpr(left, not)

	case token.SIMILAR:
		if _, err := p.expect(token.TO); err != nil {
			return nil, err
		}
		return p.parsePatternRight(left, prefix+"SIMILAR TO")

	case token.ILIKE:
		return p.parsePatternRight(left, prefix+"ILIKE")

	default: // LIKE
		return p.parsePatternRight(left, prefix+"LIKE")
	}
}

func (p *Parser) parsePatternRight(left ast.Expr, op string) (ast.Expr, error) {
	right, err := p.parseExpressionWithPrecedence(precPattern + 1)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{NodeInfo: p.nodeInfo(left.Pos()), Left: left, Op: op, Right: right}, nil
}

// parseIsExpr parses IS [NOT] [DISTINCT FROM] as one multi-word operator.
// The NOT here belongs to the operator and never starts a unary
// expression: `x IS NOT DISTINCT FROM y` has operator
// "IS NOT DISTINCT FROM".
func (p *Parser) parseIsExpr(left ast.Expr) (ast.Expr, error) {
	p.nextToken() // consume IS

	op := "IS"
	if p.match(token.NOT) {
		op += " NOT"
	}
	if p.match(token.DISTINCT) {
		if _, err := p.expect(token.FROM); err != nil {
			return nil, err
		}
		op += " DISTINCT FROM"
	}

	right, err := p.parseExpressionWithPrecedence(precIs + 1)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{NodeInfo: p.nodeInfo(left.Pos()), Left: left, Op: op, Right: right}, nil
}

// parseInRightHand parses the right-hand side of IN, which must be a
// parenthesized list (even of one element) or a subquery.
func (p *Parser) parseInRightHand() (ast.Expr, error) {
	if !p.check(token.LPAREN) {
		return nil, p.errorAt(p.token(), ErrInRightHand)
	}
	if !p.parenStartsQuery() {
		return p.parseInList()
	}

	m := p.mark()
	sub, queryErr := p.parseSubquery()
	if queryErr == nil {
		return sub, nil
	}
	p.reset(m)
	list, listErr := p.parseInList()
	if listErr == nil {
		return list, nil
	}
	return nil, furthest(queryErr, listErr)
}

// parseInList parses `( expr {, expr} )`; a single element still yields a
// List.
func (p *Parser) parseInList() (ast.Expr, error) {
	start := p.nextToken().Pos // consume (
	items, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.List{NodeInfo: p.nodeInfo(start), Items: items}, nil
}

// parseBetweenExpr parses `[NOT] BETWEEN low AND high` after the keyword.
func (p *Parser) parseBetweenExpr(left ast.Expr, not bool) (ast.Expr, error) {
	low, err := p.parseBetweenBound()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AND); err != nil {
		return nil, err
	}
	high, err := p.parseBetweenBound()
	if err != nil {
		return nil, err
	}
	return &ast.Between{NodeInfo: p.nodeInfo(left.Pos()), Expr: left, Not: not, Low: low, High: high}, nil
}

// parseBetweenBound parses one BETWEEN operand strictly above the between
// level. An AND that follows the operand is therefore never absorbed into
// it: after low it is the BETWEEN separator, and after high it starts a
// new boolean clause, so `x BETWEEN 1 AND 10 AND y` is
// `(x BETWEEN 1 AND 10) AND y`.
func (p *Parser) parseBetweenBound() (ast.Expr, error) {
	return p.parseExpressionWithPrecedence(precBetween + 1)
}

// parseExprList parses `expr {, expr}` with at least one element.
func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if !p.match(token.COMMA) {
			return exprs, nil
		}
	}
}
