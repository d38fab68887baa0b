package parser

import (
	"errors"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Special expression parsing: CASE, CAST, EXISTS, parenthesized expressions, subqueries.
//
// Grammar:
//
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → CAST '(' expr AS type_name ')'
//	exists_expr   → EXISTS '(' query ')'
//	paren_expr    → '(' query ')' | '(' expr ')' | '(' expr {',' expr} ')'
//	type_name     → [schema '.'] name ['(' modifier {',' modifier} ')'] {'[' [NUMBER] ']'}

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume CASE
	caseExpr := &ast.Case{}

	if p.checkAny(token.END, token.ELSE, token.THEN, token.EOF) {
		return nil, p.unexpected("WHEN")
	}

	// Simple CASE: CASE expr WHEN ...
	if !p.check(token.WHEN) {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Operand = operand
	}

	if !p.check(token.WHEN) {
		return nil, p.unexpected("WHEN")
	}

	// WHEN clauses
	for p.check(token.WHEN) {
		whenStart := p.nextToken().Pos
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.THEN); err != nil {
			return nil, err
		}
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Whens = append(caseExpr.Whens, &ast.When{
			NodeInfo:  p.nodeInfo(whenStart),
			Condition: cond,
			Result:    result,
		})
	}

	// ELSE clause
	if p.match(token.ELSE) {
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		caseExpr.Else = elseExpr
	}

	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	caseExpr.NodeInfo = p.nodeInfo(start)
	return caseExpr, nil
}

// parseCastExpr parses a CAST expression.
func (p *Parser) parseCastExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume CAST
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Cast{NodeInfo: p.nodeInfo(start), Expr: expr, Type: typ}, nil
}

// parseTypeName parses a type name with optional modifiers and array
// dimensions. Built-in types are recorded by their canonical keyword, which
// folds synonyms and multi-word spellings.
func (p *Parser) parseTypeName() (*ast.TypeName, error) {
	start := p.token().Pos
	if !isName(p.token()) {
		return nil, p.unexpected("type name")
	}
	typ := &ast.TypeName{Name: typeNameText(p.nextToken())}

	if p.match(token.DOT) {
		if !isName(p.token()) {
			return nil, p.unexpected("type name")
		}
		typ.Schema = typ.Name
		typ.Name = typeNameText(p.nextToken())
	}

	// Type parameters like VARCHAR(255) or DECIMAL(10, 2)
	if p.match(token.LPAREN) {
		for {
			tok := p.token()
			if tok.Type != token.NUMBER && !isName(tok) {
				return nil, p.unexpected("type modifier")
			}
			p.nextToken()
			typ.Modifiers = append(typ.Modifiers, tok.Literal)
			if !p.match(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	// int[] and int[3]; a non-numeric bracket is left for subscripting
	for p.check(token.LBRACKET) {
		switch {
		case p.checkPeek(1, token.RBRACKET):
			p.nextToken()
		case p.checkPeek(1, token.NUMBER) && p.checkPeek(2, token.RBRACKET):
			p.nextToken()
			p.nextToken()
		default:
			typ.NodeInfo = p.nodeInfo(start)
			return typ, nil
		}
		p.nextToken()
		typ.ArrayDims++
	}

	typ.NodeInfo = p.nodeInfo(start)
	return typ, nil
}

func typeNameText(tok token.Token) string {
	if token.IsKeyword(tok.Type) {
		return tok.Type.String()
	}
	return tok.Literal
}

// parseExistsExpr parses an EXISTS expression.
func (p *Parser) parseExistsExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume EXISTS
	if !p.check(token.LPAREN) {
		return nil, p.unexpected(`"("`)
	}
	sub, err := p.parseSubquery()
	if err != nil {
		return nil, err
	}
	return &ast.Exists{NodeInfo: p.nodeInfo(start), Query: sub.Query}, nil
}

// parseParenExpr parses a parenthesized expression, row list or subquery.
// A parenthesis that opens (possibly nested) SELECT or WITH is first tried
// as a subquery; if that fails the cursor is restored and the text is
// parsed as a grouped expression, so `((SELECT 1) + 1)` still works. When
// both attempts fail the error that got further is reported.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if p.parenStartsQuery() {
		m := p.mark()
		sub, queryErr := p.parseSubquery()
		if queryErr == nil {
			return sub, nil
		}
		p.reset(m)
		expr, exprErr := p.parseGroupedExpr()
		if exprErr == nil {
			return expr, nil
		}
		return nil, furthest(queryErr, exprErr)
	}
	return p.parseGroupedExpr()
}

// parseGroupedExpr parses `( expr )` or the row form `( expr, expr ... )`.
func (p *Parser) parseGroupedExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume (

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.check(token.COMMA) {
		items := []ast.Expr{expr}
		for p.match(token.COMMA) {
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.List{NodeInfo: p.nodeInfo(start), Items: items}, nil
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.GroupedExpression{NodeInfo: p.nodeInfo(start), Expr: expr}, nil
}

// parenStartsQuery reports whether the parenthesis at the cursor opens a
// query: one or more '(' followed by SELECT or WITH.
func (p *Parser) parenStartsQuery() bool {
	if !p.check(token.LPAREN) {
		return false
	}
	t := p.parenHead[p.pos]
	return t == token.SELECT || t == token.WITH
}

// parseSubquery parses `( query )`. The outcome at each start index is
// recorded, and later attempts at that index replay it.
func (p *Parser) parseSubquery() (*ast.Subquery, error) {
	at := p.pos
	if a, ok := p.subqueries[at]; ok {
		if a.err == nil {
			p.pos = a.end
		}
		return a.sub, a.err
	}
	sub, err := p.parseParenQuery()
	p.subqueries[at] = subqueryAttempt{sub: sub, end: p.pos, err: err}
	return sub, err
}

func (p *Parser) parseParenQuery() (*ast.Subquery, error) {
	start := p.token().Pos
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Subquery{NodeInfo: p.nodeInfo(start), Query: q}, nil
}

// furthest returns whichever error is positioned later in the source,
// preferring a on a tie.
func furthest(a, b error) error {
	var sa, sb *SyntaxError
	if !errors.As(a, &sa) || !errors.As(b, &sb) {
		return a
	}
	if sa.Pos.Offset < sb.Pos.Offset {
		return b
	}
	return a
}
