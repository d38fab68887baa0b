package parser

import (
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Query parsing: WITH clause, CTEs, set operations, SELECT list, ORDER BY, LIMIT.
//
// Grammar:
//
//	query         → [WITH [RECURSIVE] cte {',' cte}] set_expr
//	cte           → name ['(' name_list ')'] AS [[NOT] MATERIALIZED] '(' query ')'
//	set_expr      → set_operand {(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] set_operand}
//	set_operand   → select | '(' query ')'
//	select        → SELECT [DISTINCT|ALL] select_list [FROM from_clause]
//	select_list   → select_item {',' select_item}
//	select_item   → expr [[AS] alias]
//	order_list    → order_item {',' order_item}
//	order_item    → expr [ASC|DESC | USING operator] [NULLS (FIRST|LAST)]
//	limit_clause  → LIMIT NUMBER [OFFSET NUMBER]
//
// Set operations associate to the left: `a UNION b EXCEPT c` is
// `(a UNION b) EXCEPT c`. Any number of parentheses may wrap a query or a
// set operand.

// parseQuery parses a complete query.
func (p *Parser) parseQuery() (*ast.Query, error) {
	start := p.token().Pos
	q := &ast.Query{}

	// Optional WITH clause
	if p.check(token.WITH) {
		ctes, err := p.parseWithClause()
		if err != nil {
			return nil, err
		}
		q.CTEs = ctes
	}

	opStart := p.token()
	left, inner, err := p.parseSetOperand()
	if err != nil {
		return nil, err
	}

	// `((WITH ... SELECT ...))` on its own is the wrapped query itself
	if inner != nil && len(inner.CTEs) > 0 {
		if q.CTEs != nil || p.startsSetOp() {
			return nil, p.errorAt(opStart, ErrParenthesizedWith)
		}
		return inner, nil
	}

	body, err := p.parseSetOperations(left)
	if err != nil {
		return nil, err
	}
	q.Body = body
	q.NodeInfo = p.nodeInfo(start)
	return q, nil
}

// parseWithClause parses WITH [RECURSIVE] and its CTE list.
func (p *Parser) parseWithClause() ([]*ast.CTE, error) {
	p.nextToken() // consume WITH
	recursive := p.match(token.RECURSIVE)

	var ctes []*ast.CTE
	for {
		cte, err := p.parseCTE(recursive)
		if err != nil {
			return nil, err
		}
		ctes = append(ctes, cte)
		if !p.match(token.COMMA) {
			return ctes, nil
		}
	}
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE(recursive bool) (*ast.CTE, error) {
	start := p.token().Pos
	name, err := p.parseName("CTE name")
	if err != nil {
		return nil, err
	}
	cte := &ast.CTE{Name: name, Recursive: recursive}

	if p.check(token.LPAREN) {
		cols, err := p.parseParenNameList("column name")
		if err != nil {
			return nil, err
		}
		cte.Columns = cols
	}

	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}

	switch {
	case p.match(token.MATERIALIZED):
		cte.Materialized = ast.MaterializeAlways
	case p.check(token.NOT) && p.checkPeek(1, token.MATERIALIZED):
		p.nextToken()
		p.nextToken()
		cte.Materialized = ast.MaterializeNever
	}

	if !p.check(token.LPAREN) {
		return nil, p.unexpected(`"("`)
	}
	sub, err := p.parseSubquery()
	if err != nil {
		return nil, err
	}
	cte.Query = sub.Query
	cte.NodeInfo = p.nodeInfo(start)
	return cte, nil
}

// startsSetOp reports whether the cursor is at a set operator.
func (p *Parser) startsSetOp() bool {
	return p.checkAny(token.UNION, token.INTERSECT, token.EXCEPT)
}

// parseSetOperations folds set operators onto left, nesting to the left.
func (p *Parser) parseSetOperations(left ast.QueryBody) (ast.QueryBody, error) {
	for p.startsSetOp() {
		op := &ast.SetOperation{Left: left}

		switch p.nextToken().Type {
		case token.UNION:
			op.Op = ast.SetOpUnion
		case token.INTERSECT:
			op.Op = ast.SetOpIntersect
		default:
			op.Op = ast.SetOpExcept
		}
		if p.match(token.ALL) {
			op.All = true
		} else {
			p.match(token.DISTINCT) // UNION DISTINCT is UNION
		}

		operandTok := p.token()
		right, inner, err := p.parseSetOperand()
		if err != nil {
			return nil, err
		}
		if inner != nil && len(inner.CTEs) > 0 {
			return nil, p.errorAt(operandTok, ErrParenthesizedWith)
		}
		op.Right = right
		op.NodeInfo = p.nodeInfo(left.Pos())
		left = op
	}
	return left, nil
}

// parseSetOperand parses a SELECT or a parenthesized query. For the
// parenthesized form the inner query is returned as well so the caller can
// decide what to do with its CTEs.
func (p *Parser) parseSetOperand() (ast.QueryBody, *ast.Query, error) {
	switch {
	case p.check(token.SELECT):
		sel, err := p.parseSelect()
		if err != nil {
			return nil, nil, err
		}
		return sel, nil, nil

	case p.check(token.LPAREN):
		sub, err := p.parseSubquery()
		if err != nil {
			return nil, nil, err
		}
		return sub.Query.Body, sub.Query, nil
	}
	return nil, nil, p.unexpected("SELECT", "WITH", `"("`)
}

// parseSelect parses a single SELECT clause.
func (p *Parser) parseSelect() (*ast.SelectStatement, error) {
	start := p.nextToken().Pos // consume SELECT
	sel := &ast.SelectStatement{}

	// DISTINCT / ALL
	if p.match(token.DISTINCT) {
		sel.Distinct = true
	} else {
		p.match(token.ALL)
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	sel.Projection = items

	if p.check(token.FROM) {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		sel.From = from
	}

	sel.NodeInfo = p.nodeInfo(start)
	return sel, nil
}

// parseSelectList parses the projection; at least one item is required.
func (p *Parser) parseSelectList() ([]*ast.SelectItem, error) {
	var items []*ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			return items, nil
		}
	}
}

// parseSelectItem parses a single select list item.
func (p *Parser) parseSelectItem() (*ast.SelectItem, error) {
	start := p.token().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	item := &ast.SelectItem{Expr: expr}

	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	item.Alias = alias
	item.NodeInfo = p.nodeInfo(start)
	return item, nil
}

// parseOptionalAlias parses `AS alias` or a bare alias. A bare alias is an
// identifier, a non-reserved keyword or a double-quoted string; after AS a
// single-quoted string is accepted too.
func (p *Parser) parseOptionalAlias() (string, error) {
	if p.match(token.AS) {
		tok := p.token()
		if isName(tok) || tok.Type == token.DQ_STRING || tok.Type == token.STRING {
			p.nextToken()
			return tok.Literal, nil
		}
		return "", p.unexpected("alias")
	}
	if tok := p.token(); isName(tok) || tok.Type == token.DQ_STRING {
		p.nextToken()
		return tok.Literal, nil
	}
	return "", nil
}

// parseOrderByClause parses ORDER BY and its target list.
func (p *Parser) parseOrderByClause() ([]*ast.OrderTarget, error) {
	if _, err := p.expect(token.ORDER); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.BY); err != nil {
		return nil, err
	}

	var targets []*ast.OrderTarget
	for {
		target, err := p.parseOrderTarget()
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		if !p.match(token.COMMA) {
			return targets, nil
		}
	}
}

// parseOrderTarget parses one ORDER BY entry.
func (p *Parser) parseOrderTarget() (*ast.OrderTarget, error) {
	start := p.token().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	target := &ast.OrderTarget{Expr: expr}

	switch {
	case p.match(token.ASC):
		target.Direction = ast.SortAsc
	case p.match(token.DESC):
		target.Direction = ast.SortDesc
	case p.match(token.USING):
		op := p.token()
		if !token.IsOperator(op.Type) {
			return nil, p.unexpected("operator")
		}
		p.nextToken()
		target.Using = op.Literal
		if p.checkAny(token.ASC, token.DESC) {
			return nil, p.errorAt(p.token(), ErrOrderDirectionAndOp)
		}
	}

	if p.match(token.NULLS) {
		switch {
		case p.match(token.FIRST):
			target.Nulls = ast.NullsFirst
		case p.match(token.LAST):
			target.Nulls = ast.NullsLast
		default:
			return nil, p.unexpected("FIRST", "LAST")
		}
	}

	target.NodeInfo = p.nodeInfo(start)
	return target, nil
}

// parseLimitClause parses LIMIT count [OFFSET n]. Both values must be
// numeric literals.
func (p *Parser) parseLimitClause() (*ast.Limit, error) {
	start := p.nextToken().Pos // consume LIMIT
	limit := &ast.Limit{}

	count, err := p.parseLimitLiteral("LIMIT")
	if err != nil {
		return nil, err
	}
	limit.Count = count

	if p.match(token.OFFSET) {
		offset, err := p.parseLimitLiteral("OFFSET")
		if err != nil {
			return nil, err
		}
		limit.Offset = offset
	}

	limit.NodeInfo = p.nodeInfo(start)
	return limit, nil
}

func (p *Parser) parseLimitLiteral(clause string) (*ast.Literal, error) {
	tok := p.token()
	if tok.Type != token.NUMBER {
		return nil, p.errorAt(tok, ErrLimitLiteral, clause)
	}
	p.nextToken()
	return &ast.Literal{NodeInfo: ast.NodeInfo{Span: tok.Span()}, Kind: ast.LiteralNumber, Value: tok.Literal}, nil
}
