package parser

import (
	"strings"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// FROM clause parsing: relations, joins and the clauses that follow them.
//
// Grammar:
//
//	from_clause   → FROM [ONLY] relation {',' relation} {join}
//	                [WHERE expr] [GROUP BY expr_list [HAVING expr]]
//	                [WINDOW name AS window_spec {',' name AS window_spec}]
//	                [ORDER BY order_list] [limit_clause]
//	relation      → source [[AS] name ['(' name_list ')']]
//	source        → '(' query ')' | VALUES row {',' row} | '(' VALUES ... ')'
//	                | '@' name | [schema '.'] name ['(' args ')'] | TRUE | FALSE
//	join          → CROSS JOIN [LATERAL] relation
//	              | [join_type] JOIN LATERAL relation ON expr
//	              | [NATURAL] [join_type] JOIN relation [join] [ON expr | USING '(' name_list ')']
//	join_type     → INNER | LEFT [OUTER] | RIGHT [OUTER] | FULL [OUTER]

// parseFromClause parses the FROM clause.
func (p *Parser) parseFromClause() (*ast.FromClause, error) {
	start := p.nextToken().Pos // consume FROM
	from := &ast.FromClause{Only: p.match(token.ONLY)}

	// Comma-separated relations are an implicit cross join
	for {
		rel, err := p.parseRelation()
		if err != nil {
			return nil, err
		}
		from.Relations = append(from.Relations, rel)
		if !p.match(token.COMMA) {
			break
		}
	}

	// Parse JOINs
	for p.startsJoin() {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		from.Joins = append(from.Joins, join)
	}

	if err := p.parseTrailingClauses(from); err != nil {
		return nil, err
	}

	from.NodeInfo = p.nodeInfo(start)
	return from, nil
}

// parseTrailingClauses parses WHERE through LIMIT in their fixed order.
func (p *Parser) parseTrailingClauses(from *ast.FromClause) error {
	if p.match(token.WHERE) {
		where, err := p.parseExpr()
		if err != nil {
			return err
		}
		from.Where = where
	}

	// HAVING is only reachable through GROUP BY
	if p.match(token.GROUP) {
		if _, err := p.expect(token.BY); err != nil {
			return err
		}
		exprs, err := p.parseExprList()
		if err != nil {
			return err
		}
		from.GroupBy = exprs

		if p.match(token.HAVING) {
			having, err := p.parseExpr()
			if err != nil {
				return err
			}
			from.Having = having
		}
	}

	if p.match(token.WINDOW) {
		for {
			def, err := p.parseWindowDef()
			if err != nil {
				return err
			}
			from.Windows = append(from.Windows, def)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if p.check(token.ORDER) {
		order, err := p.parseOrderByClause()
		if err != nil {
			return err
		}
		from.OrderBy = order
	}

	if p.check(token.LIMIT) {
		limit, err := p.parseLimitClause()
		if err != nil {
			return err
		}
		from.Limit = limit
	}
	return nil
}

// parseWindowDef parses `name AS window_spec`.
func (p *Parser) parseWindowDef() (*ast.WindowDef, error) {
	start := p.token().Pos
	name, err := p.parseName("window name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.AS); err != nil {
		return nil, err
	}
	spec, err := p.parseWindowSpec()
	if err != nil {
		return nil, err
	}
	return &ast.WindowDef{NodeInfo: p.nodeInfo(start), Name: name, Spec: spec}, nil
}

// parseRelation parses a relation source and its optional alias.
func (p *Parser) parseRelation() (*ast.Relation, error) {
	start := p.token().Pos
	src, err := p.parseRelationSource()
	if err != nil {
		return nil, err
	}
	rel := &ast.Relation{Source: src}

	alias, err := p.parseRelationAlias()
	if err != nil {
		return nil, err
	}
	rel.Alias = alias
	rel.NodeInfo = p.nodeInfo(start)
	return rel, nil
}

// parseRelationSource parses what a relation reads from.
func (p *Parser) parseRelationSource() (ast.RelationSource, error) {
	tok := p.token()

	switch tok.Type {
	case token.LPAREN:
		if p.checkPeek(1, token.VALUES) {
			p.nextToken()
			values, err := p.parseValues()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			values.NodeInfo = p.nodeInfo(tok.Pos)
			return values, nil
		}
		if !p.parenStartsQuery() {
			return nil, p.unexpected("subquery")
		}
		return p.parseSubquery()

	case token.VALUES:
		return p.parseValues()

	case token.VARIABLE:
		p.nextToken()
		return &ast.TableVariable{NodeInfo: p.nodeInfo(tok.Pos), Name: tok.Literal}, nil

	case token.TRUE, token.FALSE:
		// a boolean literal in relation position names a table
		p.nextToken()
		return &ast.ObjectReference{NodeInfo: p.nodeInfo(tok.Pos), Name: tok.Literal}, nil
	}

	if !isName(tok) {
		return nil, p.unexpected("table name", "subquery", "VALUES", "table variable")
	}
	return p.parseObjectReference()
}

// parseObjectReference parses [schema.]name, or a table function call
// when a parenthesis follows.
func (p *Parser) parseObjectReference() (ast.RelationSource, error) {
	start := p.token().Pos
	parts := []string{p.nextToken().Literal}

	for p.match(token.DOT) {
		name, err := p.parseName("table name")
		if err != nil {
			return nil, err
		}
		parts = append(parts, name)
	}
	if len(parts) > 2 {
		return nil, p.errorAt(p.tokens[p.pos-1], ErrTooManyQualifiers, strings.Join(parts, "."))
	}

	schema, name := "", parts[0]
	if len(parts) == 2 {
		schema, name = parts[0], parts[1]
	}

	if p.check(token.LPAREN) {
		return p.parseCallBody(start, schema, name)
	}
	return &ast.ObjectReference{NodeInfo: p.nodeInfo(start), Schema: schema, Name: name}, nil
}

// parseValues parses VALUES (row), (row) ...
func (p *Parser) parseValues() (*ast.Values, error) {
	start := p.nextToken().Pos // consume VALUES
	values := &ast.Values{}
	for {
		rowStart := p.token().Pos
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		items, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		values.Rows = append(values.Rows, &ast.List{NodeInfo: p.nodeInfo(rowStart), Items: items})
		if !p.match(token.COMMA) {
			break
		}
	}
	values.NodeInfo = p.nodeInfo(start)
	return values, nil
}

// parseRelationAlias parses `[AS] name [(col, ...)]`.
func (p *Parser) parseRelationAlias() (*ast.Alias, error) {
	start := p.token().Pos
	explicit := p.match(token.AS)

	tok := p.token()
	if !isName(tok) && tok.Type != token.DQ_STRING {
		if explicit {
			return nil, p.unexpected("alias")
		}
		return nil, nil
	}
	p.nextToken()
	alias := &ast.Alias{Name: tok.Literal}

	if p.check(token.LPAREN) {
		cols, err := p.parseParenNameList("column name")
		if err != nil {
			return nil, err
		}
		alias.Columns = cols
	}
	alias.NodeInfo = p.nodeInfo(start)
	return alias, nil
}

// startsJoin reports whether the cursor is at the start of a join.
func (p *Parser) startsJoin() bool {
	return p.checkAny(token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS, token.NATURAL)
}

// parseJoin parses one join, including any join nested onto its relation.
func (p *Parser) parseJoin() (ast.Join, error) {
	start := p.token().Pos

	if p.match(token.CROSS) {
		return p.parseCrossJoin(start)
	}

	natural := p.match(token.NATURAL)
	joinType, err := p.parseJoinType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.JOIN); err != nil {
		return nil, err
	}

	if p.check(token.LATERAL) {
		if natural {
			return nil, p.errorAt(p.token(), ErrLateralJoinType, "NATURAL "+joinLabel(joinType))
		}
		return p.parseLateralJoin(start, joinType)
	}

	rel, err := p.parseRelation()
	if err != nil {
		return nil, err
	}
	join := &ast.JoinClause{Natural: natural, Type: joinType, Relation: rel}
	if natural {
		join.NodeInfo = p.nodeInfo(start)
		return join, nil
	}

	// a JOIN b JOIN c ON ... ON ...: the inner join binds to b first
	if p.startsJoin() {
		nested, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		join.Nested = nested
	}

	cond, err := p.parseJoinCondition()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, p.errorAt(p.token(), ErrJoinCondition, joinLabel(joinType))
	}
	join.Condition = cond
	join.NodeInfo = p.nodeInfo(start)
	return join, nil
}

// parseJoinType parses the optional join type before JOIN.
func (p *Parser) parseJoinType() (ast.JoinType, error) {
	switch {
	case p.match(token.INNER):
		return ast.JoinInner, nil
	case p.match(token.LEFT):
		if p.match(token.OUTER) {
			return ast.JoinLeftOuter, nil
		}
		return ast.JoinLeft, nil
	case p.match(token.RIGHT):
		if p.match(token.OUTER) {
			return ast.JoinRightOuter, nil
		}
		return ast.JoinRight, nil
	case p.match(token.FULL):
		if p.match(token.OUTER) {
			return ast.JoinFullOuter, nil
		}
		return ast.JoinFull, nil
	case p.check(token.JOIN):
		return ast.JoinPlain, nil
	}
	return "", p.unexpected("JOIN")
}

func joinLabel(t ast.JoinType) string {
	if t == ast.JoinPlain {
		return "JOIN"
	}
	return string(t) + " JOIN"
}

// parseCrossJoin parses what follows CROSS.
func (p *Parser) parseCrossJoin(start token.Position) (ast.Join, error) {
	if _, err := p.expect(token.JOIN); err != nil {
		return nil, err
	}

	if p.match(token.LATERAL) {
		rel, err := p.parseLateralRelation()
		if err != nil {
			return nil, err
		}
		return &ast.LateralCrossJoin{NodeInfo: p.nodeInfo(start), Relation: rel}, nil
	}

	rel, err := p.parseRelation()
	if err != nil {
		return nil, err
	}
	return &ast.CrossJoin{NodeInfo: p.nodeInfo(start), Relation: rel}, nil
}

// parseLateralJoin parses `JOIN LATERAL source alias ON expr` for the
// join types that allow it.
func (p *Parser) parseLateralJoin(start token.Position, joinType ast.JoinType) (ast.Join, error) {
	switch joinType {
	case ast.JoinPlain, ast.JoinInner, ast.JoinLeft, ast.JoinLeftOuter:
	default:
		return nil, p.errorAt(p.token(), ErrLateralJoinType, joinLabel(joinType))
	}
	p.nextToken() // consume LATERAL

	rel, err := p.parseLateralRelation()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.ON); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LateralJoin{NodeInfo: p.nodeInfo(start), Type: joinType, Relation: rel, Condition: cond}, nil
}

// parseLateralRelation parses a lateral source, which must be a function
// call or a subquery.
func (p *Parser) parseLateralRelation() (*ast.Relation, error) {
	tok := p.token()
	rel, err := p.parseRelation()
	if err != nil {
		return nil, err
	}
	switch rel.Source.(type) {
	case *ast.Invocation, *ast.Subquery:
		return rel, nil
	}
	return nil, p.errorAt(tok, ErrLateralSource)
}

// parseJoinCondition parses ON expr or USING (cols). It returns nil when
// neither is present.
func (p *Parser) parseJoinCondition() (ast.JoinCondition, error) {
	start := p.token().Pos
	switch {
	case p.match(token.ON):
		pred, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.OnCondition{NodeInfo: p.nodeInfo(start), Predicate: pred}, nil

	case p.match(token.USING):
		cols, err := p.parseParenNameList("column name")
		if err != nil {
			return nil, err
		}
		return &ast.UsingCondition{NodeInfo: p.nodeInfo(start), Columns: cols}, nil
	}
	return nil, nil
}
