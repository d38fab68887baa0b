package parser

import (
	"strconv"
	"strings"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Primary expression parsing: literals, field references, parameters,
// function calls and arrays.
//
// Grammar:
//
//	primary     → literal | param | field_ref | invocation | paren_expr | case_expr
//	              | cast_expr | exists_expr | array | interval | typed_literal | '*'
//	literal     → NUMBER | STRING | DQ_STRING | BIT_STRING | TRUE | FALSE | NULL
//	param       → '?' | '$' NUMBER | '@' name
//	field_ref   → name ['.' name ['.' name]] | name '.' '*'
//	invocation  → [schema '.'] name '(' [DISTINCT] [args] [ORDER BY order_list]
//	              [SEPARATOR expr] [LIMIT expr] ')' [WITHIN GROUP '(' ORDER BY order_list ')']
//	              [FILTER '(' WHERE expr ')'] [OVER (name | window_spec)]
//	array       → ARRAY '[' [expr_list] ']' | ARRAY '(' query ')' | '[' [expr_list] ']'
//	interval    → INTERVAL STRING [unit]

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.token()

	switch tok.Type {
	case token.NUMBER:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.nodeInfo(tok.Pos), Kind: ast.LiteralNumber, Value: tok.Literal}, nil

	case token.STRING, token.DQ_STRING:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.nodeInfo(tok.Pos), Kind: ast.LiteralString, Value: tok.Literal}, nil

	case token.BIT_STRING:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.nodeInfo(tok.Pos), Kind: ast.LiteralBitString, Value: tok.Literal}, nil

	case token.TRUE, token.FALSE:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.nodeInfo(tok.Pos), Kind: ast.LiteralBool, Value: strings.ToLower(tok.Literal)}, nil

	case token.NULL:
		p.nextToken()
		return &ast.Literal{NodeInfo: p.nodeInfo(tok.Pos), Kind: ast.LiteralNull, Value: "null"}, nil

	case token.PARAM, token.VARIABLE:
		return p.parseParameter()

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		return p.parseCastExpr()

	case token.EXISTS:
		return p.parseExistsExpr()

	case token.ARRAY:
		return p.parseArrayExpr()

	case token.LBRACKET:
		return p.parseArrayElements(tok.Pos)

	case token.INTERVAL:
		return p.parseIntervalExpr()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		p.nextToken()
		return &ast.Star{NodeInfo: p.nodeInfo(tok.Pos)}, nil

	case token.LEFT, token.RIGHT:
		// string functions spelled like join keywords
		if p.checkPeek(1, token.LPAREN) {
			p.nextToken()
			return p.parseInvocation(tok.Pos, "", tok.Type.String())
		}
	}

	if isTypeKeyword(tok.Type) && p.checkPeek(1, token.STRING) {
		return p.parseTypedLiteral()
	}

	if isName(tok) {
		return p.parseNameExpr()
	}

	return nil, p.unexpected("expression")
}

// parseParameter parses ?, $n and @name.
func (p *Parser) parseParameter() (ast.Expr, error) {
	tok := p.nextToken()
	param := &ast.Parameter{NodeInfo: p.nodeInfo(tok.Pos)}

	switch {
	case tok.Type == token.VARIABLE:
		param.Kind = ast.ParamNamed
		param.Name = tok.Literal
	case tok.Literal == "?":
		param.Kind = ast.ParamPositional
	default:
		n, err := strconv.Atoi(tok.Literal[1:])
		if err != nil {
			return nil, p.errorAt(tok, "invalid parameter %s", tok.Literal)
		}
		param.Kind = ast.ParamNumbered
		param.Index = n
	}
	return param, nil
}

// parseNameExpr parses a field reference, qualified star or invocation
// starting with a name.
func (p *Parser) parseNameExpr() (ast.Expr, error) {
	start := p.token().Pos
	parts := []string{p.nextToken().Literal}

	for p.check(token.DOT) {
		p.nextToken()
		if p.check(token.STAR) {
			p.nextToken()
			if len(parts) > 2 {
				return nil, p.errorAt(p.tokens[p.pos-1], ErrTooManyQualifiers, strings.Join(parts, ".")+".*")
			}
			return &ast.Star{NodeInfo: p.nodeInfo(start), Table: strings.Join(parts, ".")}, nil
		}
		name, err := p.parseName("identifier")
		if err != nil {
			return nil, err
		}
		parts = append(parts, name)
	}

	if p.check(token.LPAREN) {
		switch len(parts) {
		case 1:
			return p.parseInvocation(start, "", parts[0])
		case 2:
			return p.parseInvocation(start, parts[0], parts[1])
		}
		return nil, p.errorAt(p.token(), ErrTooManyQualifiers, strings.Join(parts, "."))
	}

	ref := &ast.FieldReference{}
	switch len(parts) {
	case 1:
		ref.Name = parts[0]
	case 2:
		ref.Table, ref.Name = parts[0], parts[1]
	case 3:
		ref.Schema, ref.Table, ref.Name = parts[0], parts[1], parts[2]
	default:
		return nil, p.errorAt(p.tokens[p.pos-1], ErrTooManyQualifiers, strings.Join(parts, "."))
	}
	ref.NodeInfo = p.nodeInfo(start)
	return ref, nil
}

// parseInvocation parses a call whose name has been consumed; the cursor
// is at the opening parenthesis.
func (p *Parser) parseInvocation(start token.Position, schema, name string) (ast.Expr, error) {
	call, err := p.parseCallBody(start, schema, name)
	if err != nil {
		return nil, err
	}
	if !p.check(token.OVER) {
		return call, nil
	}
	return p.parseWindowFunction(call)
}

// parseCallBody parses `( args ) [WITHIN GROUP (...)] [FILTER (WHERE ...)]`.
func (p *Parser) parseCallBody(start token.Position, schema, name string) (*ast.Invocation, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	call := &ast.Invocation{Schema: schema, Name: name}

	if !p.check(token.RPAREN) {
		if p.match(token.DISTINCT) {
			call.Distinct = true
		} else {
			p.match(token.ALL)
		}

		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		call.Args = args

		if p.check(token.ORDER) {
			order, err := p.parseOrderByClause()
			if err != nil {
				return nil, err
			}
			call.OrderBy = order
		}
		if p.match(token.SEPARATOR) {
			sep, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Separator = sep
		}
		if p.match(token.LIMIT) {
			limit, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Limit = limit
		}
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	// WITHIN GROUP (ORDER BY ...) is the ordered-set aggregate spelling
	if p.check(token.WITHIN) && p.checkPeek(1, token.GROUP) {
		p.nextToken()
		p.nextToken()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		order, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		call.OrderBy = order
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	// FILTER clause (for aggregates)
	if p.match(token.FILTER) {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.WHERE); err != nil {
			return nil, err
		}
		filter, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Filter = filter
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	call.NodeInfo = p.nodeInfo(start)
	return call, nil
}

// parseArrayExpr parses ARRAY[...] or ARRAY(query).
func (p *Parser) parseArrayExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume ARRAY

	if p.check(token.LPAREN) {
		sub, err := p.parseSubquery()
		if err != nil {
			return nil, err
		}
		return &ast.ArrayConstructor{NodeInfo: p.nodeInfo(start), Query: sub.Query}, nil
	}
	if !p.check(token.LBRACKET) {
		return nil, p.unexpected(`"["`, `"("`)
	}
	return p.parseArrayElements(start)
}

// parseArrayElements parses `[ [expr {, expr}] ]`.
func (p *Parser) parseArrayElements(start token.Position) (ast.Expr, error) {
	p.nextToken() // consume [
	arr := &ast.ArrayConstructor{}
	if !p.check(token.RBRACKET) {
		elems, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		arr.Elements = elems
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	arr.NodeInfo = p.nodeInfo(start)
	return arr, nil
}

var intervalUnits = map[string]bool{
	"year": true, "years": true, "month": true, "months": true,
	"week": true, "weeks": true, "day": true, "days": true,
	"hour": true, "hours": true, "minute": true, "minutes": true,
	"second": true, "seconds": true, "millisecond": true, "milliseconds": true,
	"microsecond": true, "microseconds": true, "quarter": true, "decade": true,
	"century": true, "millennium": true,
}

// parseIntervalExpr parses INTERVAL 'value' [unit]. Only known unit words
// are taken as the unit so a following alias is left alone.
func (p *Parser) parseIntervalExpr() (ast.Expr, error) {
	start := p.nextToken().Pos // consume INTERVAL
	val, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	iv := &ast.Interval{Value: val.Literal}
	if tok := p.token(); isName(tok) && intervalUnits[strings.ToLower(tok.Literal)] {
		p.nextToken()
		iv.Unit = strings.ToUpper(tok.Literal)
	}
	iv.NodeInfo = p.nodeInfo(start)
	return iv, nil
}

// parseTypedLiteral parses `type 'text'`, e.g. DATE '2024-01-01', as a
// cast of the string literal.
func (p *Parser) parseTypedLiteral() (ast.Expr, error) {
	start := p.token().Pos
	typTok := p.nextToken()
	typ := &ast.TypeName{NodeInfo: p.nodeInfo(start), Name: typTok.Type.String()}
	strTok := p.nextToken()
	lit := &ast.Literal{
		NodeInfo: ast.NodeInfo{Span: strTok.Span()},
		Kind:     ast.LiteralString,
		Value:    strTok.Literal,
	}
	return &ast.Cast{NodeInfo: p.nodeInfo(start), Expr: lit, Type: typ}, nil
}

// isTypeKeyword reports whether t names a built-in data type.
func isTypeKeyword(t token.TokenType) bool {
	return t >= token.BIGINT && t <= token.XML && t != token.VARYING
}
