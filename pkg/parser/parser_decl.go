package parser

import (
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Declaration parsing: imports, properties, bindings, component instances, functions.
//
// Grammar:
//
//	statement   → import | property | comp_prop | binding | instance | function
//	import      → IMPORT ['{'] import_item {',' import_item} ['}'] FROM STRING ';'
//	import_item → Pascal [AS Pascal]
//	property    → [IN|OUT] (VAL|EXPR) [annotation] name ':' expr ';'
//	            | [IN|OUT] DATASET [annotation] name ':' query ';'
//	comp_prop   → [IN|OUT] COMP [annotation] name ':' instance [';']
//	annotation  → '<' name '>'
//	binding     → name ':' (query | expr) ';'
//	instance    → Pascal '{' statement* '}'
//	function    → FN name '(' [param {',' param}] ')' '->' kind [annotation]
//	              '{' property* return '}'
//	param       → kind [annotation] name
//	return      → RETURN (query | expr) ';'

// propKinds maps the kind keywords to their property kind.
var propKinds = map[token.TokenType]ast.PropKind{
	token.VAL:     ast.KindVal,
	token.EXPR:    ast.KindExpr,
	token.DATASET: ast.KindDataset,
	token.COMP:    ast.KindComp,
}

// parseStatement parses one statement of a file or component body.
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.token()

	switch {
	case tok.Type == token.IMPORT:
		return p.parseImport()
	case tok.Type == token.FN:
		return p.parseFunctionDef()
	case p.startsProperty():
		return p.parseProperty()
	case isPascalName(tok) && p.checkPeek(1, token.LBRACE):
		return p.parseCompInstance()
	case isName(tok) && p.checkPeek(1, token.COLON):
		return p.parseBinding()
	case isName(tok) && p.checkPeek(1, token.LBRACE) && tok.Type != token.QUOTED_IDENT:
		return nil, p.errorAt(tok, ErrPascalName, "component", tok.Literal)
	case isName(tok):
		p.nextToken()
		return nil, p.unexpected(`":"`, `"{"`)
	}
	return nil, p.unexpected("statement")
}

// startsProperty reports whether the cursor is at a property declaration.
// The kind keywords are non-reserved, so `val: 1;` is a binding of a
// property called val while `val x: 1;` declares one.
func (p *Parser) startsProperty() bool {
	n := 0
	switch p.token().Type {
	case token.IN:
		return true
	case token.OUT:
		if _, ok := propKinds[p.peek(1).Type]; !ok {
			return false
		}
		n = 1
	}
	if _, ok := propKinds[p.peek(n).Type]; !ok {
		return false
	}
	next := p.peek(n + 1)
	return next.Type == token.LT || isName(next)
}

// parseImport parses an import statement.
func (p *Parser) parseImport() (ast.Statement, error) {
	start := p.nextToken().Pos // consume IMPORT
	imp := &ast.Import{}

	braced := p.match(token.LBRACE)
	for {
		itemStart := p.token().Pos
		name, err := p.parsePascalName("import")
		if err != nil {
			return nil, err
		}
		item := &ast.ImportItem{Name: name}
		if p.match(token.AS) {
			alias, err := p.parsePascalName("import alias")
			if err != nil {
				return nil, err
			}
			item.Alias = alias
		}
		item.NodeInfo = p.nodeInfo(itemStart)
		imp.Items = append(imp.Items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	if braced {
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	path, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	imp.Path = path.Literal

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	imp.NodeInfo = p.nodeInfo(start)
	return imp, nil
}

// parseProperty parses a qualified, typed property declaration.
func (p *Parser) parseProperty() (ast.Statement, error) {
	start := p.token().Pos

	qual := ast.QualNone
	switch {
	case p.match(token.IN):
		qual = ast.QualIn
	case p.match(token.OUT):
		qual = ast.QualOut
	}

	kind, ok := propKinds[p.token().Type]
	if !ok {
		return nil, p.unexpected("VAL", "EXPR", "DATASET", "COMP")
	}
	p.nextToken()

	typ, err := p.parseTypeAnnotation()
	if err != nil {
		return nil, err
	}
	name, err := p.parseLowerName("property")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}

	switch kind {
	case ast.KindDataset:
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.DatasetProp{NodeInfo: p.nodeInfo(start), Qualifier: qual, Type: typ, Name: name, Value: q}, nil

	case ast.KindComp:
		inst, err := p.parseCompInstance()
		if err != nil {
			return nil, err
		}
		p.match(token.SEMICOLON)
		return &ast.CompProp{NodeInfo: p.nodeInfo(start), Qualifier: qual, Type: typ, Name: name, Value: inst}, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if kind == ast.KindExpr {
		return &ast.ExprProp{NodeInfo: p.nodeInfo(start), Qualifier: qual, Type: typ, Name: name, Value: value}, nil
	}
	return &ast.ValProp{NodeInfo: p.nodeInfo(start), Qualifier: qual, Type: typ, Name: name, Value: value}, nil
}

// parseTypeAnnotation parses an optional `<Type>` and returns its name.
func (p *Parser) parseTypeAnnotation() (string, error) {
	if !p.match(token.LT) {
		return "", nil
	}
	name, err := p.parseName("type")
	if err != nil {
		return "", err
	}
	if _, err := p.expect(token.GT); err != nil {
		return "", err
	}
	return name, nil
}

// parseBinding parses `name: body;`.
func (p *Parser) parseBinding() (ast.Statement, error) {
	start := p.token().Pos
	name := p.nextToken().Literal
	p.nextToken() // consume :

	value, err := p.parseQueryOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.PropBinding{NodeInfo: p.nodeInfo(start), Name: name, Value: value}, nil
}

// parseQueryOrExpr parses a body that may be either a query or an
// expression, ending before the terminating semicolon. A body opening with
// SELECT or WITH is a query. A body opening with a parenthesized query may
// be either `(SELECT ...)` or an expression such as `(SELECT 1) + 1`: the
// query is tried first and kept only if the semicolon follows it,
// otherwise the body is reparsed as an expression.
func (p *Parser) parseQueryOrExpr() (ast.QueryOrExpr, error) {
	if p.checkAny(token.SELECT, token.WITH) {
		return p.parseQuery()
	}
	if !p.parenStartsQuery() {
		return p.parseExpr()
	}

	m := p.mark()
	q, queryErr := p.parseQuery()
	if queryErr == nil {
		if p.check(token.SEMICOLON) {
			return q, nil
		}
		queryErr = p.unexpected(`";"`)
	}
	p.reset(m)

	expr, exprErr := p.parseExpr()
	if exprErr == nil {
		return expr, nil
	}
	return nil, furthest(queryErr, exprErr)
}

// parseCompInstance parses `Name { statement* }`.
func (p *Parser) parseCompInstance() (*ast.CompInstance, error) {
	start := p.token().Pos
	name, err := p.parsePascalName("component")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	inst := &ast.CompInstance{Name: name}
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			return nil, p.unexpected(`"}"`)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		inst.Body = append(inst.Body, stmt)
	}
	p.nextToken() // consume }

	inst.NodeInfo = p.nodeInfo(start)
	return inst, nil
}

// parseFunctionDef parses a function definition. The body holds property
// declarations and ends with exactly one return statement.
func (p *Parser) parseFunctionDef() (ast.Statement, error) {
	start := p.nextToken().Pos // consume FN
	name, err := p.parseLowerName("function")
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDef{Name: name}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	fn.Params = params

	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	kind, ok := propKinds[p.token().Type]
	if !ok {
		return nil, p.unexpected("VAL", "EXPR", "DATASET", "COMP")
	}
	p.nextToken()
	fn.ReturnKind = kind
	if fn.ReturnType, err = p.parseTypeAnnotation(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	for fn.Return == nil {
		switch {
		case p.check(token.RETURN):
			ret, err := p.parseReturn()
			if err != nil {
				return nil, err
			}
			fn.Return = ret
		case p.check(token.RBRACE):
			return nil, p.errorAt(p.token(), ErrMissingReturn, name)
		case p.startsProperty():
			stmt, err := p.parseProperty()
			if err != nil {
				return nil, err
			}
			fn.Body = append(fn.Body, stmt)
		default:
			return nil, p.unexpected("property declaration", "RETURN")
		}
	}
	if !p.check(token.RBRACE) {
		if p.check(token.RETURN) || p.startsProperty() {
			return nil, p.errorAt(p.token(), ErrMisplacedReturn, name)
		}
		return nil, p.unexpected(`"}"`)
	}
	p.nextToken() // consume }

	fn.NodeInfo = p.nodeInfo(start)
	return fn, nil
}

// parseParams parses `( [param {, param}] )`.
func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Param
	if p.match(token.RPAREN) {
		return params, nil
	}
	for {
		start := p.token().Pos
		kind, ok := propKinds[p.token().Type]
		if !ok {
			return nil, p.unexpected("VAL", "EXPR", "DATASET", "COMP")
		}
		p.nextToken()
		typ, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		name, err := p.parseLowerName("parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{NodeInfo: p.nodeInfo(start), Kind: kind, Type: typ, Name: name})
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseReturn parses `return body;`.
func (p *Parser) parseReturn() (*ast.ReturnStatement, error) {
	start := p.nextToken().Pos // consume RETURN
	value, err := p.parseQueryOrExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{NodeInfo: p.nodeInfo(start), Value: value}, nil
}
