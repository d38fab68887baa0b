// Package parser turns Avenger source text into an ast.File.
//
// # Usage
//
//	file, err := parser.Parse(src)
//	if err != nil {
//	    var se *parser.SyntaxError
//	    if errors.As(err, &se) { ... }
//	}
//
// ParseExpression and ParseQuery parse a bare SQL expression or query.
//
// # Grammar Overview
//
// The parser is a hand-written recursive descent parser over a token slice
// produced up front by the Lexer. The outer declaration language drives the
// top level and delegates to the query and expression parsers:
//
//	file        → statement*
//	statement   → import | property | binding | instance | function
//	property    → [IN|OUT] (VAL|EXPR|DATASET|COMP) ['<' type '>'] name ':' body ';'
//	binding     → name ':' (query | expr) ';'
//	instance    → Pascal '{' statement* '}'
//	function    → FN name '(' [param {',' param}] ')' '->' kind ['<' type '>']
//	              '{' property* RETURN (query | expr) ';' '}'
//	query       → [WITH [RECURSIVE] cte {',' cte}] set_expr
//	set_expr    → select_operand {(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_operand}
//	select      → SELECT [DISTINCT|ALL] select_list [FROM from_clause]
//
// See each file for detailed grammar rules for that section.
//
// Parsing is all-or-nothing: the first *LexError or *SyntaxError aborts the
// parse and no partial tree is returned. A Parser is single-use and holds no
// state shared with other parses, so independent parses may run
// concurrently.
package parser

import (
	"fmt"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
)

// Parser parses a token slice into an AST.
type Parser struct {
	tokens []token.Token // always ends with EOF
	pos    int           // index of the current token

	// parenHead[i] is the type of the first token at or after i that is
	// not "(".
	parenHead []token.TokenType

	// subqueries records every parseSubquery attempt by start index.
	subqueries map[int]subqueryAttempt
}

type subqueryAttempt struct {
	sub *ast.Subquery
	end int
	err error
}

// NewParser tokenizes src and returns a parser positioned at its first
// token.
func NewParser(src string) (*Parser, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		tokens:     tokens,
		parenHead:  make([]token.TokenType, len(tokens)),
		subqueries: make(map[int]subqueryAttempt),
	}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type == token.LPAREN && i+1 < len(tokens) {
			p.parenHead[i] = p.parenHead[i+1]
		} else {
			p.parenHead[i] = tokens[i].Type
		}
	}
	return p, nil
}

// Parse parses a complete program.
func Parse(src string) (*ast.File, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	return p.ParseFile()
}

// ParseExpression parses a single SQL expression, optionally followed by a
// semicolon.
func ParseExpression(src string) (ast.Expr, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.finish("expression"); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseQuery parses a single query, optionally followed by a semicolon.
func ParseQuery(src string) (*ast.Query, error) {
	p, err := NewParser(src)
	if err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := p.finish("query"); err != nil {
		return nil, err
	}
	return q, nil
}

// ParseFile parses statements until end of input.
func (p *Parser) ParseFile() (*ast.File, error) {
	start := p.token().Pos
	var stmts []ast.Statement
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.File{NodeInfo: p.nodeInfo(start), Statements: stmts}, nil
}

// finish accepts an optional trailing semicolon and requires end of input.
func (p *Parser) finish(what string) error {
	p.match(token.SEMICOLON)
	if !p.check(token.EOF) {
		return p.errorAt(p.token(), ErrTrailingInput, p.token(), what)
	}
	return nil
}

// ---------- Token Helpers ----------

// token returns the current token.
func (p *Parser) token() token.Token {
	return p.tokens[p.pos]
}

// peek returns the token n positions ahead, or EOF past the end.
func (p *Parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

// nextToken advances to the next token and returns the one consumed.
func (p *Parser) nextToken() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token().Type == t
}

// checkPeek returns true if the token n positions ahead is of the given type.
func (p *Parser) checkPeek(n int, t token.TokenType) bool {
	return p.peek(n).Type == t
}

// checkAny returns true if the current token is any of the given types.
func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise returns a
// *SyntaxError naming the expected token.
func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if p.check(t) {
		return p.nextToken(), nil
	}
	return token.Token{}, p.unexpected(describe(t))
}

// mark returns the cursor for later backtracking.
func (p *Parser) mark() int { return p.pos }

// reset moves the cursor back to a mark.
func (p *Parser) reset(m int) { p.pos = m }

// prevEnd returns the end of the last consumed token.
func (p *Parser) prevEnd() token.Position {
	if p.pos == 0 {
		return p.tokens[0].Pos
	}
	return p.tokens[p.pos-1].End
}

// nodeInfo spans from start to the end of the last consumed token.
func (p *Parser) nodeInfo(start token.Position) ast.NodeInfo {
	return ast.NodeInfo{Span: token.Span{Start: start, End: p.prevEnd()}}
}

// ---------- Errors ----------

// unexpected reports the current token as not matching any of expected.
func (p *Parser) unexpected(expected ...string) error {
	tok := p.token()
	return &SyntaxError{Pos: tok.Pos, Expected: expected, Found: tok}
}

// errorAt reports a descriptive error at tok.
func (p *Parser) errorAt(tok token.Token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.Pos, Found: tok, Message: fmt.Sprintf(format, args...)}
}

// describe renders a token type for an expected-set entry.
func describe(t token.TokenType) string {
	switch {
	case token.IsKeyword(t):
		return t.String()
	case token.IsOperator(t) || token.IsPunctuation(t):
		return fmt.Sprintf("%q", t.String())
	case t == token.IDENT:
		return "identifier"
	case t == token.PASCAL_IDENT:
		return "component name"
	case t == token.NUMBER:
		return "number"
	case t == token.STRING:
		return "string"
	case t == token.EOF:
		return "end of input"
	}
	return t.String()
}

// ---------- Name Helpers ----------

// isName reports whether tok can be used as an identifier: a plain,
// Pascal or quoted identifier, or a non-reserved keyword.
func isName(tok token.Token) bool {
	return token.IsIdentLike(tok.Type)
}

// isPascalName reports whether tok can name a component: a Pascal
// identifier, or a non-reserved keyword spelled in Pascal case such as
// `Text` or `Line`.
func isPascalName(tok token.Token) bool {
	if tok.Type == token.PASCAL_IDENT {
		return true
	}
	return token.IsKeyword(tok.Type) && !token.IsReserved(tok.Type) && token.IsPascal(tok.Literal)
}

// parseName consumes an identifier-like token and returns its text.
func (p *Parser) parseName(what string) (string, error) {
	if !isName(p.token()) {
		return "", p.unexpected(what)
	}
	return p.nextToken().Literal, nil
}

// parseLowerName consumes a lower-case-leading name (properties, functions,
// parameters).
func (p *Parser) parseLowerName(what string) (string, error) {
	tok := p.token()
	if !isName(tok) || tok.Type == token.QUOTED_IDENT {
		return "", p.unexpected(what + " name")
	}
	if !token.IsLowerName(tok.Literal) {
		return "", p.errorAt(tok, ErrLowerName, what, tok.Literal)
	}
	p.nextToken()
	return tok.Literal, nil
}

// parsePascalName consumes a Pascal-cased name (components, imports).
func (p *Parser) parsePascalName(what string) (string, error) {
	tok := p.token()
	if isPascalName(tok) {
		p.nextToken()
		return tok.Literal, nil
	}
	if isName(tok) && tok.Type != token.QUOTED_IDENT {
		return "", p.errorAt(tok, ErrPascalName, what, tok.Literal)
	}
	return "", p.unexpected(what + " name")
}

// parseNameList parses `name {, name}` with at least one entry.
func (p *Parser) parseNameList(what string) ([]string, error) {
	var names []string
	for {
		name, err := p.parseName(what)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.match(token.COMMA) {
			return names, nil
		}
	}
}

// parseParenNameList parses `( name {, name} )`.
func (p *Parser) parseParenNameList(what string) ([]string, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	names, err := p.parseNameList(what)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return names, nil
}
