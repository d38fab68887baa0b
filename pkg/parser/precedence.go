package parser

import "github.com/avenger-vis/avenger/pkg/token"

// Binding levels, lowest to highest. The climbing loop in parser_expr.go
// keeps consuming infix operators whose level is at least the current
// minimum; every binary level is left-associative.
const (
	precNone        = iota
	precOr          // OR
	precAnd         // AND
	precBetween     // [NOT] BETWEEN low AND high
	precPattern     // [NOT] LIKE, [NOT] ILIKE, [NOT] SIMILAR TO
	precRelation    // = != <> < > <= >=
	precCompare     // ~ ~* !~ !~* @> <@ &&
	precIn          // [NOT] IN
	precOp          // || -> ->> #> #>> << >> & | #
	precUnaryOther  // prefix + - ~ !! |/ ||/
	precPlus        // + -
	precTimes       // * / %
	precExp         // ^
	precUnaryNot    // prefix NOT ! ANY SOME ALL
	precIs          // IS [NOT] [DISTINCT FROM]
	precPostfix     // ::type, [i], [lo:hi]
)

// symbolPrecedence is the level of every single-token infix operator.
var symbolPrecedence = map[token.TokenType]int{
	token.OR:  precOr,
	token.AND: precAnd,

	token.EQ: precRelation,
	token.NE: precRelation,
	token.LT: precRelation,
	token.GT: precRelation,
	token.LE: precRelation,
	token.GE: precRelation,

	token.TILDE:        precCompare,
	token.TILDE_STAR:   precCompare,
	token.NOT_TILDE:    precCompare,
	token.NOT_TILDE_ST: precCompare,
	token.CONTAINS:     precCompare,
	token.CONTAINED_BY: precCompare,
	token.OVERLAP:      precCompare,

	token.DPIPE:       precOp,
	token.ARROW:       precOp,
	token.DARROW:      precOp,
	token.HASH_ARROW:  precOp,
	token.HASH_DARROW: precOp,
	token.LSHIFT:      precOp,
	token.RSHIFT:      precOp,
	token.AMPERSAND:   precOp,
	token.PIPE:        precOp,
	token.HASH:        precOp,

	token.PLUS:  precPlus,
	token.MINUS: precPlus,

	token.STAR:    precTimes,
	token.SLASH:   precTimes,
	token.PERCENT: precTimes,

	token.CARET: precExp,
}

// unaryOther lists the symbolic prefix operators bound at precUnaryOther.
var unaryOther = map[token.TokenType]bool{
	token.PLUS:  true,
	token.MINUS: true,
	token.TILDE: true,
	token.DBANG: true,
	token.SQRT:  true,
	token.CBRT:  true,
}

// unaryNot lists the prefix operators bound at precUnaryNot.
var unaryNot = map[token.TokenType]bool{
	token.NOT:  true,
	token.BANG: true,
	token.ANY:  true,
	token.SOME: true,
	token.ALL:  true,
}

// notOperandPrec is the level at which the operand of a unary_not operator
// is parsed. It sits just above AND so that `NOT a AND b` is
// `(NOT a) AND b` while `NOT a = b` is `NOT (a = b)`.
const notOperandPrec = precBetween

// otherOperandPrec is the level at which the operand of a unary_other
// operator is parsed. Arithmetic binds tighter than these operators.
const otherOperandPrec = precPlus

// infixPrecedence returns the binding level of the infix operator at the
// cursor, or precNone if the current token does not continue an
// expression. Multi-word operators are recognized by lookahead here so the
// climbing loop never commits to a partial operator.
func (p *Parser) infixPrecedence() int {
	tok := p.token()
	switch tok.Type {
	case token.IS:
		return precIs
	case token.IN:
		return precIn
	case token.LIKE, token.ILIKE:
		return precPattern
	case token.SIMILAR:
		if p.checkPeek(1, token.TO) {
			return precPattern
		}
		return precNone
	case token.BETWEEN:
		return precBetween
	case token.NOT:
		return p.notInfixPrecedence()
	}
	if prec, ok := symbolPrecedence[tok.Type]; ok {
		return prec
	}
	return precNone
}

// notInfixPrecedence decides whether a NOT at the cursor negates an infix
// operator (NOT IN, NOT LIKE, NOT SIMILAR TO, NOT BETWEEN). Any other NOT
// cannot follow a complete operand.
func (p *Parser) notInfixPrecedence() int {
	switch p.peek(1).Type {
	case token.IN:
		return precIn
	case token.LIKE, token.ILIKE:
		return precPattern
	case token.SIMILAR:
		if p.checkPeek(2, token.TO) {
			return precPattern
		}
	case token.BETWEEN:
		return precBetween
	}
	return precNone
}
