package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avenger-vis/avenger/pkg/token"
)

// Sentinel errors for errors.Is matching.
var (
	ErrSyntax = errors.New("syntax error")
	ErrLex    = errors.New("lexer error")
)

// SyntaxError reports a token sequence that matches no grammar rule.
type SyntaxError struct {
	Pos      token.Position
	Expected []string // token kinds or keywords that would have been accepted
	Found    token.Token
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Detail())
}

// Detail returns the message without the position prefix.
func (e *SyntaxError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf(ErrUnexpectedToken, e.Found, expectedList(e.Expected))
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// LexError reports malformed input text.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is reports whether target is ErrLex.
func (e *LexError) Is(target error) bool { return target == ErrLex }

// ErrorPosition returns the source position of a *SyntaxError or *LexError.
func ErrorPosition(err error) (token.Position, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Pos, true
	}
	var le *LexError
	if errors.As(err, &le) {
		return le.Pos, true
	}
	return token.Position{}, false
}

func expectedList(exp []string) string {
	switch len(exp) {
	case 0:
		return "something else"
	case 1:
		return exp[0]
	}
	return strings.Join(exp[:len(exp)-1], ", ") + " or " + exp[len(exp)-1]
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected %s, expected %s"
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedQuoted  = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated block comment"
	ErrInvalidNumber       = "invalid numeric literal %q"
	ErrInvalidEscape       = "invalid escape sequence %q"
	ErrInvalidBitString    = "invalid digit %q in bit string"
	ErrUnexpectedChar      = "unexpected character %q"
	ErrEmptyList           = "expected at least one %s"
	ErrMissingReturn       = "function %q must end with a return statement"
	ErrMisplacedReturn     = "return must be the last statement of function %q"
	ErrLowerName           = "%s name %q must start with a lower-case letter"
	ErrPascalName          = "%s name %q must start with an upper-case letter"
	ErrLateralJoinType     = "%s LATERAL is not allowed; use INNER or LEFT [OUTER]"
	ErrLateralSource       = "lateral join source must be a function call or subquery"
	ErrJoinCondition       = "%s requires an ON or USING condition"
	ErrInRightHand         = "IN requires a parenthesized list or subquery"
	ErrTooManyQualifiers   = "too many qualifiers in %q"
	ErrLimitLiteral        = "%s requires a numeric literal"
	ErrTrailingInput       = "unexpected %s after end of %s"
	ErrOrderDirectionAndOp = "ORDER BY target cannot combine USING with ASC/DESC"
	ErrFrameBound          = "frame %s cannot be %s"
	ErrParenthesizedWith   = "WITH is not allowed inside a parenthesized set operand"
)
