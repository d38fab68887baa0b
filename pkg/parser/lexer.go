package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/avenger-vis/avenger/pkg/token"
)

// Lexer tokenizes Avenger source text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based, in runes)

	// prev is the type of the last emitted token, consulted when deciding
	// whether a leading sign belongs to a number.
	prev token.TokenType

	// Comments collected during lexing. They never reach the parser.
	Comments []*token.Comment
}

// lexState is a saved cursor used for bounded lookahead inside the lexer.
type lexState struct {
	pos, readPos, line, col int
	ch                      byte
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
		prev:  token.ILLEGAL,
	}
	l.readChar()
	return l
}

// Tokenize returns all tokens from the input, ending with EOF, or the first
// *LexError. Tokenizing the same text twice yields the same slice.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos > len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	// continuation bytes of a multi-byte rune share its column
	if l.ch&0xC0 != 0x80 {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

// peekAt returns the character n bytes ahead of the current one.
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) save() lexState {
	return lexState{pos: l.pos, readPos: l.readPos, line: l.line, col: l.col, ch: l.ch}
}

func (l *Lexer) restore(s lexState) {
	l.pos, l.readPos, l.line, l.col, l.ch = s.pos, s.readPos, s.line, s.col, s.ch
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NextToken returns the next token, or a *LexError for malformed input.
func (l *Lexer) NextToken() (token.Token, error) {
	tok, err := l.scan()
	if err != nil {
		return token.Token{}, err
	}
	tok.End = l.currentPos()
	l.prev = tok.Type
	return tok, nil
}

func (l *Lexer) scan() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.currentPos()
	if l.eof() {
		return token.Token{Type: token.EOF, Pos: pos}, nil
	}

	switch {
	case l.ch == '\'':
		return l.readString(pos)
	case (l.ch == 'e' || l.ch == 'E') && l.peekChar() == '\'':
		return l.readEscapeString(pos)
	case (l.ch == 'b' || l.ch == 'B' || l.ch == 'x' || l.ch == 'X') && l.peekChar() == '\'':
		return l.readBitString(pos)
	case l.ch == '"':
		lit, err := l.readDelimited('"', ErrUnterminatedString)
		return token.Token{Type: token.DQ_STRING, Literal: lit, Pos: pos}, err
	case l.ch == '`':
		lit, err := l.readDelimited('`', ErrUnterminatedQuoted)
		return token.Token{Type: token.QUOTED_IDENT, Literal: lit, Pos: pos}, err
	case isLetter(l.ch) || l.ch == '_':
		return l.readWord(pos), nil
	case isDigit(l.ch), l.ch == '.' && isDigit(l.peekChar()) && !endsOperand(l.prev):
		return l.readNumber(pos)
	case (l.ch == '+' || l.ch == '-') && l.signStartsNumber():
		return l.readNumber(pos)
	case l.ch == '@' && (isLetter(l.peekChar()) || l.peekChar() == '_'):
		l.readChar() // skip '@'
		return token.Token{Type: token.VARIABLE, Literal: l.readIdentifier(), Pos: pos}, nil
	case l.ch == '?':
		l.readChar()
		return token.Token{Type: token.PARAM, Literal: "?", Pos: pos}, nil
	case l.ch == '$':
		return l.readDollarParam(pos)
	}

	if tok, ok := l.matchSymbol(pos); ok {
		return tok, nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return token.Token{}, l.errorf(pos, ErrUnexpectedChar, r)
}

// matchSymbol consumes the longest operator or punctuation at the cursor.
func (l *Lexer) matchSymbol(pos token.Position) (token.Token, bool) {
	remaining := l.input[l.pos:]
	for _, sym := range token.Symbols {
		if strings.HasPrefix(remaining, sym.Text) {
			for range sym.Text {
				l.readChar()
			}
			return token.Token{Type: sym.Type, Literal: sym.Text, Pos: pos}, true
		}
	}
	return token.Token{}, false
}

// endsOperand reports whether a token of type t can end an operand, in
// which case a following sign is a binary operator rather than part of a
// number.
func endsOperand(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.PASCAL_IDENT, token.QUOTED_IDENT, token.VARIABLE, token.PARAM,
		token.NUMBER, token.STRING, token.DQ_STRING, token.BIT_STRING,
		token.RPAREN, token.RBRACKET,
		token.TRUE, token.FALSE, token.NULL, token.END:
		return true
	}
	return token.IsKeyword(t) && !token.IsReserved(t)
}

// signStartsNumber reports whether the sign at the cursor should be
// absorbed into a numeric literal.
func (l *Lexer) signStartsNumber() bool {
	if endsOperand(l.prev) {
		return false
	}
	next := l.peekChar()
	return isDigit(next) || next == '.' && isDigit(l.peekAt(2))
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		l.skipWhitespace()

		// Collect line comment (-- ... or // ...)
		if (l.ch == '-' && l.peekChar() == '-') || (l.ch == '/' && l.peekChar() == '/') {
			l.collectLineComment()
			continue
		}

		// Collect block comment (/* ... */)
		if l.ch == '/' && l.peekChar() == '*' {
			if err := l.collectBlockComment(); err != nil {
				return err
			}
			continue
		}

		return nil
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && isSpace(l.ch) {
		l.readChar()
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	// Consume until end of line
	for !l.eof() && l.ch != '\n' {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment. Block comments do not nest;
// the first */ closes the comment.
func (l *Lexer) collectBlockComment() error {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for {
		if l.eof() {
			return l.errorf(startPos, ErrUnterminatedComment)
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			break
		}
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
	return nil
}

// readString reads a single-quoted string literal and folds any adjacent
// literals separated only by whitespace: 'foo' 'bar' is "foobar".
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString(pos token.Position) (token.Token, error) {
	var result strings.Builder
	for {
		part, err := l.readQuoted(pos)
		if err != nil {
			return token.Token{}, err
		}
		result.WriteString(part)

		// fold only across plain whitespace; a comment ends the literal
		mark := l.save()
		l.skipWhitespace()
		if l.ch != '\'' {
			l.restore(mark)
			break
		}
	}
	return token.Token{Type: token.STRING, Literal: result.String(), Pos: pos}, nil
}

// readQuoted reads one '...' segment starting at the opening quote.
func (l *Lexer) readQuoted(pos token.Position) (string, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.eof() {
			return "", l.errorf(pos, ErrUnterminatedString)
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				// Doubled quote escape
				result.WriteByte('\'')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), nil
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
}

// readEscapeString reads an E'...' literal with backslash escapes.
func (l *Lexer) readEscapeString(pos token.Position) (token.Token, error) {
	l.readChar() // skip 'E'
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.eof() {
			return token.Token{}, l.errorf(pos, ErrUnterminatedString)
		}
		switch l.ch {
		case '\'':
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return token.Token{Type: token.STRING, Literal: result.String(), Pos: pos}, nil
		case '\\':
			if err := l.readEscape(&result); err != nil {
				return token.Token{}, err
			}
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'b': '\b', 'f': '\f',
	'\\': '\\', '\'': '\'', '"': '"', '0': 0,
}

// readEscape decodes one backslash escape into out: the C escapes, \xHH,
// \uXXXX, \UXXXXXXXX and octal \ooo.
func (l *Lexer) readEscape(out *strings.Builder) error {
	escPos := l.currentPos()
	l.readChar() // skip '\'
	if l.eof() {
		return l.errorf(escPos, ErrUnterminatedString)
	}

	if b, ok := simpleEscapes[l.ch]; ok && !(l.ch == '0' && isDigit(l.peekChar())) {
		out.WriteByte(b)
		l.readChar()
		return nil
	}

	var minDigits, maxDigits, base int
	isRune := false
	switch l.ch {
	case 'x':
		minDigits, maxDigits, base = 1, 2, 16
		l.readChar()
	case 'u':
		minDigits, maxDigits, base, isRune = 4, 4, 16, true
		l.readChar()
	case 'U':
		minDigits, maxDigits, base, isRune = 8, 8, 16, true
		l.readChar()
	default:
		if l.ch < '0' || l.ch > '7' {
			return l.errorf(escPos, ErrInvalidEscape, "\\"+string(rune(l.ch)))
		}
		minDigits, maxDigits, base = 1, 3, 8
	}

	start := l.pos
	for l.pos-start < maxDigits && !l.eof() && isDigitBase(l.ch, base) {
		l.readChar()
	}
	digits := l.input[start:l.pos]
	bad := func() error {
		return l.errorf(escPos, ErrInvalidEscape, l.input[escPos.Offset:l.pos])
	}
	if len(digits) < minDigits {
		return bad()
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return bad()
	}
	if isRune {
		if v > utf8.MaxRune {
			return bad()
		}
		out.WriteRune(rune(v))
		return nil
	}
	if v > 0xFF {
		return bad()
	}
	out.WriteByte(byte(v))
	return nil
}

// readBitString reads B'0101' or X'1F'.
func (l *Lexer) readBitString(pos token.Position) (token.Token, error) {
	start := l.pos
	base := 2
	if l.ch == 'x' || l.ch == 'X' {
		base = 16
	}
	l.readChar() // skip prefix
	l.readChar() // skip opening quote
	for {
		if l.eof() {
			return token.Token{}, l.errorf(pos, ErrUnterminatedString)
		}
		if l.ch == '\'' {
			l.readChar()
			break
		}
		if !isDigitBase(l.ch, base) {
			return token.Token{}, l.errorf(l.currentPos(), ErrInvalidBitString, rune(l.ch))
		}
		l.readChar()
	}
	return token.Token{Type: token.BIT_STRING, Literal: l.input[start:l.pos], Pos: pos}, nil
}

// readDelimited reads a "..." or `...` token with no escaping.
func (l *Lexer) readDelimited(delim byte, unterminated string) (string, error) {
	pos := l.currentPos()
	l.readChar() // skip opening delimiter
	start := l.pos
	for {
		if l.eof() {
			return "", l.errorf(pos, "%s", unterminated)
		}
		if l.ch == delim {
			lit := l.input[start:l.pos]
			l.readChar() // skip closing delimiter
			return lit, nil
		}
		l.readChar()
	}
}

// readDollarParam reads $1, $2, ...
func (l *Lexer) readDollarParam(pos token.Position) (token.Token, error) {
	start := l.pos
	l.readChar() // skip '$'
	if !isDigit(l.ch) {
		return token.Token{}, l.errorf(pos, ErrUnexpectedChar, '$')
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.PARAM, Literal: l.input[start:l.pos], Pos: pos}, nil
}

// readWord reads an identifier or keyword. Keywords take priority; a
// keyword that opens a multi-word spelling such as "character varying"
// absorbs the remaining words when they all follow.
func (l *Lexer) readWord(pos token.Position) token.Token {
	start := l.pos
	word := l.readIdentifier()

	typ := token.LookupIdent(word)
	if typ == token.IDENT {
		if token.IsPascal(word) {
			typ = token.PASCAL_IDENT
		}
		return token.Token{Type: typ, Literal: word, Pos: pos}
	}

	for _, phrase := range token.PhrasesFor(typ) {
		if l.matchPhrase(word, phrase) {
			return token.Token{Type: phrase.Type, Literal: l.input[start:l.pos], Pos: pos}
		}
	}
	return token.Token{Type: typ, Literal: word, Pos: pos}
}

// matchPhrase consumes the rest of phrase if the words after first spell
// it out; otherwise the cursor is left untouched.
func (l *Lexer) matchPhrase(first string, phrase token.Phrase) bool {
	mark := l.save()
	words := []string{first}
	for len(words) < len(phrase.Words) {
		if !isSpace(l.ch) {
			break
		}
		l.skipWhitespace()
		if !isLetter(l.ch) && l.ch != '_' {
			break
		}
		words = append(words, l.readIdentifier())
	}
	if phrase.Matches(words) {
		return true
	}
	l.restore(mark)
	return false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal: an optional sign, then a prefixed
// integer (0x1F, 0o17, 0b1010) or a decimal with optional fraction and
// exponent. Underscores may separate digits.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	start := l.pos
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}

	ok := true
	if base := prefixBase(l.ch, l.peekChar()); base != 0 {
		l.readChar() // skip '0'
		l.readChar() // skip base letter
		ok = l.readDigits(base)
	} else {
		// Read integer part
		if isDigit(l.ch) {
			ok = l.readDigits(10)
		}

		// Read decimal part
		if ok && l.ch == '.' && isDigit(l.peekChar()) {
			l.readChar() // skip '.'
			ok = l.readDigits(10)
		}

		// Read exponent part (e.g., 1e10, 1E-5)
		if ok && (l.ch == 'e' || l.ch == 'E') {
			l.readChar() // skip 'e' or 'E'
			if l.ch == '+' || l.ch == '-' {
				l.readChar() // skip sign
			}
			ok = l.readDigits(10)
		}
	}

	// letters or underscores glued onto a number are malformed
	if ok && (isLetter(l.ch) || l.ch == '_' || isDigit(l.ch)) {
		ok = false
	}
	if !ok {
		for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '.' {
			l.readChar()
		}
		return token.Token{}, l.errorf(pos, ErrInvalidNumber, l.input[start:l.pos])
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos}, nil
}

// readDigits reads at least one digit of the given base, allowing single
// underscores between digits.
func (l *Lexer) readDigits(base int) bool {
	if !isDigitBase(l.ch, base) {
		return false
	}
	for {
		for isDigitBase(l.ch, base) {
			l.readChar()
		}
		if l.ch != '_' {
			return true
		}
		if !isDigitBase(l.peekChar(), base) {
			return false
		}
		l.readChar() // skip '_'
	}
}

// prefixBase returns the radix introduced by 0x, 0o or 0b, or 0.
func prefixBase(ch, next byte) int {
	if ch != '0' {
		return 0
	}
	switch next {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func isDigitBase(ch byte, base int) bool {
	switch base {
	case 2:
		return ch == '0' || ch == '1'
	case 8:
		return ch >= '0' && ch <= '7'
	case 16:
		return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
	}
	return isDigit(ch)
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
