package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // -- comment or // comment
	BlockComment                    // /* comment */
)

// String returns the comment kind name.
func (k CommentKind) String() string {
	if k == BlockComment {
		return "block"
	}
	return "line"
}

// Comment is a source comment. Comments never reach the parser; the lexer
// collects them on the side so tooling can still report them.
type Comment struct {
	Kind CommentKind
	Text string // includes delimiters
	Span Span
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsBlockComment returns true if this is a block comment.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment
}
