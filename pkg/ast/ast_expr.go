package ast

// ---------- Expression Types ----------

// LiteralKind classifies a literal value.
type LiteralKind int

// LiteralKind constants.
const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
	LiteralBitString
)

// String returns the literal kind name.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	case LiteralNull:
		return "null"
	case LiteralBitString:
		return "bitstring"
	}
	return "unknown"
}

// Literal is a number, string, boolean, NULL or bit-string constant.
// Value holds the source spelling for numbers and the decoded text for
// strings; booleans are "true"/"false".
type Literal struct {
	NodeInfo
	Kind  LiteralKind
	Value string
}

// FieldReference is a column reference, optionally table or schema
// qualified: name, table.name, schema.table.name.
type FieldReference struct {
	NodeInfo
	Schema string
	Table  string
	Name   string
}

// ParamKind distinguishes the three parameter spellings.
type ParamKind int

// ParamKind constants.
const (
	ParamPositional ParamKind = iota // ?
	ParamNumbered                    // $1
	ParamNamed                       // @name
)

// Parameter is a bind parameter. Name holds the name of an @name
// parameter; Index the number of a $n parameter.
type Parameter struct {
	NodeInfo
	Kind  ParamKind
	Name  string
	Index int
}

// List is a parenthesized, comma-separated expression list such as the
// right-hand side of IN or a VALUES row.
type List struct {
	NodeInfo
	Items []Expr
}

// Case is a simple (`CASE x WHEN`) or searched (`CASE WHEN`) expression.
type Case struct {
	NodeInfo
	Operand Expr // nil for the searched form
	Whens   []*When
	Else    Expr
}

// When is one WHEN ... THEN ... arm.
type When struct {
	NodeInfo
	Condition Expr
	Result    Expr
}

// WindowFunction pairs an invocation with OVER and either a named window
// or an inline specification.
type WindowFunction struct {
	NodeInfo
	Call       *Invocation
	WindowName string
	Spec       *WindowSpec
}

// WindowSpec is the body of OVER (...) or WINDOW name AS (...).
type WindowSpec struct {
	NodeInfo
	BaseName    string // existing window this spec refines
	PartitionBy []Expr
	OrderBy     []*OrderTarget
	Frame       *Frame
}

// FrameUnit is ROWS, RANGE or GROUPS.
type FrameUnit string

// FrameUnit constants.
const (
	FrameRows   FrameUnit = "ROWS"
	FrameRange  FrameUnit = "RANGE"
	FrameGroups FrameUnit = "GROUPS"
)

// FrameBoundKind is the kind of one frame bound.
type FrameBoundKind string

// FrameBoundKind constants.
const (
	BoundUnboundedPreceding FrameBoundKind = "UNBOUNDED PRECEDING"
	BoundPreceding          FrameBoundKind = "PRECEDING"
	BoundCurrentRow         FrameBoundKind = "CURRENT ROW"
	BoundFollowing          FrameBoundKind = "FOLLOWING"
	BoundUnboundedFollowing FrameBoundKind = "UNBOUNDED FOLLOWING"
)

// FrameExclusion is the optional EXCLUDE clause of a frame.
type FrameExclusion string

// FrameExclusion constants.
const (
	ExcludeNone       FrameExclusion = ""
	ExcludeCurrentRow FrameExclusion = "CURRENT ROW"
	ExcludeGroup      FrameExclusion = "GROUP"
	ExcludeTies       FrameExclusion = "TIES"
	ExcludeNoOthers   FrameExclusion = "NO OTHERS"
)

// Frame is a window frame clause. Finish is nil for the single-bound form.
type Frame struct {
	NodeInfo
	Unit    FrameUnit
	Start   *FrameBound
	Finish  *FrameBound
	Exclude FrameExclusion
}

// FrameBound is one frame bound; Offset is set for <expr> PRECEDING and
// <expr> FOLLOWING.
type FrameBound struct {
	NodeInfo
	Kind   FrameBoundKind
	Offset Expr
}

// Subquery is a parenthesized query used as an expression or relation.
type Subquery struct {
	NodeInfo
	Query *Query
}

// TypeName is the target of a cast. Name is the canonical keyword spelling
// for built-in types, so `integer` and `int4` both become INT.
type TypeName struct {
	NodeInfo
	Schema    string
	Name      string
	Modifiers []string // varchar(255), numeric(10, 2)
	ArrayDims int      // int[][] has 2
}

// Cast is CAST(expr AS type) or expr::type; Shorthand records which.
type Cast struct {
	NodeInfo
	Expr      Expr
	Type      *TypeName
	Shorthand bool
}

// Exists is EXISTS (query).
type Exists struct {
	NodeInfo
	Query *Query
}

// Invocation is a function call. The aggregate shape adds DISTINCT, an
// inline ORDER BY, a SEPARATOR and a LIMIT; either shape may carry FILTER.
type Invocation struct {
	NodeInfo
	Schema    string
	Name      string
	Distinct  bool
	Args      []Expr
	OrderBy   []*OrderTarget
	Separator Expr
	Limit     Expr
	Filter    Expr
}

// BinaryExpression applies an infix operator. Op is the canonical
// operator spelling, e.g. "=", "||", "AND", "NOT LIKE",
// "IS NOT DISTINCT FROM".
type BinaryExpression struct {
	NodeInfo
	Left  Expr
	Op    string
	Right Expr
}

// Subscript is expr[index] or expr[lower:upper]. Either slice bound may be
// nil.
type Subscript struct {
	NodeInfo
	Expr  Expr
	Index Expr
	Lower Expr
	Upper Expr
	Slice bool
}

// UnaryExpression applies a prefix operator such as NOT, -, ANY or |/.
type UnaryExpression struct {
	NodeInfo
	Op      string
	Operand Expr
}

// ArrayConstructor is ARRAY[...] or ARRAY(query). Exactly one of Elements
// and Query is used.
type ArrayConstructor struct {
	NodeInfo
	Elements []Expr
	Query    *Query
}

// Interval is INTERVAL 'value' [unit].
type Interval struct {
	NodeInfo
	Value string
	Unit  string
}

// Between is `expr [NOT] BETWEEN low AND high`.
type Between struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// GroupedExpression is a single parenthesized expression.
type GroupedExpression struct {
	NodeInfo
	Expr Expr
}

// Star is `*` or `table.*` in a projection, or the argument of count(*).
type Star struct {
	NodeInfo
	Table string
}

func (*Literal) exprNode()           {}
func (*FieldReference) exprNode()    {}
func (*Parameter) exprNode()         {}
func (*List) exprNode()              {}
func (*Case) exprNode()              {}
func (*WindowFunction) exprNode()    {}
func (*Subquery) exprNode()          {}
func (*Cast) exprNode()              {}
func (*Exists) exprNode()            {}
func (*Invocation) exprNode()        {}
func (*BinaryExpression) exprNode()  {}
func (*Subscript) exprNode()         {}
func (*UnaryExpression) exprNode()   {}
func (*ArrayConstructor) exprNode()  {}
func (*Interval) exprNode()          {}
func (*Between) exprNode()           {}
func (*GroupedExpression) exprNode() {}
func (*Star) exprNode()              {}

func (*Literal) queryOrExprNode()           {}
func (*FieldReference) queryOrExprNode()    {}
func (*Parameter) queryOrExprNode()         {}
func (*List) queryOrExprNode()              {}
func (*Case) queryOrExprNode()              {}
func (*WindowFunction) queryOrExprNode()    {}
func (*Subquery) queryOrExprNode()          {}
func (*Cast) queryOrExprNode()              {}
func (*Exists) queryOrExprNode()            {}
func (*Invocation) queryOrExprNode()        {}
func (*BinaryExpression) queryOrExprNode()  {}
func (*Subscript) queryOrExprNode()         {}
func (*UnaryExpression) queryOrExprNode()   {}
func (*ArrayConstructor) queryOrExprNode()  {}
func (*Interval) queryOrExprNode()          {}
func (*Between) queryOrExprNode()           {}
func (*GroupedExpression) queryOrExprNode() {}
func (*Star) queryOrExprNode()              {}
