package ast

// ---------- Query Types ----------

// Query is an optional CTE prologue followed by a select or set operation.
type Query struct {
	NodeInfo
	CTEs []*CTE
	Body QueryBody
}

// Materialization is the optional [NOT] MATERIALIZED hint of a CTE.
type Materialization string

// Materialization constants.
const (
	MaterializeDefault Materialization = ""
	MaterializeAlways  Materialization = "MATERIALIZED"
	MaterializeNever   Materialization = "NOT MATERIALIZED"
)

// CTE is one common table expression. Recursive is copied from the
// WITH RECURSIVE prologue onto every CTE it introduces.
type CTE struct {
	NodeInfo
	Name         string
	Columns      []string
	Recursive    bool
	Materialized Materialization
	Query        *Query
}

// SetOp is the operator of a set operation.
type SetOp string

// SetOp constants.
const (
	SetOpUnion     SetOp = "UNION"
	SetOpIntersect SetOp = "INTERSECT"
	SetOpExcept    SetOp = "EXCEPT"
)

// SetOperation combines two result sets. Chains nest on the left, so
// `a UNION b EXCEPT c` is SetOperation{Left: SetOperation{a, b}, Right: c}.
type SetOperation struct {
	NodeInfo
	Left  QueryBody
	Op    SetOp
	All   bool
	Right QueryBody
}

// SelectStatement is SELECT [DISTINCT] projection [FROM ...].
type SelectStatement struct {
	NodeInfo
	Distinct   bool
	Projection []*SelectItem
	From       *FromClause
}

// SelectItem is one projection entry with an optional alias.
type SelectItem struct {
	NodeInfo
	Expr  Expr
	Alias string
}

// FromClause holds the relation list, joins and every trailing clause of
// a select.
type FromClause struct {
	NodeInfo
	Only      bool
	Relations []*Relation
	Joins     []Join
	Where     Expr
	GroupBy   []Expr
	Having    Expr
	Windows   []*WindowDef
	OrderBy   []*OrderTarget
	Limit     *Limit
}

// WindowDef is a named window from the WINDOW clause.
type WindowDef struct {
	NodeInfo
	Name string
	Spec *WindowSpec
}

// SortDirection is the ASC/DESC marker of an ordering target.
type SortDirection string

// SortDirection constants.
const (
	SortDefault SortDirection = ""
	SortAsc     SortDirection = "ASC"
	SortDesc    SortDirection = "DESC"
)

// NullsOrder is the NULLS FIRST/LAST marker of an ordering target.
type NullsOrder string

// NullsOrder constants.
const (
	NullsDefault NullsOrder = ""
	NullsFirst   NullsOrder = "FIRST"
	NullsLast    NullsOrder = "LAST"
)

// OrderTarget is one ORDER BY entry. Using holds the comparator operator
// of `USING <op>` and excludes Direction.
type OrderTarget struct {
	NodeInfo
	Expr      Expr
	Direction SortDirection
	Using     string
	Nulls     NullsOrder
}

// Limit is LIMIT count [OFFSET n]; both are numeric literals.
type Limit struct {
	NodeInfo
	Count  *Literal
	Offset *Literal
}

// ---------- Relation Types ----------

// Relation is a FROM-list entry: a source plus an optional alias.
type Relation struct {
	NodeInfo
	Source RelationSource
	Alias  *Alias
}

// Alias names a relation, optionally renaming its columns.
type Alias struct {
	NodeInfo
	Name    string
	Columns []string
}

// ObjectReference is a plain table reference, optionally schema-qualified.
type ObjectReference struct {
	NodeInfo
	Schema string
	Name   string
}

// TableVariable is a dataset referenced by variable: FROM @points.
type TableVariable struct {
	NodeInfo
	Name string
}

// Values is a VALUES (...), (...) row list.
type Values struct {
	NodeInfo
	Rows []*List
}

// ---------- Join Types ----------

// JoinType is the kind of an explicit join.
type JoinType string

// JoinType constants.
const (
	JoinPlain      JoinType = "JOIN"
	JoinInner      JoinType = "INNER"
	JoinLeft       JoinType = "LEFT"
	JoinLeftOuter  JoinType = "LEFT OUTER"
	JoinRight      JoinType = "RIGHT"
	JoinRightOuter JoinType = "RIGHT OUTER"
	JoinFull       JoinType = "FULL"
	JoinFullOuter  JoinType = "FULL OUTER"
)

// IsLeft reports whether the join keeps unmatched rows of the left side.
func (t JoinType) IsLeft() bool {
	return t == JoinLeft || t == JoinLeftOuter || t == JoinFull || t == JoinFullOuter
}

// JoinClause is `[NATURAL] [type] JOIN relation [nested join] [condition]`.
// Natural joins carry no condition. Nested holds a join chained onto this
// join's relation before its own condition, as in
// `a JOIN b JOIN c ON b.id = c.id ON a.id = b.id`.
type JoinClause struct {
	NodeInfo
	Natural   bool
	Type      JoinType
	Relation  *Relation
	Nested    Join
	Condition JoinCondition
}

// CrossJoin is CROSS JOIN relation.
type CrossJoin struct {
	NodeInfo
	Relation *Relation
}

// LateralJoin is `[LEFT [OUTER] | INNER] JOIN LATERAL source alias ON expr`.
// Type is limited to JoinPlain, JoinInner, JoinLeft and JoinLeftOuter.
type LateralJoin struct {
	NodeInfo
	Type      JoinType
	Relation  *Relation
	Condition Expr
}

// LateralCrossJoin is CROSS JOIN LATERAL source alias.
type LateralCrossJoin struct {
	NodeInfo
	Relation *Relation
}

// OnCondition is ON predicate.
type OnCondition struct {
	NodeInfo
	Predicate Expr
}

// UsingCondition is USING (col, ...).
type UsingCondition struct {
	NodeInfo
	Columns []string
}

func (*Query) queryOrExprNode() {}

func (*SelectStatement) queryBodyNode() {}
func (*SetOperation) queryBodyNode()    {}

func (*Subquery) relationSourceNode()        {}
func (*Invocation) relationSourceNode()      {}
func (*TableVariable) relationSourceNode()   {}
func (*ObjectReference) relationSourceNode() {}
func (*Values) relationSourceNode()          {}

func (*JoinClause) joinNode()       {}
func (*CrossJoin) joinNode()        {}
func (*LateralJoin) joinNode()      {}
func (*LateralCrossJoin) joinNode() {}

func (*OnCondition) joinConditionNode()    {}
func (*UsingCondition) joinConditionNode() {}
