package ast

// ---------- Declaration Types ----------

// Qualifier marks a property as a component input or output.
type Qualifier string

// Qualifier constants.
const (
	QualNone Qualifier = ""
	QualIn   Qualifier = "in"
	QualOut  Qualifier = "out"
)

// PropKind is the kind keyword of a property or function parameter.
type PropKind string

// PropKind constants.
const (
	KindVal     PropKind = "val"
	KindExpr    PropKind = "expr"
	KindDataset PropKind = "dataset"
	KindComp    PropKind = "comp"
)

// Import brings Pascal-cased items into scope from a module path.
//
//	import { Rect, Symbol as Sym } from 'avenger/marks';
type Import struct {
	NodeInfo
	Items []*ImportItem
	Path  string
}

// ImportItem is one imported name with an optional alias.
type ImportItem struct {
	NodeInfo
	Name  string
	Alias string
}

// ValProp declares a value property: `[in|out] val[<T>] name: expr;`.
type ValProp struct {
	NodeInfo
	Qualifier Qualifier
	Type      string // empty when no annotation
	Name      string
	Value     Expr
}

// ExprProp declares an expression property: `[in|out] expr[<T>] name: expr;`.
type ExprProp struct {
	NodeInfo
	Qualifier Qualifier
	Type      string
	Name      string
	Value     Expr
}

// DatasetProp declares a dataset property whose body is a query.
type DatasetProp struct {
	NodeInfo
	Qualifier Qualifier
	Type      string
	Name      string
	Value     *Query
}

// CompProp declares a component property wrapping a component instance.
type CompProp struct {
	NodeInfo
	Qualifier Qualifier
	Type      string
	Name      string
	Value     *CompInstance
}

// PropBinding assigns a value to an existing property: `name: body;`.
type PropBinding struct {
	NodeInfo
	Name  string
	Value QueryOrExpr
}

// CompInstance is a Pascal-cased component name with a nested statement
// block.
type CompInstance struct {
	NodeInfo
	Name string
	Body []Statement
}

// FunctionDef is `fn name(params) -> kind[<T>] { statements; return body; }`.
type FunctionDef struct {
	NodeInfo
	Name       string
	Params     []*Param
	ReturnKind PropKind
	ReturnType string
	Body       []Statement
	Return     *ReturnStatement
}

// Param is one function parameter.
type Param struct {
	NodeInfo
	Kind PropKind
	Type string
	Name string
}

// ReturnStatement terminates a function body.
type ReturnStatement struct {
	NodeInfo
	Value QueryOrExpr
}

func (*Import) stmtNode()       {}
func (*ValProp) stmtNode()      {}
func (*ExprProp) stmtNode()     {}
func (*DatasetProp) stmtNode()  {}
func (*CompProp) stmtNode()     {}
func (*PropBinding) stmtNode()  {}
func (*CompInstance) stmtNode() {}
func (*FunctionDef) stmtNode()  {}
