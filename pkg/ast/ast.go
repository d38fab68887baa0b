// Package ast defines the syntax tree produced by the Avenger parser.
//
// The tree has two layers. The outer layer is the declaration language
// (imports, typed properties, component instances, functions); the inner
// layer is the embedded SQL query and expression language. Sum types are
// interfaces with unexported marker methods, so only the node types in this
// package can satisfy them.
//
// Nodes are built bottom-up by a single parse and never mutated afterwards.
// Each node exclusively owns its children.
package ast

import "github.com/avenger-vis/avenger/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// NodeInfo carries the source span shared by every node.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }

// Statement is a top-level or nested declaration.
type Statement interface {
	Node
	stmtNode()
}

// QueryOrExpr is the body of a binding or return statement: a *Query or
// any Expr.
type QueryOrExpr interface {
	Node
	queryOrExprNode()
}

// Expr is a SQL expression.
type Expr interface {
	QueryOrExpr
	exprNode()
}

// QueryBody is the part of a query after its CTE prologue.
type QueryBody interface {
	Node
	queryBodyNode()
}

// RelationSource is anything that may appear as a relation in FROM.
type RelationSource interface {
	Node
	relationSourceNode()
}

// Join is one join clause attached to a FROM clause.
type Join interface {
	Node
	joinNode()
}

// JoinCondition is the ON or USING part of a join.
type JoinCondition interface {
	Node
	joinConditionNode()
}

// File is the root of a parsed program: its statements in source order.
type File struct {
	NodeInfo
	Statements []Statement
}
