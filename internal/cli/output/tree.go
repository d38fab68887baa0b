package output

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/token"
	"github.com/goccy/go-json"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Field is one named attribute of a TreeNode. Value is a string, bool,
// int, []string, *TreeNode or []*TreeNode.
type Field struct {
	Name  string
	Value any
}

// TreeNode is an ordered, serializable view of one AST node.
type TreeNode struct {
	Kind   string
	Span   *token.Span
	Fields []Field
}

// BuildTree converts an AST into a TreeNode document. Zero-valued
// attributes are left out; spans are included when withSpans is set.
func BuildTree(root ast.Node, withSpans bool) *TreeNode {
	b := &treeBuilder{spans: withSpans}
	return b.node(root)
}

type treeBuilder struct {
	spans bool
}

func (t *TreeNode) set(name string, v any) *TreeNode {
	switch v := v.(type) {
	case string:
		if v == "" {
			return t
		}
	case bool:
		if !v {
			return t
		}
	case []string:
		if len(v) == 0 {
			return t
		}
	case *TreeNode:
		if v == nil {
			return t
		}
	case []*TreeNode:
		if len(v) == 0 {
			return t
		}
	}
	t.Fields = append(t.Fields, Field{Name: name, Value: v})
	return t
}

// Get returns the value of the named field.
func (t *TreeNode) Get(name string) (any, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func isNilNode(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func (b *treeBuilder) list(nodes []ast.Node) []*TreeNode {
	out := make([]*TreeNode, 0, len(nodes))
	for _, n := range nodes {
		if c := b.node(n); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func nodes[T ast.Node](items []T) []ast.Node {
	out := make([]ast.Node, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

//nolint:gocyclo,funlen // one case per node type
func (b *treeBuilder) node(n ast.Node) *TreeNode {
	if isNilNode(n) {
		return nil
	}
	t := &TreeNode{}
	if b.spans {
		span := token.Span{Start: n.Pos(), End: n.End()}
		t.Span = &span
	}

	switch n := n.(type) {
	// Declarations
	case *ast.File:
		t.Kind = "File"
		t.set("statements", b.list(nodes(n.Statements)))
	case *ast.Import:
		t.Kind = "Import"
		t.set("items", b.list(nodes(n.Items)))
		t.set("path", n.Path)
	case *ast.ImportItem:
		t.Kind = "ImportItem"
		t.set("name", n.Name).set("alias", n.Alias)
	case *ast.ValProp:
		t.Kind = "ValProp"
		t.set("qualifier", string(n.Qualifier)).set("type", n.Type).set("name", n.Name)
		t.set("value", b.node(n.Value))
	case *ast.ExprProp:
		t.Kind = "ExprProp"
		t.set("qualifier", string(n.Qualifier)).set("type", n.Type).set("name", n.Name)
		t.set("value", b.node(n.Value))
	case *ast.DatasetProp:
		t.Kind = "DatasetProp"
		t.set("qualifier", string(n.Qualifier)).set("type", n.Type).set("name", n.Name)
		t.set("value", b.node(n.Value))
	case *ast.CompProp:
		t.Kind = "CompProp"
		t.set("qualifier", string(n.Qualifier)).set("type", n.Type).set("name", n.Name)
		t.set("value", b.node(n.Value))
	case *ast.PropBinding:
		t.Kind = "PropBinding"
		t.set("name", n.Name).set("value", b.node(n.Value))
	case *ast.CompInstance:
		t.Kind = "CompInstance"
		t.set("name", n.Name).set("body", b.list(nodes(n.Body)))
	case *ast.FunctionDef:
		t.Kind = "FunctionDef"
		t.set("name", n.Name).set("params", b.list(nodes(n.Params)))
		t.set("return_kind", string(n.ReturnKind)).set("return_type", n.ReturnType)
		t.set("body", b.list(nodes(n.Body))).set("return", b.node(n.Return))
	case *ast.Param:
		t.Kind = "Param"
		t.set("prop_kind", string(n.Kind)).set("type", n.Type).set("name", n.Name)
	case *ast.ReturnStatement:
		t.Kind = "ReturnStatement"
		t.set("value", b.node(n.Value))

	// Queries
	case *ast.Query:
		t.Kind = "Query"
		t.set("ctes", b.list(nodes(n.CTEs))).set("body", b.node(n.Body))
	case *ast.CTE:
		t.Kind = "CTE"
		t.set("name", n.Name).set("columns", n.Columns).set("recursive", n.Recursive)
		t.set("materialized", string(n.Materialized)).set("query", b.node(n.Query))
	case *ast.SetOperation:
		t.Kind = "SetOperation"
		t.set("op", string(n.Op)).set("all", n.All)
		t.set("left", b.node(n.Left)).set("right", b.node(n.Right))
	case *ast.SelectStatement:
		t.Kind = "SelectStatement"
		t.set("distinct", n.Distinct).set("projection", b.list(nodes(n.Projection)))
		t.set("from", b.node(n.From))
	case *ast.SelectItem:
		t.Kind = "SelectItem"
		t.set("expr", b.node(n.Expr)).set("alias", n.Alias)
	case *ast.FromClause:
		t.Kind = "FromClause"
		t.set("only", n.Only)
		t.set("relations", b.list(nodes(n.Relations))).set("joins", b.list(nodes(n.Joins)))
		t.set("where", b.node(n.Where)).set("group_by", b.list(nodes(n.GroupBy)))
		t.set("having", b.node(n.Having)).set("windows", b.list(nodes(n.Windows)))
		t.set("order_by", b.list(nodes(n.OrderBy))).set("limit", b.node(n.Limit))
	case *ast.WindowDef:
		t.Kind = "WindowDef"
		t.set("name", n.Name).set("spec", b.node(n.Spec))
	case *ast.OrderTarget:
		t.Kind = "OrderTarget"
		t.set("expr", b.node(n.Expr)).set("direction", string(n.Direction))
		t.set("using", n.Using).set("nulls", string(n.Nulls))
	case *ast.Limit:
		t.Kind = "Limit"
		t.set("count", b.node(n.Count)).set("offset", b.node(n.Offset))

	// Relations and joins
	case *ast.Relation:
		t.Kind = "Relation"
		t.set("source", b.node(n.Source)).set("alias", b.node(n.Alias))
	case *ast.Alias:
		t.Kind = "Alias"
		t.set("name", n.Name).set("columns", n.Columns)
	case *ast.ObjectReference:
		t.Kind = "ObjectReference"
		t.set("schema", n.Schema).set("name", n.Name)
	case *ast.TableVariable:
		t.Kind = "TableVariable"
		t.set("name", n.Name)
	case *ast.Values:
		t.Kind = "Values"
		t.set("rows", b.list(nodes(n.Rows)))
	case *ast.JoinClause:
		t.Kind = "JoinClause"
		t.set("natural", n.Natural).set("type", string(n.Type))
		t.set("relation", b.node(n.Relation)).set("nested", b.node(n.Nested))
		t.set("condition", b.node(n.Condition))
	case *ast.CrossJoin:
		t.Kind = "CrossJoin"
		t.set("relation", b.node(n.Relation))
	case *ast.LateralJoin:
		t.Kind = "LateralJoin"
		t.set("type", string(n.Type)).set("relation", b.node(n.Relation))
		t.set("condition", b.node(n.Condition))
	case *ast.LateralCrossJoin:
		t.Kind = "LateralCrossJoin"
		t.set("relation", b.node(n.Relation))
	case *ast.OnCondition:
		t.Kind = "OnCondition"
		t.set("predicate", b.node(n.Predicate))
	case *ast.UsingCondition:
		t.Kind = "UsingCondition"
		t.set("columns", n.Columns)

	// Expressions
	case *ast.Literal:
		t.Kind = "Literal"
		t.Fields = append(t.Fields,
			Field{Name: "literal_kind", Value: n.Kind.String()},
			Field{Name: "value", Value: n.Value})
	case *ast.FieldReference:
		t.Kind = "FieldReference"
		t.set("schema", n.Schema).set("table", n.Table).set("name", n.Name)
	case *ast.Parameter:
		t.Kind = "Parameter"
		switch n.Kind {
		case ast.ParamNumbered:
			t.set("index", n.Index)
		case ast.ParamNamed:
			t.set("name", n.Name)
		default:
			t.set("positional", true)
		}
	case *ast.List:
		t.Kind = "List"
		t.set("items", b.list(nodes(n.Items)))
	case *ast.Case:
		t.Kind = "Case"
		t.set("operand", b.node(n.Operand)).set("whens", b.list(nodes(n.Whens)))
		t.set("else", b.node(n.Else))
	case *ast.When:
		t.Kind = "When"
		t.set("condition", b.node(n.Condition)).set("result", b.node(n.Result))
	case *ast.WindowFunction:
		t.Kind = "WindowFunction"
		t.set("call", b.node(n.Call)).set("window_name", n.WindowName)
		t.set("spec", b.node(n.Spec))
	case *ast.WindowSpec:
		t.Kind = "WindowSpec"
		t.set("base_name", n.BaseName).set("partition_by", b.list(nodes(n.PartitionBy)))
		t.set("order_by", b.list(nodes(n.OrderBy))).set("frame", b.node(n.Frame))
	case *ast.Frame:
		t.Kind = "Frame"
		t.set("unit", string(n.Unit)).set("start", b.node(n.Start))
		t.set("end", b.node(n.Finish)).set("exclude", string(n.Exclude))
	case *ast.FrameBound:
		t.Kind = "FrameBound"
		t.set("bound", string(n.Kind)).set("offset", b.node(n.Offset))
	case *ast.Subquery:
		t.Kind = "Subquery"
		t.set("query", b.node(n.Query))
	case *ast.TypeName:
		t.Kind = "TypeName"
		t.set("schema", n.Schema).set("name", n.Name).set("modifiers", n.Modifiers)
		if n.ArrayDims > 0 {
			t.set("array_dims", n.ArrayDims)
		}
	case *ast.Cast:
		t.Kind = "Cast"
		t.set("expr", b.node(n.Expr)).set("type", b.node(n.Type)).set("shorthand", n.Shorthand)
	case *ast.Exists:
		t.Kind = "Exists"
		t.set("query", b.node(n.Query))
	case *ast.Invocation:
		t.Kind = "Invocation"
		t.set("schema", n.Schema).set("name", n.Name).set("distinct", n.Distinct)
		t.set("args", b.list(nodes(n.Args))).set("order_by", b.list(nodes(n.OrderBy)))
		t.set("separator", b.node(n.Separator)).set("limit", b.node(n.Limit))
		t.set("filter", b.node(n.Filter))
	case *ast.BinaryExpression:
		t.Kind = "BinaryExpression"
		t.set("left", b.node(n.Left)).set("op", n.Op).set("right", b.node(n.Right))
	case *ast.Subscript:
		t.Kind = "Subscript"
		t.set("expr", b.node(n.Expr)).set("slice", n.Slice).set("index", b.node(n.Index))
		t.set("lower", b.node(n.Lower)).set("upper", b.node(n.Upper))
	case *ast.UnaryExpression:
		t.Kind = "UnaryExpression"
		t.set("op", n.Op).set("operand", b.node(n.Operand))
	case *ast.ArrayConstructor:
		t.Kind = "ArrayConstructor"
		t.set("elements", b.list(nodes(n.Elements))).set("query", b.node(n.Query))
	case *ast.Interval:
		t.Kind = "Interval"
		t.set("value", n.Value).set("unit", n.Unit)
	case *ast.Between:
		t.Kind = "Between"
		t.set("expr", b.node(n.Expr)).set("not", n.Not)
		t.set("low", b.node(n.Low)).set("high", b.node(n.High))
	case *ast.GroupedExpression:
		t.Kind = "GroupedExpression"
		t.set("expr", b.node(n.Expr))
	case *ast.Star:
		t.Kind = "Star"
		t.set("table", n.Table)

	default:
		t.Kind = fmt.Sprintf("%T", n)
	}
	return t
}

// ---------- Serialization ----------

type positionDoc struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

type spanDoc struct {
	Start positionDoc `json:"start" yaml:"start"`
	End   positionDoc `json:"end" yaml:"end"`
}

func newSpanDoc(s token.Span) spanDoc {
	return spanDoc{
		Start: positionDoc{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   positionDoc{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

// entries returns the node's attributes in output order.
func (t *TreeNode) entries() []Field {
	out := make([]Field, 0, len(t.Fields)+2)
	out = append(out, Field{Name: "kind", Value: t.Kind})
	if t.Span != nil {
		out = append(out, Field{Name: "span", Value: newSpanDoc(*t.Span)})
	}
	return append(out, t.Fields...)
}

// MarshalJSON encodes the node as an object whose keys keep field order.
func (t *TreeNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range t.entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(f.Name))
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the node as a mapping whose keys keep field order.
func (t *TreeNode) MarshalYAML() (any, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range t.entries() {
		var val yaml.Node
		if err := val.Encode(f.Value); err != nil {
			return nil, err
		}
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&val)
	}
	return m, nil
}

// ---------- Text ----------

// label turns a field name such as "partition_by" into "Partition By".
func label(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// RenderTree writes the tree in the renderer's mode.
func (r *Renderer) RenderTree(root *TreeNode) error {
	if r.IsStructured() {
		return r.Document(root)
	}
	var buf bytes.Buffer
	r.writeTreeText(&buf, root, 0)
	_, err := r.out.Write(buf.Bytes())
	return err
}

func (r *Renderer) writeTreeText(buf *bytes.Buffer, t *TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteString(r.styles.Kind.Render(t.Kind))
	if t.Span != nil {
		buf.WriteByte(' ')
		buf.WriteString(r.styles.Muted.Render(t.Span.String()))
	}
	buf.WriteByte('\n')

	for _, f := range t.Fields {
		buf.WriteString(indent)
		buf.WriteString("  ")
		buf.WriteString(r.styles.Label.Render(label(f.Name) + ":"))
		switch v := f.Value.(type) {
		case *TreeNode:
			buf.WriteByte('\n')
			r.writeTreeText(buf, v, depth+2)
		case []*TreeNode:
			buf.WriteByte('\n')
			for _, c := range v {
				r.writeTreeText(buf, c, depth+2)
			}
		case []string:
			fmt.Fprintf(buf, " %s\n", strings.Join(v, ", "))
		case string:
			fmt.Fprintf(buf, " %s\n", strconv.Quote(v))
		default:
			fmt.Fprintf(buf, " %v\n", v)
		}
	}
}
