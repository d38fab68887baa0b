package commands

import (
	"time"

	"github.com/avenger-vis/avenger/internal/cli/output"
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Spans bool
	Expr  bool
	Query bool
	Code  string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a program and print its syntax tree",
		Long: `Parse an Avenger program and print the resulting syntax tree.

The source is read from the given file, from standard input when the
argument is "-" or omitted, or from --code. With --expr or --query the
input is parsed as a single SQL expression or query instead of a program.

The tree is printed as indented text on a terminal and as YAML when piped;
use --output to choose text, yaml or json explicitly.`,
		Example: `  avenger parse chart.avenger
  avenger parse --spans -o json chart.avenger
  echo "a + b * c" | avenger parse --expr
  avenger parse --query -c "SELECT x FROM @points WHERE x > 0"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Spans, "spans", false, "Include source spans in the tree")
	cmd.Flags().BoolVarP(&opts.Expr, "expr", "e", false, "Parse a single SQL expression")
	cmd.Flags().BoolVarP(&opts.Query, "query", "q", false, "Parse a single SQL query")
	cmd.Flags().StringVarP(&opts.Code, "code", "c", "", "Parse this text instead of a file")
	cmd.MarkFlagsMutuallyExclusive("expr", "query")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd)

	name, src, err := readSource(cmd, args, opts.Code)
	if err != nil {
		return err
	}

	start := time.Now()
	node, err := parseAs(src, opts)
	if err != nil {
		cc.Logger.Debug("parse failed", "source", name, "error", err)
		return cc.reportParseError(name, src, err)
	}
	cc.Logger.Debug("parsed",
		"source", name,
		"bytes", len(src),
		"nodes", ast.Count(node),
		"duration", time.Since(start))

	return cc.Renderer.RenderTree(output.BuildTree(node, opts.Spans))
}

// parseAs parses src as a program, expression or query.
func parseAs(src string, opts *ParseOptions) (ast.Node, error) {
	switch {
	case opts.Expr:
		expr, err := parser.ParseExpression(src)
		if err != nil {
			return nil, err
		}
		return expr, nil
	case opts.Query:
		q, err := parser.ParseQuery(src)
		if err != nil {
			return nil, err
		}
		return q, nil
	default:
		f, err := parser.Parse(src)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
