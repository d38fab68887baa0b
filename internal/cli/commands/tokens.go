package commands

import (
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/avenger-vis/avenger/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Comments bool
	Code     string
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream of a program",
		Long: `Tokenize an Avenger program and print every token with its span.

Keywords are shown by their canonical name, so alternate spellings such as
"int4" or "character varying" appear as the keyword they fold onto.`,
		Example: `  avenger tokens chart.avenger
  avenger tokens --comments -o yaml chart.avenger
  avenger tokens -c "x::double precision"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Comments, "comments", false, "Also list comments")
	cmd.Flags().StringVarP(&opts.Code, "code", "c", "", "Tokenize this text instead of a file")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cc := NewCommandContext(cmd)

	name, src, err := readSource(cmd, args, opts.Code)
	if err != nil {
		return err
	}

	tokens, comments, err := tokenize(src)
	if err != nil {
		return cc.reportParseError(name, src, err)
	}
	cc.Logger.Debug("tokenized", "source", name, "tokens", len(tokens), "comments", len(comments))

	if !opts.Comments {
		comments = nil
	}
	return cc.Renderer.RenderTokens(tokens, comments)
}

// tokenize lexes src up to and including EOF.
func tokenize(src string) ([]token.Token, []*token.Comment, error) {
	lexer := parser.NewLexer(src)
	var tokens []token.Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, lexer.Comments, nil
		}
	}
}
