package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/avenger-vis/avenger/internal/cli/output"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/avenger-vis/avenger/pkg/token"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt       = "avenger> "
	replContinuation = "    ...> "
	replSourceName   = "<repl>"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell that parses statements as you type",
		Long: `Start an interactive shell. Each complete statement is parsed and its
tree (or token stream) printed. Input continues over several lines until a
statement ends with ";" or a closing "}" at the top level.

Type .help for the list of dot-commands.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}

	cmd.Flags().String("history", "", "History file (default: .avenger_history in the project root)")

	return cmd
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     cc.Cfg.HistoryFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	cc.Logger.Debug("repl started", "history", cc.Cfg.HistoryFile)
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Avenger REPL")
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	s := newREPLSession(cc, out)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		prompt, quit := s.handleLine(line)
		if quit {
			break
		}
		rl.SetPrompt(prompt)
	}
	return nil
}

// replSession holds the state of one interactive session: pending input
// and the display settings changed by dot-commands.
type replSession struct {
	cc     *CommandContext
	out    io.Writer
	buf    strings.Builder
	tokens bool
	spans  bool
}

func newREPLSession(cc *CommandContext, out io.Writer) *replSession {
	return &replSession{cc: cc, out: out}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handleLine consumes one line of input and returns the prompt for the
// next one, or quit when the session should end.
func (s *replSession) handleLine(line string) (prompt string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 {
		if trimmed == "" {
			return replPrompt, false
		}
		if strings.HasPrefix(trimmed, ".") {
			return replPrompt, s.dotCommand(trimmed)
		}
	}

	if s.buf.Len() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	src := s.buf.String()
	if !statementComplete(src) {
		return replContinuation, false
	}

	s.buf.Reset()
	s.evaluate(src)
	return replPrompt, false
}

// statementComplete reports whether src ends a top-level statement: braces
// are balanced and the text ends with ";" or "}".
func statementComplete(src string) bool {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}
	depth := strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
	if depth > 0 {
		return false
	}
	return strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}")
}

func (s *replSession) evaluate(src string) {
	r := s.cc.Renderer
	if s.tokens {
		toks, comments, err := tokenize(src)
		if err != nil {
			_ = r.RenderDiagnostic(output.NewDiagnostic(replSourceName, src, err))
			return
		}
		if err := r.RenderTokens(toks, comments); err != nil {
			r.Warn("%v", err)
		}
		return
	}

	f, err := parser.Parse(src)
	if err != nil {
		_ = r.RenderDiagnostic(output.NewDiagnostic(replSourceName, src, err))
		return
	}
	if err := r.RenderTree(output.BuildTree(f, s.spans)); err != nil {
		r.Warn("%v", err)
	}
}

// dotCommand runs a dot-command and reports whether the session ends.
func (s *replSession) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.out)
	case ".tree":
		s.tokens = false
		s.cc.Renderer.Muted("printing syntax trees")
	case ".tokens":
		s.tokens = true
		s.cc.Renderer.Muted("printing tokens")
	case ".spans":
		s.spans = !s.spans
		if s.spans {
			s.cc.Renderer.Muted("spans on")
		} else {
			s.cc.Renderer.Muted("spans off")
		}
	case ".clear":
		s.reset()
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")
	default:
		s.cc.Renderer.Warn("unknown command: %s (type .help for commands)", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tree           Print the syntax tree of each statement (default)
  .tokens         Print the token stream of each statement
  .spans          Toggle source spans in trees
  .clear          Clear the screen and pending input
  .quit / .exit   Exit the REPL

Tips:
  - Statements end with ";" or a closing "}" at the top level
  - Use arrow keys to navigate history
  - Tab completes dot-commands and keywords
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes dot-commands and keywords.
func newREPLCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tree"),
		readline.PcItem(".tokens"),
		readline.PcItem(".spans"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, kw := range token.Keywords() {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}
