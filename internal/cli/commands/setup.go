// Package commands implements the avenger subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/avenger-vis/avenger/internal/cli/config"
	"github.com/avenger-vis/avenger/internal/cli/output"
	"github.com/spf13/cobra"
)

// ErrReported is returned after a command has already rendered its
// diagnostics, so the caller should exit non-zero without printing again.
var ErrReported = errors.New("errors reported")

// stdinName labels source read from standard input.
const stdinName = "<stdin>"

// CommandContext holds the shared dependencies of a command run.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output), cfg.Color),
	}
}

// readSource returns the program text named by args: inline code when set,
// standard input for "-" or no argument, otherwise the file at args[0].
func readSource(cmd *cobra.Command, args []string, inline string) (name, src string, err error) {
	if inline != "" {
		if len(args) > 0 {
			return "", "", errors.New("--code cannot be combined with a file argument")
		}
		return "<code>", inline, nil
	}
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return stdinName, "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return stdinName, string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return args[0], "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return args[0], string(b), nil
}

func isReported(err error) bool {
	return errors.Is(err, ErrReported)
}

// reportParseError renders err as a diagnostic against src.
func (cc *CommandContext) reportParseError(name, src string, err error) error {
	if rerr := cc.Renderer.RenderDiagnostic(output.NewDiagnostic(name, src, err)); rerr != nil {
		return rerr
	}
	return ErrReported
}
