// Package cli provides the command-line interface for avenger.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/avenger-vis/avenger/internal/cli/commands"
	"github.com/avenger-vis/avenger/internal/cli/config"
	"github.com/avenger-vis/avenger/internal/cli/output"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "avenger",
		Short: "Avenger - parser and tooling for the Avenger visualization language",
		Long: `Avenger parses programs written in the Avenger visualization language:
component declarations and instances, typed properties, functions, and the
SQL expressions and queries embedded in them.

Use parse to print a syntax tree, tokens to inspect the lexer, check to
validate many files at once, repl to experiment interactively, and lsp
for editor integration.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg)
			if used := config.GetConfigFileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: avenger.yaml in this or a parent directory)")
	pf.StringP("output", "o", "", "Output format (auto|text|yaml|json)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.String("color", "", "Color output (auto|always|never)")
	pf.IntP("jobs", "j", 0, "Files to parse concurrently (default: number of CPUs)")

	completions := map[string][]string{
		"output":     {string(output.ModeAuto), string(output.ModeText), string(output.ModeYAML), string(output.ModeJSON)},
		"log-level":  {"debug", "info", "warn", "error"},
		"log-format": {"text", "json"},
		"color":      {output.ColorAuto, output.ColorAlways, output.ColorNever},
	}
	for flag, values := range completions {
		_ = rootCmd.RegisterFlagCompletionFunc(flag, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		})
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewTokensCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewLSPCommand(Version))
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Execute runs the root command. Errors are printed to stderr unless the
// command already reported them.
func Execute(ctx context.Context) error {
	return execute(ctx, NewRootCmd(), os.Args[1:])
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, commands.ErrReported) {
		r := output.NewRenderer(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), output.ModeText, output.ColorAuto)
		_, _ = fmt.Fprintf(r.ErrOut(), "%s %v\n", r.Styles().Error.Render("Error:"), err)
	}
	return err
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for avenger.

To load completions:

Bash:
  $ source <(avenger completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ avenger completion bash > /etc/bash_completion.d/avenger
  # macOS:
  $ avenger completion bash > $(brew --prefix)/etc/bash_completion.d/avenger

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ avenger completion zsh > "${fpath[1]}/_avenger"

Fish:
  $ avenger completion fish | source

  # To load completions for each session, execute once:
  $ avenger completion fish > ~/.config/fish/completions/avenger.fish

PowerShell:
  PS> avenger completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
