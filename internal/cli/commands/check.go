package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/avenger-vis/avenger/internal/cli/output"
	"github.com/avenger-vis/avenger/pkg/ast"
	"github.com/avenger-vis/avenger/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch    bool
	Debounce time.Duration
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse many files and report syntax errors",
		Long: `Parse every given file, or every file matching the configured include
globs when none are given, and report a diagnostic for each file that fails.

Files are parsed concurrently; --jobs bounds how many at once. With --watch
the check reruns whenever a watched file changes, until interrupted.`,
		Example: `  avenger check
  avenger check charts/*.avenger
  avenger check --watch --debounce 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "Quiet period before re-checking in watch mode")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	resolve := func() ([]string, error) {
		if len(args) > 0 {
			return args, nil
		}
		return expandIncludes(cc.Cfg.ProjectRoot, cc.Cfg.Include)
	}

	checkOnce := func() error {
		files, err := resolve()
		if err != nil {
			return err
		}
		summary, err := checkFiles(ctx, files, cc.jobs())
		if err != nil {
			return err
		}
		cc.Logger.Info("check finished",
			"files", len(summary.Files),
			"failed", summary.Failed,
			"elapsed", summary.Elapsed)
		if err := cc.Renderer.RenderCheckSummary(summary); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d files failed: %w", summary.Failed, len(summary.Files), ErrReported)
		}
		return nil
	}

	err := checkOnce()
	if !opts.Watch {
		return err
	}

	debounce := cc.Cfg.WatchDebounce
	if opts.Debounce > 0 {
		debounce = opts.Debounce
	}
	dirs, werr := watchDirs(cc.Cfg.ProjectRoot, args)
	if werr != nil {
		return werr
	}
	reportRunError(cc, err)
	return watchAndRun(ctx, cc, dirs, debounce, func() {
		reportRunError(cc, checkOnce())
	})
}

// reportRunError logs and prints a failed watch-mode run. Diagnostics that
// were already rendered are not repeated.
func reportRunError(cc *CommandContext, err error) {
	if err == nil || isReported(err) {
		return
	}
	cc.Logger.Error("check failed", "error", err)
	cc.Renderer.Warn("check failed: %v", err)
}

func (cc *CommandContext) jobs() int {
	if cc.Cfg.Jobs > 0 {
		return cc.Cfg.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// checkFiles parses files concurrently, at most jobs at a time. A file
// that cannot be read or parsed yields a diagnostic rather than an error;
// the returned error is only set when ctx is cancelled.
func checkFiles(ctx context.Context, files []string, jobs int) (*output.CheckSummary, error) {
	start := time.Now()
	results := make([]output.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return output.NewCheckSummary(results, time.Since(start)), nil
}

func checkFile(path string) (res output.FileResult) {
	res.Path = path
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	b, err := os.ReadFile(path)
	if err != nil {
		res.Diagnostic = output.NewDiagnostic(path, "", err)
		return res
	}
	res.Bytes = int64(len(b))

	src := string(b)
	f, err := parser.Parse(src)
	if err != nil {
		res.Diagnostic = output.NewDiagnostic(path, src, err)
		return res
	}
	res.Statements = len(f.Statements)
	res.Nodes = ast.Count(f)
	return res
}

// expandIncludes resolves include globs against root. A pattern of the
// form "dir/**/pattern" matches pattern against the base name of every
// file below dir; other patterns use filepath.Glob. Hidden directories are
// skipped. The result is sorted, deduplicated and relative to the working
// directory where possible.
func expandIncludes(root string, patterns []string) ([]string, error) {
	cwd, _ := os.Getwd()
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if cwd != "" {
			if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		pattern = filepath.FromSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}

		dir, rest, recursive := strings.Cut(pattern, "**"+string(filepath.Separator))
		if !recursive {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				if info, err := os.Stat(m); err == nil && !info.IsDir() {
					add(m)
				}
			}
			continue
		}

		if _, err := filepath.Match(rest, ""); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		walkRoot := filepath.Clean(dir)
		err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == walkRoot && os.IsNotExist(err) {
					return filepath.SkipAll
				}
				return err
			}
			if d.IsDir() {
				if path != walkRoot && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if ok, _ := filepath.Match(rest, d.Name()); ok {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
	}

	slices.Sort(out)
	return out, nil
}
