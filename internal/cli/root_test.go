package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avenger-vis/avenger/internal/cli/commands"
	clitestutil "github.com/avenger-vis/avenger/internal/cli/testutil"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	err := execute(context.Background(), cmd, args)
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestRootSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"parse", "tokens", "check", "repl", "lsp", "version", "completion"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "output", "log-level", "log-format", "color", "jobs"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestOutputPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("piped default is yaml", func(t *testing.T) {
		r := run(t, "parse", "-c", "val a: 1;")
		require.NoError(t, r.err)
		assert.True(t, strings.HasPrefix(r.stdout, "kind: File\n"), r.stdout)
	})

	t.Run("config file", func(t *testing.T) {
		clitestutil.WriteFile(t, dir, "avenger.yaml", "output: json\n")
		t.Cleanup(func() { _ = os.Remove(filepath.Join(dir, "avenger.yaml")) })

		r := run(t, "parse", "-c", "val a: 1;")
		require.NoError(t, r.err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.stdout), &doc))
		assert.Equal(t, "File", doc["kind"])
	})

	t.Run("env over file", func(t *testing.T) {
		clitestutil.WriteFile(t, dir, "avenger.yaml", "output: json\n")
		t.Setenv("AVENGER_OUTPUT", "text")

		r := run(t, "parse", "-c", "val a: 1;", "--color", "never")
		require.NoError(t, r.err)
		assert.True(t, strings.HasPrefix(r.stdout, "File\n"), r.stdout)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("AVENGER_OUTPUT", "text")

		r := run(t, "-o", "yaml", "parse", "-c", "val a: 1;")
		require.NoError(t, r.err)
		assert.True(t, strings.HasPrefix(r.stdout, "kind: File\n"), r.stdout)
	})
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := clitestutil.WriteFile(t, dir, "custom.yml", "output: json\n")

	r := run(t, "--config", path, "tokens", "-c", "1")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(r.stdout), "{"), r.stdout)

	r = run(t, "--config", filepath.Join(dir, "missing.yaml"), "tokens", "-c", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "Error:")
}

func TestInvalidConfigIsPrinted(t *testing.T) {
	t.Chdir(t.TempDir())

	r := run(t, "-o", "html", "parse", "-c", "1")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), `invalid output "html"`)
	assert.Contains(t, r.stderr, `Error: invalid output "html"`)
}

func TestReportedErrorsPrintOnce(t *testing.T) {
	t.Chdir(t.TempDir())

	r := run(t, "--color", "never", "-o", "text", "parse", "-c", "val x: ;")
	require.ErrorIs(t, r.err, commands.ErrReported)
	assert.Equal(t, 1, strings.Count(r.stderr, "syntax error"))
	assert.NotContains(t, r.stderr, "Error:")
}

func TestLogLevelAndFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	r := run(t, "--log-level", "debug", "-o", "text", "--color", "never", "parse", "-c", "val a: 1;")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "level=DEBUG")
	assert.Contains(t, r.stderr, "msg=parsed")

	r = run(t, "--log-level", "debug", "--log-format", "json", "-o", "text", "parse", "-c", "val a: 1;")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, `"msg":"parsed"`)

	r = run(t, "-o", "text", "parse", "-c", "val a: 1;")
	require.NoError(t, r.err)
	assert.NotContains(t, r.stderr, "parsed", "debug logs are hidden at the default level")
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	r := run(t, "version")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "avenger v"+Version)

	r = run(t, "--version")
	require.NoError(t, r.err)
	assert.Equal(t, "avenger "+Version+"\n", r.stdout)
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			r := run(t, "completion", shell)
			require.NoError(t, r.err)
			assert.Contains(t, r.stdout, "avenger")
		})
	}

	r := run(t, "completion", "tcsh")
	assert.Error(t, r.err)
}
