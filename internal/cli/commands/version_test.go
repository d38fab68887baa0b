package commands

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		wantOut []string
	}{
		{
			name:    "release",
			version: "0.1.0",
			commit:  "abc1234",
			date:    "2026-01-02",
			wantOut: []string{"avenger v0.1.0", "commit abc1234", "built 2026-01-02"},
		},
		{
			name:    "dev build",
			version: "dev",
			commit:  "unknown",
			date:    "unknown",
			wantOut: []string{"avenger vdev", "commit unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version, tt.commit, tt.date)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())

			out := buf.String()
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			assert.Contains(t, out, runtime.Version())
		})
	}
}

func TestVersionCommandRejectsArgs(t *testing.T) {
	cmd := NewVersionCommand("1.0.0", "x", "y")
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
