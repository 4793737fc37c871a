package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "internal", "dashboard"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "internal", "dashboard", "board.go"), []byte("package dashboard\n"), 0o644))

	t.Run("summary", func(t *testing.T) {
		out := runCmd(t, "summary", "--root", root)
		assert.Contains(t, out, "Files: 2")
		assert.Contains(t, out, "[x] go.mod")
		assert.Contains(t, out, "[ ] not found: cmd/subsense")
	})

	t.Run("save", func(t *testing.T) {
		report := filepath.Join(t.TempDir(), "scan.json")
		out := runCmd(t, "save", "--root", root, "--out", report)
		assert.Contains(t, out, "report saved")
		assert.FileExists(t, report)
	})

	t.Run("digest", func(t *testing.T) {
		out := runCmd(t, "digest", "--root", root, "--out", "-", "--filter", "dashboard")
		assert.Contains(t, out, "## internal/dashboard/board.go")
		assert.Contains(t, out, "```go")
	})

	t.Run("unknown root", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"summary", "--root", filepath.Join(root, "missing")})
		assert.Error(t, cmd.Execute())
	})
}
