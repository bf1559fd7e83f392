//go:build !windows

package objcopy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTool drops an executable shell script standing in for objcopy.
func writeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-objcopy")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestNewEditor(t *testing.T) {
	t.Run("Explicit tool path", func(t *testing.T) {
		tool := writeTool(t, "exit 0")
		editor, err := NewEditor(tool)
		require.NoError(t, err)
		require.Equal(t, tool, editor.Tool())
	})

	t.Run("Missing explicit tool is a construction error", func(t *testing.T) {
		_, err := NewEditor(filepath.Join(t.TempDir(), "no-such-tool"))
		require.Error(t, err)
	})

	t.Run("Discovery failure names the override", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		_, err := NewEditor("")
		require.Error(t, err)
		require.ErrorContains(t, err, "VERSTAMP_OBJCOPY")
	})
}

func TestRewriteSection(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful invocation", func(t *testing.T) {
		// The stand-in copies input ($3) to output ($4), which is all the
		// orchestrator observes of a real objcopy run.
		tool := writeTool(t, `cp "$3" "$4"`)
		editor, err := NewEditor(tool)
		require.NoError(t, err)

		dir := t.TempDir()
		input := filepath.Join(dir, "in.bin")
		output := filepath.Join(dir, "out.bin")
		data := filepath.Join(dir, "section.dat")
		require.NoError(t, os.WriteFile(input, []byte("binary"), 0o755))
		require.NoError(t, os.WriteFile(data, []byte("section"), 0o644))

		require.NoError(t, editor.RewriteSection(ctx, input, ".verstamp_data", data, output))

		written, err := os.ReadFile(output)
		require.NoError(t, err)
		require.Equal(t, []byte("binary"), written)
	})

	t.Run("Non-zero exit carries stderr", func(t *testing.T) {
		tool := writeTool(t, `echo "error: cannot open input" >&2; exit 1`)
		editor, err := NewEditor(tool)
		require.NoError(t, err)

		err = editor.RewriteSection(ctx, "in", ".verstamp_data", "data", "out")
		require.Error(t, err)
		require.ErrorContains(t, err, "cannot open input")
	})
}

func TestSectionSize(t *testing.T) {
	tool := writeTool(t, "exit 0")
	editor, err := NewEditor(tool)
	require.NoError(t, err)

	t.Run("Probes without invoking the tool", func(t *testing.T) {
		exe, err := os.Executable()
		require.NoError(t, err)

		_, exists, err := editor.SectionSize(context.Background(), exe, ".verstamp_data")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("Unrecognized binary", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.txt")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))

		_, _, err := editor.SectionSize(context.Background(), path, ".verstamp_data")
		require.Error(t, err)
	})
}
