package objfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionStat(t *testing.T) {
	t.Run("Own test binary has no verstamp section", func(t *testing.T) {
		exe, err := os.Executable()
		require.NoError(t, err)

		_, exists, err := SectionStat(exe, ".verstamp_data")
		require.NoError(t, err, "the test binary is a parseable executable")
		require.False(t, exists)
	})

	t.Run("Own test binary has a text section", func(t *testing.T) {
		exe, err := os.Executable()
		require.NoError(t, err)

		// Section naming differs per container format.
		for _, name := range []string{".text", "__text"} {
			size, exists, err := SectionStat(exe, name)
			require.NoError(t, err)
			if exists {
				require.Greater(t, size, int64(0))
				return
			}
		}
		t.Fatal("no text section found in the test binary")
	})

	t.Run("Unrecognized file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))

		_, _, err := SectionStat(path, ".verstamp_data")
		require.Error(t, err)
		require.ErrorContains(t, err, "not a recognized")
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, _, err := SectionStat(filepath.Join(t.TempDir(), "missing"), ".verstamp_data")
		require.Error(t, err)
	})
}

func TestSectionData(t *testing.T) {
	t.Run("Extracts section bytes", func(t *testing.T) {
		exe, err := os.Executable()
		require.NoError(t, err)

		for _, name := range []string{".text", "__text"} {
			data, exists, err := SectionData(exe, name)
			require.NoError(t, err)
			if exists {
				require.NotEmpty(t, data)
				return
			}
		}
		t.Fatal("no text section found in the test binary")
	})

	t.Run("Absent section", func(t *testing.T) {
		exe, err := os.Executable()
		require.NoError(t, err)

		data, exists, err := SectionData(exe, ".verstamp_data")
		require.NoError(t, err)
		require.False(t, exists)
		require.Nil(t, data)
	})

	t.Run("Unrecognized file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

		_, _, err := SectionData(path, ".verstamp_data")
		require.Error(t, err)
	})
}
