package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	require.Equal(t, Version, info.Version)
	require.Equal(t, Commit, info.Commit)
	require.Equal(t, BuildTime, info.BuildTime)
}

func TestDefaultValues(t *testing.T) {
	require.Equal(t, "dev", Version)
	require.Equal(t, "unknown", Commit)
	require.Equal(t, "unknown", BuildTime)
}
