package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sufield/verstamp/internal/core/domain"
	"github.com/sufield/verstamp/internal/core/ports"
	"github.com/sufield/verstamp/internal/core/section"
)

// fakeProvider fills canned values for the slots it owns, or fails.
type fakeProvider struct {
	values map[domain.Slot]string
	err    error
}

func (p *fakeProvider) Provide(_ context.Context, slots []domain.Slot, assignment *domain.Assignment) error {
	if p.err != nil {
		return p.err
	}
	for _, slot := range slots {
		if value, ok := p.values[slot]; ok {
			assignment.Set(slot, value)
		}
	}
	return nil
}

func newTestStamper(providers []ports.ValueProvider, sink ports.WarningSink, strict bool) *Stamper {
	return NewStamper(providers, sink, section.DefaultBufferSize, strict)
}

func TestStamperAssemble(t *testing.T) {
	git := &fakeProvider{values: map[domain.Slot]string{
		domain.SlotGitSHA:    "abc123",
		domain.SlotGitBranch: "main",
	}}

	t.Run("Collects requested slots", func(t *testing.T) {
		stamper := newTestStamper([]ports.ValueProvider{git}, &recordingSink{}, false)

		assignment, err := stamper.Assemble(context.Background(), &StampRequest{
			Slots: []domain.Slot{domain.SlotGitSHA, domain.SlotGitBranch},
		})
		require.NoError(t, err)

		sha, ok := assignment.Get(domain.SlotGitSHA)
		require.True(t, ok)
		require.Equal(t, "abc123", sha)
		branch, ok := assignment.Get(domain.SlotGitBranch)
		require.True(t, ok)
		require.Equal(t, "main", branch)
	})

	t.Run("Unrequested slots stay absent", func(t *testing.T) {
		stamper := newTestStamper([]ports.ValueProvider{git}, &recordingSink{}, false)

		assignment, err := stamper.Assemble(context.Background(), &StampRequest{
			Slots: []domain.Slot{domain.SlotGitSHA},
		})
		require.NoError(t, err)

		_, ok := assignment.Get(domain.SlotGitBranch)
		require.False(t, ok)
	})

	t.Run("Custom string", func(t *testing.T) {
		stamper := newTestStamper(nil, &recordingSink{}, false)
		custom := "release-channel=beta"

		assignment, err := stamper.Assemble(context.Background(), &StampRequest{Custom: &custom})
		require.NoError(t, err)

		value, ok := assignment.Get(domain.SlotCustom)
		require.True(t, ok)
		require.Equal(t, "release-channel=beta", value)
	})

	t.Run("Provider failure warns and leaves slots absent", func(t *testing.T) {
		broken := &fakeProvider{err: errors.New("git: not a repository")}
		sink := &recordingSink{}
		stamper := newTestStamper([]ports.ValueProvider{broken, git}, sink, false)

		assignment, err := stamper.Assemble(context.Background(), &StampRequest{
			Slots: []domain.Slot{domain.SlotGitSHA},
		})
		require.NoError(t, err)

		// The failing provider warned; the healthy one still contributed.
		require.Len(t, sink.warnings, 1)
		require.Contains(t, sink.warnings[0], "not a repository")
		sha, ok := assignment.Get(domain.SlotGitSHA)
		require.True(t, ok)
		require.Equal(t, "abc123", sha)
	})

	t.Run("Strict mode promotes provider failure to fatal", func(t *testing.T) {
		broken := &fakeProvider{err: errors.New("git: not a repository")}
		stamper := newTestStamper([]ports.ValueProvider{broken}, &recordingSink{}, true)

		assignment, err := stamper.Assemble(context.Background(), &StampRequest{
			Slots: []domain.Slot{domain.SlotGitSHA},
		})
		require.Error(t, err)
		require.Nil(t, assignment)
		require.ErrorContains(t, err, "not a repository")
	})
}

func TestStamperEncodeBuffer(t *testing.T) {
	stamper := newTestStamper(nil, &recordingSink{}, false)
	assignment := &domain.Assignment{}
	assignment.Set(domain.SlotCustom, "x")

	buf, err := stamper.EncodeBuffer(assignment)
	require.NoError(t, err)
	require.Len(t, buf, section.DefaultBufferSize)
	require.True(t, section.Decode(buf).Equal(assignment))
}

func TestStamperWriteBuffer(t *testing.T) {
	stamper := newTestStamper(nil, &recordingSink{}, false)
	buf := make([]byte, section.DefaultBufferSize)

	t.Run("File target", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stamp.bin")
		written, err := stamper.WriteBuffer(buf, path)
		require.NoError(t, err)
		require.Equal(t, path, written)

		contents, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, buf, contents)
	})

	t.Run("Directory target appends default name", func(t *testing.T) {
		dir := t.TempDir()
		written, err := stamper.WriteBuffer(buf, dir)
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, DefaultDataFileName), written)
	})
}
