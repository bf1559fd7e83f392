package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sufield/verstamp/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("No override tracks the wall clock", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)

		now := c.Now()
		require.WithinDuration(t, time.Now().UTC(), now, 5*time.Second)
		require.Equal(t, time.UTC, now.Location())
	})

	t.Run("Unix timestamp override", func(t *testing.T) {
		c, err := New("1700000000")
		require.NoError(t, err)
		require.Equal(t, time.Unix(1700000000, 0).UTC(), c.Now())
	})

	t.Run("RFC 3339 override", func(t *testing.T) {
		c, err := New("2025-06-01T12:00:00+02:00")
		require.NoError(t, err)
		require.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), c.Now())
	})

	t.Run("Invalid override is fatal", func(t *testing.T) {
		_, err := New("next tuesday")
		require.Error(t, err)
		require.ErrorContains(t, err, "next tuesday")
	})

	t.Run("Override is stable across calls", func(t *testing.T) {
		c, err := New("1700000000")
		require.NoError(t, err)
		require.Equal(t, c.Now(), c.Now())
	})
}

func TestProvider(t *testing.T) {
	c, err := New("2025-06-01T10:30:00Z")
	require.NoError(t, err)
	provider := NewProvider(c)

	t.Run("Fills build time and date", func(t *testing.T) {
		assignment := &domain.Assignment{}
		err := provider.Provide(context.Background(),
			[]domain.Slot{domain.SlotBuildTime, domain.SlotBuildDate}, assignment)
		require.NoError(t, err)

		buildTime, _ := assignment.Get(domain.SlotBuildTime)
		require.Equal(t, "2025-06-01T10:30:00Z", buildTime)
		buildDate, _ := assignment.Get(domain.SlotBuildDate)
		require.Equal(t, "2025-06-01", buildDate)
	})

	t.Run("Ignores slots it does not own", func(t *testing.T) {
		assignment := &domain.Assignment{}
		err := provider.Provide(context.Background(),
			[]domain.Slot{domain.SlotGitSHA, domain.SlotCustom}, assignment)
		require.NoError(t, err)
		require.True(t, assignment.IsEmpty())
	})
}
