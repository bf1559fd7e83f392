// Package clock supplies the build time, honoring a reproducible-build
// override resolved once at construction.
package clock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sufield/verstamp/internal/core/domain"
	"github.com/sufield/verstamp/internal/core/ports"
)

// System is the build-time clock. With no override it reports the current
// time in UTC; an override pins it for reproducible builds.
type System struct {
	override *time.Time
}

// New creates a clock. A non-empty override is parsed as integer epoch
// seconds first, then as RFC 3339; anything else is a fatal configuration
// error, never silently ignored.
func New(override string) (*System, error) {
	if override == "" {
		return &System{}, nil
	}

	if secs, err := strconv.ParseInt(override, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		return &System{override: &t}, nil
	}

	if t, err := time.Parse(time.RFC3339, override); err == nil {
		utc := t.UTC()
		return &System{override: &utc}, nil
	}

	return nil, fmt.Errorf("build time override %q is not a unix timestamp or RFC 3339 datetime", override)
}

// Now returns the build time.
func (s *System) Now() time.Time {
	if s.override != nil {
		return *s.override
	}
	return time.Now().UTC()
}

// Provider fills the build-time schema slots from a Clock.
type Provider struct {
	clock ports.Clock
}

// NewProvider creates a build-time value provider.
func NewProvider(clock ports.Clock) *Provider {
	return &Provider{clock: clock}
}

// Provide fills the requested build-time slots. The clock cannot fail, so
// this never returns an error.
func (p *Provider) Provide(_ context.Context, slots []domain.Slot, assignment *domain.Assignment) error {
	for _, slot := range slots {
		switch slot {
		case domain.SlotBuildTime:
			assignment.Set(slot, p.clock.Now().Format(time.RFC3339))
		case domain.SlotBuildDate:
			assignment.Set(slot, p.clock.Now().Format("2006-01-02"))
		}
	}
	return nil
}
