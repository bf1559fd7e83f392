package ports

import (
	"context"
	"time"

	"github.com/sufield/verstamp/internal/core/domain"
)

// ValueProvider produces values for a set of schema slots. Providers are
// independently optional: a provider whose backing data source is unavailable
// reports that through the error return, and the caller decides whether that
// is fatal (strict mode) or downgrades to a warning with the slots left
// absent.
type ValueProvider interface {
	// Provide fills values for the requested slots into the assignment.
	// Slots the provider does not own are ignored. A provider that can
	// produce some but not all of its slots fills what it can and returns
	// the first failure.
	Provide(ctx context.Context, slots []domain.Slot, assignment *domain.Assignment) error
}

// Clock supplies the build time. Implementations resolve any environment
// override at construction time so the core never reads the environment
// mid-algorithm.
type Clock interface {
	Now() time.Time
}

// WarningSink receives the non-fatal conditions the pipeline is specified to
// degrade through: missing sections, size skew, unavailable providers.
type WarningSink interface {
	Warnf(format string, args ...any)
}
