// Package services implements the provenance stamping pipeline: assembling
// slot values from providers, encoding the section buffer, and patching it
// into target binaries through a section editor.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sufield/verstamp/internal/core/domain"
	"github.com/sufield/verstamp/internal/core/ports"
	"github.com/sufield/verstamp/internal/core/section"
)

// DefaultDataFileName is the filename used when a buffer is written to a
// directory target.
const DefaultDataFileName = "verstamp_data"

// StampRequest selects what goes into a section buffer.
type StampRequest struct {
	// Slots to collect from the value providers, in any order.
	Slots []domain.Slot
	// Custom is the caller-supplied string for the custom slot; nil leaves
	// the slot absent.
	Custom *string
}

// IsEmpty reports whether the request selects nothing.
func (r *StampRequest) IsEmpty() bool {
	return len(r.Slots) == 0 && r.Custom == nil
}

// Stamper assembles assignments from value providers and encodes them.
type Stamper struct {
	providers  []ports.ValueProvider
	warnings   ports.WarningSink
	bufferSize int
	strict     bool
}

// NewStamper creates a Stamper. In strict mode a provider failure aborts the
// invocation instead of leaving its slots absent.
func NewStamper(providers []ports.ValueProvider, warnings ports.WarningSink, bufferSize int, strict bool) *Stamper {
	return &Stamper{
		providers:  providers,
		warnings:   warnings,
		bufferSize: bufferSize,
		strict:     strict,
	}
}

// Assemble collects the requested slot values from the providers.
//
// Provider unavailability (git missing, not a repository, I/O failure) is a
// warning and the provider's slots stay absent, unless strict mode promotes
// it to a fatal error.
func (s *Stamper) Assemble(ctx context.Context, req *StampRequest) (*domain.Assignment, error) {
	assignment := &domain.Assignment{}

	if len(req.Slots) > 0 {
		for _, provider := range s.providers {
			if err := provider.Provide(ctx, req.Slots, assignment); err != nil {
				if s.strict {
					return nil, fmt.Errorf("collect provenance values: %w", err)
				}
				s.warnings.Warnf("provenance value unavailable, leaving slot absent: %v", err)
			}
		}
	}

	if req.Custom != nil {
		assignment.Set(domain.SlotCustom, *req.Custom)
	}

	return assignment, nil
}

// EncodeBuffer serializes the assignment into a section buffer of the
// configured size.
func (s *Stamper) EncodeBuffer(assignment *domain.Assignment) ([]byte, error) {
	buf, err := section.Encode(assignment, s.bufferSize)
	if err != nil {
		return nil, fmt.Errorf("encode section buffer: %w", err)
	}
	return buf, nil
}

// WriteBuffer writes an encoded buffer to path. A directory target gets
// DefaultDataFileName appended. Returns the path actually written.
func (s *Stamper) WriteBuffer(buf []byte, path string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultDataFileName)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("write section data file %s: %w", path, err)
	}
	return path, nil
}
