// Package verstamp is the public API for reading provenance section buffers
// out of compiled binaries.
//
// A verstamp buffer is a fixed-size region (512 bytes by default) in a named
// object-file section (".verstamp_data" by default) packing a closed menu of
// optional string fields: git identity, commit and build timestamps, and a
// caller-defined custom string. The verstamp CLI writes it into an already
// compiled binary; this package reads it back, typically from the running
// program's own executable:
//
//	info, ok, err := verstamp.FromExecutable()
//	if err == nil && ok {
//	    if sha, ok := info.GitSHA(); ok {
//	        log.Printf("built from %s", sha)
//	    }
//	}
//
// Buffers are untrusted data: a binary that was never stamped, was stripped,
// or was stamped by a different schema version decodes as fields absent,
// never as an error.
package verstamp

import (
	"fmt"
	"os"

	"github.com/sufield/verstamp/internal/adapters/objfile"
	"github.com/sufield/verstamp/internal/core/domain"
	"github.com/sufield/verstamp/internal/core/section"
)

const (
	// SectionName is the default object-file section holding the buffer.
	SectionName = section.DefaultSectionName

	// BufferSize is the default total buffer size in bytes.
	BufferSize = section.DefaultBufferSize
)

// Info is a decoded provenance buffer. Each accessor returns the field's
// value and whether it was present; the format cannot distinguish an absent
// field from a present empty one, so empty collapses to absent.
type Info struct {
	assignment *domain.Assignment
}

// Decode decodes a raw section buffer. It never fails: malformed buffers
// decode as all fields absent.
func Decode(buf []byte) *Info {
	return &Info{assignment: section.Decode(buf)}
}

// ReadFile extracts and decodes the named section from the binary at path.
// ok is false when the binary has no such section; err is reserved for
// unreadable or unrecognized binaries.
func ReadFile(path, sectionName string) (info *Info, ok bool, err error) {
	data, exists, err := objfile.SectionData(path, sectionName)
	if err != nil {
		return nil, exists, err
	}
	if !exists {
		return nil, false, nil
	}
	return Decode(data), true, nil
}

// FromExecutable reads the running program's own embedded buffer from the
// default section.
func FromExecutable() (info *Info, ok bool, err error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, false, fmt.Errorf("locate own executable: %w", err)
	}
	return ReadFile(exe, SectionName)
}

// GitSHA returns the commit hash the artifact was built from.
func (i *Info) GitSHA() (string, bool) { return i.assignment.Get(domain.SlotGitSHA) }

// GitDescribe returns the human-readable revision descriptor.
func (i *Info) GitDescribe() (string, bool) { return i.assignment.Get(domain.SlotGitDescribe) }

// GitBranch returns the branch name.
func (i *Info) GitBranch() (string, bool) { return i.assignment.Get(domain.SlotGitBranch) }

// GitCommitTime returns the commit timestamp in RFC 3339 form.
func (i *Info) GitCommitTime() (string, bool) { return i.assignment.Get(domain.SlotGitCommitTime) }

// GitCommitDate returns the commit date as YYYY-MM-DD.
func (i *Info) GitCommitDate() (string, bool) { return i.assignment.Get(domain.SlotGitCommitDate) }

// GitCommitMessage returns the first line of the commit message, truncated
// to 100 bytes at stamp time.
func (i *Info) GitCommitMessage() (string, bool) {
	return i.assignment.Get(domain.SlotGitCommitMessage)
}

// BuildTime returns the build timestamp in RFC 3339 form.
func (i *Info) BuildTime() (string, bool) { return i.assignment.Get(domain.SlotBuildTime) }

// BuildDate returns the build date as YYYY-MM-DD.
func (i *Info) BuildDate() (string, bool) { return i.assignment.Get(domain.SlotBuildDate) }

// Custom returns the caller-defined string.
func (i *Info) Custom() (string, bool) { return i.assignment.Get(domain.SlotCustom) }

// Fields returns the present fields keyed by their stable slot names.
func (i *Info) Fields() map[string]string {
	fields := make(map[string]string)
	for _, slot := range domain.Slots() {
		if value, ok := i.assignment.Get(slot); ok {
			fields[slot.String()] = value
		}
	}
	return fields
}
