// Package ports defines the capability interfaces the core services depend
// on. Adapters under internal/adapters implement them; tests substitute
// doubles so the core stays independently testable.
package ports

import "context"

// SectionEditor is the external capability that can inspect and rewrite a
// named section inside a compiled binary. The canonical implementation drives
// an objcopy-compatible tool as a subprocess; doubles simulate missing
// sections, size mismatches, and tool failures.
type SectionEditor interface {
	// SectionSize reports whether the named section exists in the binary at
	// binaryPath and, if so, its size in bytes. A missing section is not an
	// error; errors are reserved for being unable to decide (unreadable or
	// unrecognized binary, tool failure).
	SectionSize(ctx context.Context, binaryPath, sectionName string) (size int64, exists bool, err error)

	// RewriteSection replaces the named section's bytes in the input binary
	// with the contents of dataPath, writing the result to outputPath. Any
	// failure to invoke the underlying tool, or a non-zero exit, is an error;
	// no partial output may be left behind as a success result.
	RewriteSection(ctx context.Context, inputPath, sectionName, dataPath, outputPath string) error
}
