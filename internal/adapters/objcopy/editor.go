// Package objcopy implements the section editor capability on top of an
// objcopy-compatible command-line tool.
package objcopy

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sufield/verstamp/internal/adapters/objfile"
)

// candidateTools are tried in order when no tool path is configured.
var candidateTools = []string{"llvm-objcopy", "objcopy"}

// Editor drives an objcopy subprocess to rewrite sections, and probes
// section presence natively so a missing section can be distinguished from a
// tool failure.
type Editor struct {
	tool string
}

// NewEditor creates an Editor. toolPath names the objcopy binary to use;
// empty means discover llvm-objcopy or objcopy on PATH. Discovery happens
// here, once, so a misconfigured tool fails at construction rather than
// midway through a patch.
func NewEditor(toolPath string) (*Editor, error) {
	if toolPath != "" {
		resolved, err := exec.LookPath(toolPath)
		if err != nil {
			return nil, fmt.Errorf("objcopy tool %s: %w", toolPath, err)
		}
		return &Editor{tool: resolved}, nil
	}

	for _, candidate := range candidateTools {
		if resolved, err := exec.LookPath(candidate); err == nil {
			return &Editor{tool: resolved}, nil
		}
	}
	return nil, fmt.Errorf("no objcopy tool found on PATH (tried %s); install llvm or binutils, or set VERSTAMP_OBJCOPY",
		strings.Join(candidateTools, ", "))
}

// Tool returns the resolved objcopy path.
func (e *Editor) Tool() string {
	return e.tool
}

// SectionSize reports whether the named section exists in the binary and its
// size.
func (e *Editor) SectionSize(_ context.Context, binaryPath, sectionName string) (int64, bool, error) {
	return objfile.SectionStat(binaryPath, sectionName)
}

// RewriteSection replaces the named section's bytes with the contents of
// dataPath via `objcopy --update-section`, writing the result to outputPath.
// A failure to start the tool or a non-zero exit is an error carrying the
// tool's stderr.
func (e *Editor) RewriteSection(ctx context.Context, inputPath, sectionName, dataPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, e.tool,
		"--update-section", sectionName+"="+dataPath,
		inputPath, outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s --update-section %s: %w: %s", e.tool, sectionName, err, detail)
		}
		return fmt.Errorf("%s --update-section %s: %w", e.tool, sectionName, err)
	}
	return nil
}
