package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/sufield/verstamp/internal/core/ports"
)

// PatchResult describes the outcome of a patch invocation.
type PatchResult struct {
	// OutputPath is where the resulting binary was written.
	OutputPath string
	// Patched is false when the section was absent and the binary was
	// copied verbatim instead.
	Patched bool
	// SectionSize is the size of the section found in the input binary;
	// zero when the section was absent.
	SectionSize int64
	// Digest is the xxhash64 digest of the output binary's contents.
	Digest uint64
}

// Patcher rewrites a section buffer into target binaries through a
// SectionEditor.
type Patcher struct {
	editor   ports.SectionEditor
	warnings ports.WarningSink
}

// NewPatcher creates a Patcher over the given section editor.
func NewPatcher(editor ports.SectionEditor, warnings ports.WarningSink) *Patcher {
	return &Patcher{editor: editor, warnings: warnings}
}

// Patch locates sectionName in the binary at inputPath and rewrites its bytes
// with buf, writing the result to outputPath.
//
// Two degradations are defined successes, not errors:
//
//   - Section absent: the binary may simply have been built without the
//     section compiled in (stripped, or a foreign build). The input is copied
//     to the output byte for byte and a warning is emitted.
//   - Section present with a size different from len(buf): likely version
//     skew between this encoder and the binary. A warning is emitted and the
//     rewrite proceeds; how the editor reconciles the sizes is its business.
//
// Editor invocation failure is always fatal, and no partial output is left at
// outputPath. The output is written through a temporary path in the output
// directory and renamed into place, so an interrupted invocation never leaves
// a half-written file where the caller expects a result.
func (p *Patcher) Patch(ctx context.Context, buf []byte, inputPath, sectionName, outputPath string) (*PatchResult, error) {
	size, exists, err := p.editor.SectionSize(ctx, inputPath, sectionName)
	if err != nil {
		return nil, fmt.Errorf("probe section %s in %s: %w", sectionName, inputPath, err)
	}

	if !exists {
		p.warnings.Warnf("section %s not found in %s, copying without modification", sectionName, inputPath)
		if err := copyFile(inputPath, outputPath); err != nil {
			return nil, err
		}
		return p.finish(outputPath, false, 0)
	}

	if size != int64(len(buf)) {
		p.warnings.Warnf("section %s in %s has size %d but buffer is %d bytes; "+
			"the binary may have been built against a different schema version",
			sectionName, inputPath, size, len(buf))
	}

	dataPath, err := writeTemp(filepath.Dir(outputPath), buf)
	if err != nil {
		return nil, err
	}
	defer os.Remove(dataPath)

	tmpOut := tempPath(filepath.Dir(outputPath))
	if err := p.editor.RewriteSection(ctx, inputPath, sectionName, dataPath, tmpOut); err != nil {
		os.Remove(tmpOut)
		return nil, fmt.Errorf("rewrite section %s in %s: %w", sectionName, inputPath, err)
	}
	if err := os.Rename(tmpOut, outputPath); err != nil {
		os.Remove(tmpOut)
		return nil, fmt.Errorf("move patched binary into place at %s: %w", outputPath, err)
	}

	return p.finish(outputPath, true, size)
}

// finish stats and digests the output so callers can report what was produced.
func (p *Patcher) finish(outputPath string, patched bool, sectionSize int64) (*PatchResult, error) {
	digest, err := digestFile(outputPath)
	if err != nil {
		return nil, err
	}
	return &PatchResult{
		OutputPath:  outputPath,
		Patched:     patched,
		SectionSize: sectionSize,
		Digest:      digest,
	}, nil
}

// tempPath returns a unique scratch path inside dir, kept on the same
// filesystem as the final output so the rename is atomic.
func tempPath(dir string) string {
	return filepath.Join(dir, ".verstamp-"+uuid.NewString()+".tmp")
}

func writeTemp(dir string, data []byte) (string, error) {
	path := tempPath(dir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write section data to %s: %w", path, err)
	}
	return path, nil
}

// copyFile copies src to dst byte for byte, preserving the source's file
// mode, through a temporary path in dst's directory.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	tmp := tempPath(filepath.Dir(dst))
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copy %s to %s: %w", src, tmp, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move copied binary into place at %s: %w", dst, err)
	}
	return nil
}

func digestFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("digest %s: %w", path, err)
	}
	return h.Sum64(), nil
}
