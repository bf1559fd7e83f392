// Package gitvcs provides the version-control value provider, backed by the
// git command-line tool.
package gitvcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sufield/verstamp/internal/core/domain"
)

// commitMessageLimit caps the encoded commit message. The first line of a
// commit message is unbounded, so it is pre-truncated to keep room in the
// section buffer; every other slot overflows the encode instead.
const commitMessageLimit = 100

// runFunc executes a git invocation and returns its trimmed stdout. It is a
// field so tests can substitute canned output without a git repository.
type runFunc func(ctx context.Context, args ...string) (string, error)

// Provider fills the git-derived schema slots by shelling out to git.
type Provider struct {
	run runFunc
}

// NewProvider creates a git value provider using the git binary on PATH,
// running in dir (empty means the current directory).
func NewProvider(dir string) *Provider {
	return &Provider{run: func(ctx context.Context, args ...string) (string, error) {
		return runGit(ctx, dir, args...)
	}}
}

// Provide fills the requested git slots into the assignment. Slots this
// provider does not own are ignored. When several slots fail, the values that
// could be collected are still filled and the first failure is returned.
func (p *Provider) Provide(ctx context.Context, slots []domain.Slot, assignment *domain.Assignment) error {
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	wantTime := false
	wantDate := false
	for _, slot := range slots {
		switch slot {
		case domain.SlotGitSHA:
			if sha, err := p.run(ctx, "rev-parse", "HEAD"); err != nil {
				fail(err)
			} else {
				assignment.Set(slot, sha)
			}
		case domain.SlotGitDescribe:
			if describe, err := p.run(ctx, "describe", "--always", "--dirty"); err != nil {
				fail(err)
			} else {
				assignment.Set(slot, describe)
			}
		case domain.SlotGitBranch:
			if branch, err := p.run(ctx, "rev-parse", "--abbrev-ref", "HEAD"); err != nil {
				fail(err)
			} else {
				assignment.Set(slot, branch)
			}
		case domain.SlotGitCommitMessage:
			if msg, err := p.run(ctx, "log", "-1", "--format=%s"); err != nil {
				fail(err)
			} else {
				assignment.Set(slot, truncateUTF8(msg, commitMessageLimit))
			}
		case domain.SlotGitCommitTime:
			wantTime = true
		case domain.SlotGitCommitDate:
			wantDate = true
		}
	}

	if wantTime || wantDate {
		commitTime, err := p.commitTime(ctx)
		if err != nil {
			fail(err)
		} else {
			if wantTime {
				assignment.Set(domain.SlotGitCommitTime, commitTime.Format(time.RFC3339))
			}
			if wantDate {
				assignment.Set(domain.SlotGitCommitDate, commitTime.Format("2006-01-02"))
			}
		}
	}

	return firstErr
}

// commitTime reads the author timestamp of HEAD in strict ISO 8601 form.
func (p *Provider) commitTime(ctx context.Context) (time.Time, error) {
	raw, err := p.run(ctx, "log", "-1", "--format=%aI")
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse git commit timestamp %q: %w", raw, err)
	}
	return t, nil
}

// truncateUTF8 truncates s to at most limit bytes, backing up to a rune
// boundary so the result stays valid UTF-8.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}

// runGit executes git with the given arguments and returns trimmed stdout.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, detail)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	out := strings.TrimSpace(stdout.String())
	if !utf8.ValidString(out) {
		return "", fmt.Errorf("git %s: output is not valid UTF-8", strings.Join(args, " "))
	}
	return out, nil
}
