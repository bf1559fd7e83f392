package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sufield/verstamp/internal/adapters/clock"
	"github.com/sufield/verstamp/internal/adapters/gitvcs"
	"github.com/sufield/verstamp/internal/adapters/objcopy"
	"github.com/sufield/verstamp/internal/config"
	"github.com/sufield/verstamp/internal/core/domain"
	"github.com/sufield/verstamp/internal/core/ports"
	"github.com/sufield/verstamp/internal/core/services"
)

// selection flags map one-to-one onto schema slots, plus the two aggregates.
var selectionSlots = []struct {
	flag string
	slot domain.Slot
}{
	{"git-sha", domain.SlotGitSHA},
	{"git-describe", domain.SlotGitDescribe},
	{"git-branch", domain.SlotGitBranch},
	{"git-commit-time", domain.SlotGitCommitTime},
	{"git-commit-date", domain.SlotGitCommitDate},
	{"git-commit-msg", domain.SlotGitCommitMessage},
	{"build-time", domain.SlotBuildTime},
	{"build-date", domain.SlotBuildDate},
}

var allGitSlots = []domain.Slot{
	domain.SlotGitSHA,
	domain.SlotGitDescribe,
	domain.SlotGitBranch,
	domain.SlotGitCommitTime,
	domain.SlotGitCommitDate,
	domain.SlotGitCommitMessage,
}

var allBuildTimeSlots = []domain.Slot{
	domain.SlotBuildTime,
	domain.SlotBuildDate,
}

// addSelectionFlags registers the slot selection flags shared by generate
// and patch.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("git-sha", false, "Include the commit hash (git rev-parse HEAD)")
	cmd.Flags().Bool("git-describe", false, "Include the revision descriptor (git describe --always --dirty)")
	cmd.Flags().Bool("git-branch", false, "Include the branch name (git rev-parse --abbrev-ref HEAD)")
	cmd.Flags().Bool("git-commit-time", false, "Include the commit timestamp (RFC 3339)")
	cmd.Flags().Bool("git-commit-date", false, "Include the commit date (YYYY-MM-DD)")
	cmd.Flags().Bool("git-commit-msg", false, "Include the first line of the commit message (max 100 bytes)")
	cmd.Flags().Bool("all-git", false, "Include all git information")
	cmd.Flags().Bool("build-time", false, "Include the build timestamp (RFC 3339, UTC)")
	cmd.Flags().Bool("build-date", false, "Include the build date (YYYY-MM-DD, UTC)")
	cmd.Flags().Bool("all-build-time", false, "Include all build time information")
	cmd.Flags().String("custom", "", "Custom string to embed")
	cmd.Flags().Bool("strict", false, "Fail instead of warning when a value source is unavailable")
}

// buildRequest turns the selection flags into a stamp request. Selecting
// nothing is a usage error: an all-absent buffer is what an unpatched binary
// already contains.
func buildRequest(cmd *cobra.Command) (*services.StampRequest, error) {
	req := &services.StampRequest{}
	selected := make(map[domain.Slot]bool)

	if all, _ := cmd.Flags().GetBool("all-git"); all {
		for _, slot := range allGitSlots {
			selected[slot] = true
		}
	}
	if all, _ := cmd.Flags().GetBool("all-build-time"); all {
		for _, slot := range allBuildTimeSlots {
			selected[slot] = true
		}
	}
	for _, sel := range selectionSlots {
		if on, _ := cmd.Flags().GetBool(sel.flag); on {
			selected[sel.slot] = true
		}
	}
	for _, slot := range domain.Slots() {
		if selected[slot] {
			req.Slots = append(req.Slots, slot)
		}
	}

	if cmd.Flags().Changed("custom") {
		custom, _ := cmd.Flags().GetString("custom")
		req.Custom = &custom
	}

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no provenance selected; pass --all-git, --all-build-time, individual field flags, or --custom", ErrUsage)
	}
	return req, nil
}

// loadConfig resolves configuration for the command, folding the --strict
// flag into it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Strict = true
	}
	return cfg, nil
}

// newStamper wires the value providers behind a stamper.
func newStamper(cfg *config.Config, logger *slog.Logger) (*services.Stamper, error) {
	buildClock, err := clock.New(cfg.BuildTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	providers := []ports.ValueProvider{
		gitvcs.NewProvider(""),
		clock.NewProvider(buildClock),
	}
	return services.NewStamper(providers, &slogSink{logger: logger}, cfg.BufferSize, cfg.Strict), nil
}

// newPatcher wires the objcopy editor behind a patcher.
func newPatcher(cfg *config.Config, logger *slog.Logger) (*services.Patcher, error) {
	editor, err := objcopy.NewEditor(cfg.Objcopy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	logger.Debug("resolved section editor", "tool", editor.Tool())
	return services.NewPatcher(editor, &slogSink{logger: logger}), nil
}
