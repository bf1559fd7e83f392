package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sufield/verstamp/internal/config"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Rewrite a binary's provenance section",
	Long: `Rewrite the provenance section of an already-compiled binary.

The selected fields are collected, encoded into a section buffer, and written
into the binary's section via the configured objcopy tool. A binary built
without the section is copied to the output unmodified, with a warning: a
stripped or foreign build is not an error.

Pre-generated buffers (from 'verstamp generate') can be patched with --data
instead of field selection flags.

Examples:
  verstamp patch --all-git --all-build-time --binary app --out app.stamped
  verstamp patch --data verstamp_data --binary app --out app.stamped`,
	PreRunE: validatePatchFlags,
	RunE:    runPatch,
}

func init() {
	addSelectionFlags(patchCmd)
	patchCmd.Flags().String("binary", "", "Input binary to patch (required)")
	patchCmd.Flags().String("out", "", "Output path for the patched binary (required)")
	patchCmd.Flags().String("data", "", "Patch a pre-generated section data file instead of collecting values")
	patchCmd.Flags().String("objcopy", "", "Section-editing tool to use (default: llvm-objcopy or objcopy on PATH)")

	patchCmd.MarkFlagRequired("binary")
	patchCmd.MarkFlagRequired("out")
	patchCmd.MarkFlagFilename("binary")
	patchCmd.MarkFlagFilename("data")

	rootCmd.AddCommand(patchCmd)
}

func validatePatchFlags(cmd *cobra.Command, args []string) error {
	data, _ := cmd.Flags().GetString("data")
	if data == "" {
		return nil
	}
	for _, sel := range selectionSlots {
		if on, _ := cmd.Flags().GetBool(sel.flag); on {
			return fmt.Errorf("%w: --data cannot be combined with --%s", ErrUsage, sel.flag)
		}
	}
	for _, flag := range []string{"all-git", "all-build-time"} {
		if on, _ := cmd.Flags().GetBool(flag); on {
			return fmt.Errorf("%w: --data cannot be combined with --%s", ErrUsage, flag)
		}
	}
	if cmd.Flags().Changed("custom") {
		return fmt.Errorf("%w: --data cannot be combined with --custom", ErrUsage)
	}
	return nil
}

func runPatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if objcopyFlag, _ := cmd.Flags().GetString("objcopy"); objcopyFlag != "" {
		cfg.Objcopy = objcopyFlag
	}
	logger := newLogger(cmd)

	buf, err := patchBuffer(cmd, cfg, logger)
	if err != nil {
		return err
	}

	patcher, err := newPatcher(cfg, logger)
	if err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("binary")
	outputPath, _ := cmd.Flags().GetString("out")

	result, err := patcher.Patch(cmd.Context(), buf, inputPath, cfg.SectionName, outputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	if result.Patched {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote patched binary to %s (digest %016x)\n", result.OutputPath, result.Digest)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "copied binary unmodified to %s (digest %016x)\n", result.OutputPath, result.Digest)
	}
	return nil
}

// patchBuffer produces the section buffer to patch in: a pre-generated data
// file when --data is set, a freshly assembled one otherwise.
func patchBuffer(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	dataPath, _ := cmd.Flags().GetString("data")
	if dataPath != "" {
		buf, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read section data file: %v", ErrRuntime, err)
		}
		if len(buf) != cfg.BufferSize {
			return nil, fmt.Errorf("%w: section data file %s is %d bytes, expected %d",
				ErrUsage, dataPath, len(buf), cfg.BufferSize)
		}
		return buf, nil
	}

	req, err := buildRequest(cmd)
	if err != nil {
		return nil, err
	}
	stamper, err := newStamper(cfg, logger)
	if err != nil {
		return nil, err
	}
	assignment, err := stamper.Assemble(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	buf, err := stamper.EncodeBuffer(assignment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	return buf, nil
}
