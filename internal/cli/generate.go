package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a section data file",
	Long: `Generate a section data file holding the selected provenance fields.

The file's entire contents are exactly one section buffer, ready to be
written into a binary's section with 'verstamp patch --data' or any
objcopy-compatible tool:

  verstamp generate --all-git --all-build-time --output target/
  objcopy --update-section .verstamp_data=target/verstamp_data app app.stamped

Examples:
  verstamp generate --all-git --output verstamp_data
  verstamp generate --git-sha --git-branch --custom "nightly" --output dist/`,
	RunE: runGenerate,
}

func init() {
	addSelectionFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", "verstamp_data", "Output file (a directory target gets verstamp_data appended)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	stamper, err := newStamper(cfg, logger)
	if err != nil {
		return err
	}

	assignment, err := stamper.Assemble(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	buf, err := stamper.EncodeBuffer(assignment)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	output, _ := cmd.Flags().GetString("output")
	written, err := stamper.WriteBuffer(buf, output)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d byte section data file to %s\n", len(buf), written)
	return nil
}
