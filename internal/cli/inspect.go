package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/verstamp/pkg/verstamp"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <binary>",
	Short: "Read a binary's embedded provenance",
	Long: `Read and decode the provenance section of a compiled binary.

A binary without the section, or with a buffer that was never patched,
reports all fields absent; neither is an error.

Examples:
  verstamp inspect ./app
  verstamp inspect --format json ./app`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "text", "Output format: text or json")
	inspectCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	binaryPath := args[0]
	info, ok, err := verstamp.ReadFile(binaryPath, cfg.SectionName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no %s section\n", binaryPath, cfg.SectionName)
		return nil
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("%w: failed to get format flag: %v", ErrUsage, err)
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info.Fields()); err != nil {
			return fmt.Errorf("%w: failed to encode provenance as JSON: %v", ErrInternal, err)
		}
	case "text":
		printField := func(label string, value string, ok bool) {
			if !ok {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", label+":", value)
		}
		sha, ok := info.GitSHA()
		printField("git sha", sha, ok)
		describe, ok := info.GitDescribe()
		printField("git describe", describe, ok)
		branch, ok := info.GitBranch()
		printField("git branch", branch, ok)
		commitTime, ok := info.GitCommitTime()
		printField("git time", commitTime, ok)
		commitDate, ok := info.GitCommitDate()
		printField("git date", commitDate, ok)
		msg, ok := info.GitCommitMessage()
		printField("git msg", msg, ok)
		buildTime, ok := info.BuildTime()
		printField("build time", buildTime, ok)
		buildDate, ok := info.BuildDate()
		printField("build date", buildDate, ok)
		custom, ok := info.Custom()
		printField("custom", custom, ok)
	default:
		return fmt.Errorf("%w: unsupported format %q, use 'text' or 'json'", ErrUsage, format)
	}

	return nil
}
