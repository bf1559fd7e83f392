// Package cli provides the command-line interface for verstamp.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "verstamp",
	Short: "Embed build provenance into compiled binaries",
	Long: `Embed build provenance into compiled binaries.

Verstamp packs source-control identity, build time, and a custom string into
a fixed-size buffer and writes it into a named object-file section of an
already-compiled binary, so the binary can report its own provenance at
runtime without being rebuilt.

Use 'generate' to produce a section data file, 'patch' to rewrite a binary's
section in place, and 'inspect' to read a binary's embedded provenance back.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (settings also read from VERSTAMP_* env vars)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// newLogger builds the CLI logger. Quiet by default; --verbose lowers the
// level to debug.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// slogSink adapts a slog.Logger to the pipeline's warning port.
type slogSink struct {
	logger *slog.Logger
}

func (s *slogSink) Warnf(format string, args ...any) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}
