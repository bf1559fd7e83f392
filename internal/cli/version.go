package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sufield/verstamp/internal/buildinfo"
	"github.com/sufield/verstamp/pkg/verstamp"
)

// VersionInfo contains the tool's own version and build information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	GOOS      string `json:"os"`
	GOARCH    string `json:"arch"`
}

// GetVersionInfo returns the tool's build information. A verstamp binary
// stamped with its own section buffer reports from that; otherwise the
// ldflags-injected values are used.
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   buildinfo.Version,
		Commit:    buildinfo.Commit,
		BuildTime: buildinfo.BuildTime,
		GoVersion: runtime.Version(),
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
	}

	if stamped, ok, err := verstamp.FromExecutable(); err == nil && ok {
		if describe, ok := stamped.GitDescribe(); ok {
			info.Version = describe
		}
		if sha, ok := stamped.GitSHA(); ok {
			info.Commit = sha
		}
		if buildTime, ok := stamped.BuildTime(); ok {
			info.BuildTime = buildTime
		}
	}

	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display version and build information for the verstamp tool itself.",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("%w: failed to get format flag: %v", ErrUsage, err)
	}

	info := GetVersionInfo()

	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			return fmt.Errorf("%w: failed to encode version info as JSON: %v", ErrInternal, err)
		}
	case "text":
		fmt.Printf("Version: %s\n", info.Version)
		fmt.Printf("Commit: %s\n", info.Commit)
		fmt.Printf("Build Time: %s\n", info.BuildTime)
		fmt.Printf("Go Version: %s\n", info.GoVersion)
		fmt.Printf("OS/Arch: %s/%s\n", info.GOOS, info.GOARCH)
	default:
		return fmt.Errorf("%w: unsupported format %q, use 'text' or 'json'", ErrUsage, format)
	}

	return nil
}

func init() {
	versionCmd.Flags().String("format", "text", "Output format: text or json")
	rootCmd.AddCommand(versionCmd)
}
