// Package buildinfo describes the verstamp tool's own build. The variables
// are injected at compile time via ldflags; a verstamp-stamped verstamp
// binary additionally carries its own section buffer, which the version
// command prefers over these.
package buildinfo

// Injected at compile time via -ldflags "-X ...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the structured form of the tool's build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Get returns the tool's build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}
}
