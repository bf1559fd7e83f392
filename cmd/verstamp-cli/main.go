// verstamp-cli is the command-line interface for the verstamp provenance
// stamping tool.
//
// It embeds build-time facts (git identity, build time, a custom string)
// into the section buffer of an already-compiled binary, and reads them
// back out:
//
//	verstamp-cli generate --all-git --output target/
//	verstamp-cli patch --all-git --all-build-time --binary app --out app.stamped
//	verstamp-cli inspect app.stamped
//
// For more information, see the verstamp documentation.
package main

import (
	"fmt"
	"os"

	"github.com/sufield/verstamp/internal/cli"
)

// main executes the root command and handles any errors that occur.
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
