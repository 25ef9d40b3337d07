// Package version exposes the build stamp of the pyinit binary. It imports
// nothing from the module so every package may depend on it.
package version

import "fmt"

var (
	// Overridden with -ldflags "-X" at release time.
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild reports whether the binary was built without release ldflags.
func IsDevBuild() bool {
	return Version == "dev"
}

// String returns the one-line version banner printed by --version.
func String() string {
	if IsDevBuild() {
		return "pyinit dev (unreleased build)"
	}
	return fmt.Sprintf("pyinit %s (commit %s, built %s)", Version, Commit, BuildDate)
}
