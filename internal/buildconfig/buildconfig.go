package buildconfig

import "fmt"

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Version returns the build version
func Version() string {
	return version
}

// Commit returns the git commit hash
func Commit() string {
	return commit
}

// VersionInfo returns full version information
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    version,
		"commit":     commit,
		"build_date": buildDate,
	}
}

// String is the one-line form printed by `synthesize version`.
func String() string {
	return fmt.Sprintf("litsynth %s (commit %s, built %s)", version, commit, buildDate)
}
