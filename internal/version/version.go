package version

// Both values are stamped at build time through -ldflags. A binary built
// outside the release pipeline reports the fallbacks below.
var (
	version = "devel"
	commit  = "unknown"
)

// Version returns the notaris version: a semantic version for released
// binaries, "devel" otherwise.
func Version() string {
	return version
}

// Commit returns the git commit SHA the binaries were built from.
func Commit() string {
	return commit
}
