// Package cmd holds build-time variables injected via ldflags.
package cmd

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
