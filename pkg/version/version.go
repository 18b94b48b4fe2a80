// Package version carries the interpreter's version metadata, overridable
// at link time via -ldflags.
package version

var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)
