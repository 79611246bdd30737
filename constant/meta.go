// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, socket names and CLI branding.
	App = "mpvipc"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// MinPlayerVersion is the oldest mpv release whose JSON IPC supports request_id correlation and keybind.
	MinPlayerVersion = "0.33.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
