// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// IPC Transport - these keys govern how the client reaches and talks to a running player.
const (
	IPCSocket      = "ipc.socket"
	IPCTimeout     = "ipc.timeout"
	IPCDialTimeout = "ipc.dial_timeout"
)

// Player Supervision - these keys configure the player process launched by the client.
const (
	PlayerExecutable     = "player.executable"
	PlayerArgs           = "player.args"
	PlayerStartupTimeout = "player.startup_timeout"
	PlayerLogLevel       = "player.log_level"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored = "cli.colored"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)
