// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ToolCall caps a single MCP tool call, including the history write.
const ToolCall = 5 * time.Second

// SQLiteBusy is how long a history write waits on a locked database.
const SQLiteBusy = 5 * time.Second

// Shutdown limits how long a command waits for telemetry to flush.
const Shutdown = 5 * time.Second
