// Package domain maps MCP tool calls onto the roll service.
//
// Handlers decode tool input, call roll.Service and shape the outcome into
// structured tool output. Service errors become tool errors whose text is
// the localized message, so MCP clients can show it to players as is.
package domain
