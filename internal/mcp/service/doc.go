// Package service wires the MCP protocol transport to the roll tools.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio and delegates the meaning of each tool to the domain handlers.
package service
