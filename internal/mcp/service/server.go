package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/rollbot/internal/mcp/domain"
	"github.com/louisbranch/rollbot/internal/roll/format"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "rollbot"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// Locale selects the language of tool error text and summaries.
	Locale string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.RollDiceInput, domain.RollDiceResult](),
	newMCPToolRegistrar[domain.RollHistoryInput, domain.RollHistoryResult](),
	newMCPToolRegistrar[domain.RollGetInput, domain.RollRecordResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, tool.Name)
}

// New creates an MCP server exposing the roll tools backed by svc.
func New(svc domain.RollService, cfg Config) (*Server, error) {
	if svc == nil {
		return nil, errors.New("roll service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	formatter := format.New(cfg.Locale)
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.RollDiceTool(), handler: domain.RollDiceHandler(svc, formatter)},
		{tool: domain.RollHistoryTool(), handler: domain.RollHistoryHandler(svc, formatter)},
		{tool: domain.RollGetTool(), handler: domain.RollGetHandler(svc, formatter)},
	}
	for _, registration := range registrations {
		if err := addMCPTool(mcpServer, registration.tool, registration.handler); err != nil {
			return nil, err
		}
	}
	return &Server{mcpServer: mcpServer}, nil
}

// Run serves MCP over the configured transport and blocks until the
// transport closes or ctx ends.
func Run(ctx context.Context, svc domain.RollService, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	server, err := New(svc, cfg)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.Serve(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is a clean shutdown.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
