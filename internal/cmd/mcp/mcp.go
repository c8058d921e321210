// Package mcp parses MCP command flags and serves the roll tools.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/rollbot/internal/cmd/shared"
	mcpservice "github.com/louisbranch/rollbot/internal/mcp/service"
	entrypoint "github.com/louisbranch/rollbot/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	shared.RollConfig
	Transport string `env:"ROLLBOT_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	shared.BindFlags(fs, &cfg.RollConfig)
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the roll history and serves MCP until ctx ends or the client
// disconnects.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		svc, closeStore, err := shared.OpenRollService(ctx, cfg.RollConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				log.Printf("close roll history: %v", err)
			}
		}()

		log.Printf("serving roll tools over %s", cfg.Transport)
		return mcpservice.Run(ctx, svc, mcpservice.Config{
			Transport: mcpservice.TransportKind(cfg.Transport),
			Locale:    cfg.Locale,
		})
	})
}
