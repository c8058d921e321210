// Package main provides the rollbot dice roller CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rollbotcmd "github.com/louisbranch/rollbot/internal/cmd/rollbot"
	"github.com/louisbranch/rollbot/internal/platform/config"
)

func main() {
	log.SetPrefix("[ROLLBOT] ")
	cfg, err := rollbotcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(config.ExitUsage, "Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = rollbotcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, rollbotcmd.ErrReported):
		stop()
		os.Exit(config.ExitFailure)
	default:
		config.Exitf("Error: %v", err)
	}
}
