package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	labcmd "github.com/sanjayfuloria/simulation-game/internal/cmd/lab"
	platformcmd "github.com/sanjayfuloria/simulation-game/internal/platform/cmd"
	"github.com/sanjayfuloria/simulation-game/internal/platform/config"
)

func main() {
	cfg, err := labcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[LAB] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLab, func(ctx context.Context) error {
		return labcmd.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
