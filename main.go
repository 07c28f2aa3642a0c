package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aetherbridge/compat-probe/config"
	"aetherbridge/compat-probe/probe"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return probe.ExitSuccess
		}
		log.Printf("config error: %v", err)
		return probe.ExitConfigError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Testing Chat Completion against %s...\n", cfg.BaseURL)

	result := probe.Run(ctx, cfg)
	if err := probe.Report(os.Stdout, result); err != nil {
		log.Printf("failed to write report: %v", err)
	}

	return probe.ExitCode(result)
}
