// Package main is the entry point for the lode dependency manager.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/lode/cmd/lode/commands"
	"go.trai.ch/lode/internal/app"
	"go.trai.ch/lode/internal/core/domain"
	_ "go.trai.ch/lode/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, _, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(application)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrUnsatisfiable) || errors.Is(err, domain.ErrStaleLock) {
			// These errors already rendered their explanation.
			_, _ = os.Stderr.WriteString(err.Error() + "\n")
			return 1
		}
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
