package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mcq-portal/internal/domain"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		stop()
		os.Exit(1)
	}
}

// errorMessage prefers the user-facing text of domain errors.
func errorMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return domain.UserMessage(err)
	}
	return err.Error()
}
