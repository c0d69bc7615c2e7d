package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"contentstore/internal/preflight"
)

// Exit codes: 1 for command errors, 2 when preflight checks fail.
const (
	exitError     = 1
	exitPreflight = 2
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "contentstore:", err)
	}
	if errors.Is(err, preflight.ErrFailed) {
		return exitPreflight
	}
	return exitError
}
