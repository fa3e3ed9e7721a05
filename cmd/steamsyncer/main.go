package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"steamsyncer/internal/syncrun"
)

// exitLocked tells scripts that another instance holds the lock.
const exitLocked = 2

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, syncrun.ErrLocked) {
			os.Exit(exitLocked)
		}
		os.Exit(1)
	}
}
