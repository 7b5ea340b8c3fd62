package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"missionctl/internal/app"
)

// version is overridden by release builds via -ldflags.
var version = "development"

func init() {
	// The native window loop is thread-affine and runs in app.Run.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, app.Options{Version: version}); err != nil {
		fmt.Fprintf(os.Stderr, "missionctl: %v\n", err)
		return 1
	}
	return 0
}
