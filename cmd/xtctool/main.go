package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 1
	}

	// Configure GOMAXPROCS quietly; failures fall back to runtime defaults.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "convert":
		err = runConvert(ctx, args[1:])
	case "concat":
		err = runConcat(args[1:])
	case "info":
		err = runInfo(args[1:])
	case "version":
		fmt.Println("xtctool", Version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage(os.Stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "xtctool:", err)
		return 1
	}
	return 0
}
