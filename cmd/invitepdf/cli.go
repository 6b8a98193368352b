package main

import (
	"context"
	"fmt"
	"runtime"
)

// Version is set at build time via ldflags.
var Version = "dev"

// run dispatches the CLI command and returns an exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "render":
		return runRenderCmd(ctx, args[1:], env)
	case "devices":
		return runDevicesCmd(args[1:], env)
	case "qualities":
		return runQualitiesCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "invitepdf %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}
