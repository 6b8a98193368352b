package main

import (
	"encoding/json"
	"fmt"

	invitepdf "github.com/evitely/go-invitepdf"
)

// hasJSONFlag reports whether --json appears in the args.
func hasJSONFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--json" {
			return true
		}
	}
	return false
}

// runDevicesCmd lists the embedded device profiles.
func runDevicesCmd(args []string, env *Environment) int {
	registry, err := invitepdf.NewDeviceRegistry()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	summaries := registry.List()

	if hasJSONFlag(args) {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summaries)
		return ExitSuccess
	}

	fmt.Fprintln(env.Stdout, "Device profiles:")
	for _, s := range summaries {
		fmt.Fprintf(env.Stdout, "  %-20s %s (%dx%d)\n", s.Key, s.Name, s.Viewport.Width, s.Viewport.Height)
	}
	return ExitSuccess
}

// runQualitiesCmd lists the embedded quality presets.
func runQualitiesCmd(args []string, env *Environment) int {
	registry, err := invitepdf.NewQualityRegistry()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	summaries := registry.List()

	if hasJSONFlag(args) {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summaries)
		return ExitSuccess
	}

	fmt.Fprintln(env.Stdout, "Quality presets:")
	for _, s := range summaries {
		fmt.Fprintf(env.Stdout, "  %-12s fidelity %d, timeout %dms\n", s.Key, s.Fidelity, s.TimeoutMs)
	}
	return ExitSuccess
}
