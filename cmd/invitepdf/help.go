package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invitepdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render       Capture invitation pages as PDF")
	fmt.Fprintln(w, "  devices      List available device profiles")
	fmt.Fprintln(w, "  qualities    List available quality presets")
	fmt.Fprintln(w, "  doctor       Diagnose browser and environment setup")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'invitepdf help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invitepdf render <url> [url...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture live invitation pages as pixel-accurate PDFs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  url    One or more http(s) URLs of invitation pages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single URL) or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-render timeout, overrides the preset (e.g., 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Selection:")
	fmt.Fprintln(w, "  -d, --device <key>        Device profile (default: invitation_mobile)")
	fmt.Fprintln(w, "  -Q, --quality <key>       Quality preset (default: standard)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Custom Data:")
	fmt.Fprintln(w, "      --data <json>         Inject custom data as a JSON object")
	fmt.Fprintln(w, "      --data-file <path>    Inject custom data from a JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Geometry:")
	fmt.Fprintln(w, "      --format <s>          Paper format: a4, letter, legal")
	fmt.Fprintln(w, "      --width <px>          Page width in CSS pixels")
	fmt.Fprintln(w, "      --height <px>         Page height in CSS pixels (0 = measure)")
	fmt.Fprintln(w, "      --margin <px>         Uniform page margin in CSS pixels")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary (or INVITEPDF_BROWSER_BIN)")
	fmt.Fprintln(w, "      --allow-host <host>   Restrict URLs to this host (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page Content:")
	fmt.Fprintln(w, "      --hide-section <id>   Section identifier to hide (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed progress")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "devices":
		fmt.Fprintln(env.Stdout, "Usage: invitepdf devices [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List available device profiles.")
	case "qualities":
		fmt.Fprintln(env.Stdout, "Usage: invitepdf qualities [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List available quality presets.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: invitepdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Diagnose browser and environment setup.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: invitepdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: invitepdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
