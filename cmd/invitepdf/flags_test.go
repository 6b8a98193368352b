package main

import (
	"testing"
)

func TestParseRenderFlags_Defaults(t *testing.T) {
	t.Parallel()

	flags, args, err := parseRenderFlags([]string{"https://evitely.com/inv/ana-pedro"})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}

	if len(args) != 1 || args[0] != "https://evitely.com/inv/ana-pedro" {
		t.Errorf("positional args = %v, want the URL", args)
	}
	if flags.selection.device != "" || flags.selection.quality != "" {
		t.Errorf("selection = %+v, want empty", flags.selection)
	}
	if flags.workers != 0 {
		t.Errorf("workers = %d, want 0", flags.workers)
	}
	if flags.output != "" {
		t.Errorf("output = %q, want empty", flags.output)
	}
}

func TestParseRenderFlags_AllGroups(t *testing.T) {
	t.Parallel()

	flags, args, err := parseRenderFlags([]string{
		"-d", "tablet",
		"-Q", "high",
		"-o", "out.pdf",
		"-w", "4",
		"-t", "45s",
		"-c", "invitepdf",
		"-v",
		"--data", `{"brideName":"Ana"}`,
		"--data-file", "data.json",
		"--format", "a4",
		"--width", "390",
		"--height", "2000",
		"--margin", "24",
		"--browser-bin", "/usr/bin/chromium",
		"--allow-host", "evitely.com",
		"--allow-host", "staging.evitely.com",
		"--hide-section", "countdown",
		"--hide-section", "rsvp",
		"https://evitely.com/inv/ana-pedro",
	})
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}

	if len(args) != 1 {
		t.Fatalf("positional args = %v, want 1 URL", args)
	}
	if flags.selection.device != "tablet" {
		t.Errorf("device = %q, want %q", flags.selection.device, "tablet")
	}
	if flags.selection.quality != "high" {
		t.Errorf("quality = %q, want %q", flags.selection.quality, "high")
	}
	if flags.output != "out.pdf" {
		t.Errorf("output = %q, want %q", flags.output, "out.pdf")
	}
	if flags.workers != 4 {
		t.Errorf("workers = %d, want 4", flags.workers)
	}
	if flags.timeout != "45s" {
		t.Errorf("timeout = %q, want %q", flags.timeout, "45s")
	}
	if flags.common.config != "invitepdf" || !flags.common.verbose || flags.common.quiet {
		t.Errorf("common = %+v", flags.common)
	}
	if flags.data.inline != `{"brideName":"Ana"}` || flags.data.file != "data.json" {
		t.Errorf("data = %+v", flags.data)
	}
	if flags.geometry.format != "a4" || flags.geometry.width != 390 ||
		flags.geometry.height != 2000 || flags.geometry.margin != 24 {
		t.Errorf("geometry = %+v", flags.geometry)
	}
	if flags.browser.bin != "/usr/bin/chromium" {
		t.Errorf("browser.bin = %q", flags.browser.bin)
	}
	if len(flags.browser.allowedHosts) != 2 {
		t.Errorf("allowedHosts = %v, want 2 entries", flags.browser.allowedHosts)
	}
	if len(flags.hideSections) != 2 {
		t.Errorf("hideSections = %v, want 2 entries", flags.hideSections)
	}
}

func TestParseRenderFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	_, _, err := parseRenderFlags([]string{"--frobnicate"})
	if err == nil {
		t.Error("parseRenderFlags() error = nil, want parse error")
	}
}
