package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// selectionFlags holds device/quality selection flags.
type selectionFlags struct {
	device  string
	quality string
}

// dataFlags holds custom-data injection flags.
type dataFlags struct {
	inline string // JSON object on the command line
	file   string // Path to a JSON file
}

// geometryFlags holds output geometry overrides.
// Values are CSS pixels; zero means "keep the device profile's value".
type geometryFlags struct {
	format string
	width  float64
	height float64
	margin float64
}

// browserFlags holds browser driver flags.
type browserFlags struct {
	bin          string
	allowedHosts []string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common       commonFlags
	output       string
	workers      int
	timeout      string
	selection    selectionFlags
	data         dataFlags
	geometry     geometryFlags
	browser      browserFlags
	hideSections []string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addSelectionFlags adds device/quality selection flags to a FlagSet.
func addSelectionFlags(fs *flag.FlagSet, f *selectionFlags) {
	fs.StringVarP(&f.device, "device", "d", "", "device profile key or alias")
	fs.StringVarP(&f.quality, "quality", "Q", "", "quality preset key or alias")
}

// addDataFlags adds custom-data flags to a FlagSet.
func addDataFlags(fs *flag.FlagSet, f *dataFlags) {
	fs.StringVar(&f.inline, "data", "", "custom data as a JSON object")
	fs.StringVar(&f.file, "data-file", "", "custom data from a JSON file")
}

// addGeometryFlags adds output geometry flags to a FlagSet.
func addGeometryFlags(fs *flag.FlagSet, f *geometryFlags) {
	fs.StringVar(&f.format, "format", "", "paper format: a4, letter, legal")
	fs.Float64Var(&f.width, "width", 0, "page width in CSS pixels")
	fs.Float64Var(&f.height, "height", 0, "page height in CSS pixels (0 = measure)")
	fs.Float64Var(&f.margin, "margin", 0, "uniform page margin in CSS pixels")
}

// addBrowserFlags adds browser driver flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "path to a Chrome/Chromium binary")
	fs.StringArrayVar(&f.allowedHosts, "allow-host", nil, "restrict URLs to this host (repeatable)")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-render timeout (e.g., 30s, 2m)")
	fs.StringArrayVar(&f.hideSections, "hide-section", nil, "section identifier to hide (repeatable)")

	addCommonFlags(fs, &f.common)
	addSelectionFlags(fs, &f.selection)
	addDataFlags(fs, &f.data)
	addGeometryFlags(fs, &f.geometry)
	addBrowserFlags(fs, &f.browser)

	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
