package main

import (
	flag "github.com/spf13/pflag"
)

// convertFlags holds flags for the convert command.
type convertFlags struct {
	config  string
	output  string
	quiet   bool
	verbose bool

	width      int
	height     int
	format     string
	direction  string
	title      string
	author     string
	resolution int
	engine     string
	invert     bool
	noDither   bool
	noTOC      bool
}

// newConvertFlagSet declares the convert command's flags.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVarP(&f.output, "output", "o", "out.xtc", "output file (.xtc, .xth, .xtg, .png, .pdf)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress progress output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose progress output")

	fs.IntVar(&f.width, "width", 0, "panel width in pixels")
	fs.IntVar(&f.height, "height", 0, "panel height in pixels")
	fs.StringVar(&f.format, "format", "", "frame format: xth or xtg")
	fs.StringVar(&f.direction, "direction", "", "reading direction: ltr, rtl, or ttb")
	fs.StringVar(&f.title, "title", "", "container title")
	fs.StringVar(&f.author, "author", "", "container author")
	fs.IntVar(&f.resolution, "resolution", 0, "PDF render resolution in dpi")
	fs.StringVar(&f.engine, "engine", "", "markdown engine: typst or chromium")
	fs.BoolVar(&f.invert, "invert", false, "invert gray polarity")
	fs.BoolVar(&f.noDither, "no-dither", false, "disable error diffusion")
	fs.BoolVar(&f.noTOC, "no-toc", false, "skip document outline extraction")

	return fs
}

// concatFlags holds flags for the concat command.
type concatFlags struct {
	output string
}

func newConcatFlagSet(f *concatFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("concat", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "out.xtc", "output container")
	return fs
}
