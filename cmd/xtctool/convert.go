package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/epdkit/go-xtctool"
	"github.com/epdkit/go-xtctool/internal/fileutil"
)

// defaultConfigName is picked up from the working directory when --config
// is not given.
const defaultConfigName = "xtctool.yaml"

func runConvert(ctx context.Context, args []string) error {
	var flags convertFlags
	fs := newConvertFlagSet(&flags)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("convert: no input files (see 'xtctool help')")
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	// Flag overrides apply on top of config file values.
	if fs.Changed("width") {
		cfg.Output.Width = flags.width
	}
	if fs.Changed("height") {
		cfg.Output.Height = flags.height
	}
	if fs.Changed("format") {
		cfg.Output.Format = flags.format
	}
	if fs.Changed("direction") {
		cfg.Output.Direction = flags.direction
	}
	if fs.Changed("title") {
		cfg.Output.Title = flags.title
	}
	if fs.Changed("author") {
		cfg.Output.Author = flags.author
	}
	if fs.Changed("resolution") {
		cfg.PDF.Resolution = flags.resolution
	}
	if fs.Changed("engine") {
		cfg.Markdown.Engine = flags.engine
	}
	if fs.Changed("invert") {
		cfg.XTH.Invert = flags.invert
		cfg.XTG.Invert = flags.invert
	}
	if fs.Changed("no-dither") {
		cfg.XTH.Dither = !flags.noDither
		cfg.XTG.Dither = !flags.noDither
	}
	if fs.Changed("no-toc") {
		cfg.ExtractTOC = !flags.noTOC
	}

	p, err := xtctool.NewPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	if flags.verbose {
		fmt.Fprintf(os.Stderr, "converting %d input(s) to %s (%dx%d %s)\n",
			len(inputs), flags.output, cfg.Output.Width, cfg.Output.Height, cfg.Output.Format)
	}

	frames, err := p.ConvertFiles(ctx, inputs)
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Fprintf(os.Stderr, "%d page(s) -> %s\n", len(frames), flags.output)
	}
	return p.WriteOutput(ctx, frames, flags.output)
}

// resolveConfig loads the config file named by --config, falling back to
// ./xtctool.yaml, then the user config dir, then built-in defaults.
func resolveConfig(flags convertFlags) (xtctool.Config, error) {
	if flags.config != "" {
		return xtctool.LoadConfig(flags.config)
	}
	if fileutil.FileExists(defaultConfigName) {
		return xtctool.LoadConfig(defaultConfigName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "xtctool", defaultConfigName)
		if fileutil.FileExists(path) {
			return xtctool.LoadConfig(path)
		}
	}
	return xtctool.DefaultConfig(), nil
}
