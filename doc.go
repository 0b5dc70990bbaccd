// Package xtctool converts paginated documents into e-paper frame formats.
//
// Inputs (PDF, typst, markdown, raster images, and existing frame or
// container files) are modeled as assets in a conversion graph. Each asset
// reduces itself one step at a time until only encoded frames remain:
//
//	md  -> typst/html -> pdf -> rendered pages -> quantized frames
//	xtc -> extracted frames
//
// Frames carry 2-level (XTG) or 4-level (XTH) pixel data in the panel's
// native bit layout, and many frames pack into an XTC container with
// metadata and chapters.
//
// Basic usage:
//
//	p, err := xtctool.NewPipeline(xtctool.DefaultConfig())
//	if err != nil { ... }
//	defer p.Close()
//
//	frames, err := p.ConvertFiles(ctx, []string{"book.pdf:1-40"})
//	if err != nil { ... }
//	err = p.WriteOutput(ctx, frames, "book.xtc")
//
// External tools are required for some inputs: mutool for PDF pages, typst
// for .typ and markdown sources, and a Chromium binary (fetched by go-rod on
// demand) for the chromium markdown engine and PDF previews.
package xtctool
