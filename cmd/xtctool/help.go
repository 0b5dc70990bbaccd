package main

import (
	"fmt"
	"io"
)

const usage = `xtctool converts documents into e-paper frame and container formats.

Usage:
  xtctool convert [flags] <input>...   convert documents to frames
  xtctool concat  [flags] <in.xtc>...  merge containers, re-offsetting chapters
  xtctool info    <file.xtc>           print container metadata and chapters
  xtctool version                      print the version
  xtctool help                         print this help

Inputs accept page specs: book.pdf:1-4,7,12-

Supported inputs:  .pdf .typ .md .markdown .png .jpg .jpeg .gif .xth .xtg .xtc
Supported outputs: .xtc .xth .xtg .png .pdf (preview)

Run 'xtctool convert --help' for conversion flags.
`

func printUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}
