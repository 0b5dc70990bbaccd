package main

import (
	"fmt"
	"os"

	"github.com/epdkit/go-xtctool/container"
)

func runConcat(args []string) error {
	var flags concatFlags
	fs := newConcatFlagSet(&flags)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("concat: no input containers (see 'xtctool help')")
	}

	docs := make([]*container.Document, 0, len(inputs))
	for _, path := range inputs {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, err := container.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, doc)
	}

	merged, err := container.ConcatDocuments(docs)
	if err != nil {
		return err
	}
	return os.WriteFile(flags.output, merged, 0o644)
}
