package main

import (
	"fmt"
	"os"
	"time"

	"github.com/epdkit/go-xtctool/container"
)

func runInfo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("info: expected one container file (see 'xtctool help')")
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	doc, err := container.Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	format, err := doc.Format()
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Format:    %s\n", format)
	fmt.Printf("Pages:     %d\n", doc.PageCount)
	fmt.Printf("Size:      %dx%d\n", doc.Width, doc.Height)
	fmt.Printf("Direction: %s\n", doc.Direction)

	if m := doc.Metadata; m != nil {
		if m.Title != "" {
			fmt.Printf("Title:     %s\n", m.Title)
		}
		if m.Author != "" {
			fmt.Printf("Author:    %s\n", m.Author)
		}
		if m.Publisher != "" {
			fmt.Printf("Publisher: %s\n", m.Publisher)
		}
		if m.Language != "" {
			fmt.Printf("Language:  %s\n", m.Language)
		}
		if m.CreateTime != 0 {
			fmt.Printf("Created:   %s\n", time.Unix(int64(m.CreateTime), 0).UTC().Format(time.RFC3339))
		}
	}

	if len(doc.Chapters) > 0 {
		fmt.Printf("Chapters:  %d\n", len(doc.Chapters))
		for _, ch := range doc.Chapters {
			fmt.Printf("  %3d-%3d  %s\n", ch.StartPage+1, ch.EndPage+1, ch.Name)
		}
	}
	return nil
}
