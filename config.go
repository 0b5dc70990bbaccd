package xtctool

import (
	"fmt"
	"os"

	"github.com/epdkit/go-xtctool/container"
	"github.com/epdkit/go-xtctool/dither"
	"github.com/epdkit/go-xtctool/internal/yamlutil"
)

// Frame format names accepted in configuration.
const (
	FormatXTH = "xth"
	FormatXTG = "xtg"
)

// Markdown engine names.
const (
	EngineTypst    = "typst"
	EngineChromium = "chromium"
)

// Panel geometry bounds. Frame headers store dimensions as u16.
const (
	minDimension = 1
	maxDimension = 0xFFFF
)

// Config holds all settings for document conversion.
type Config struct {
	Output     OutputConfig   `yaml:"output"`
	PDF        PDFConfig      `yaml:"pdf"`
	XTH        QuantizeConfig `yaml:"xth"`
	XTG        QuantizeConfig `yaml:"xtg"`
	Typst      TypstConfig    `yaml:"typst"`
	Markdown   MarkdownConfig `yaml:"markdown"`
	ExtractTOC bool           `yaml:"extract_toc"`
}

// OutputConfig defines the target panel and container metadata.
type OutputConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Format    string `yaml:"format"`    // xth or xtg
	Direction string `yaml:"direction"` // ltr, rtl, or ttb
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	Publisher string `yaml:"publisher"`
	Language  string `yaml:"language"`
}

// PDFConfig controls PDF page rasterization.
type PDFConfig struct {
	// Resolution is the render DPI before scaling to panel size.
	Resolution int `yaml:"resolution"`
}

// QuantizeConfig controls gray-level quantization for one frame format.
type QuantizeConfig struct {
	// Thresholds override the format defaults; leave empty for evenly
	// spaced levels.
	Thresholds     []float64 `yaml:"thresholds"`
	Invert         bool      `yaml:"invert"`
	Dither         bool      `yaml:"dither"`
	DitherStrength float64   `yaml:"dither_strength"`
}

// TypstConfig shapes the typst wrapper used for markdown compilation.
type TypstConfig struct {
	Paper    string  `yaml:"paper"`
	Margin   string  `yaml:"margin"`
	FontSize float64 `yaml:"font_size"`
}

// MarkdownConfig selects the markdown rendering engine.
type MarkdownConfig struct {
	Engine string `yaml:"engine"` // typst or chromium
}

// DefaultConfig returns settings for a common 480x800 4-level panel.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			Width:     480,
			Height:    800,
			Format:    FormatXTH,
			Direction: "ltr",
			Language:  "en",
		},
		PDF: PDFConfig{Resolution: 144},
		XTH: QuantizeConfig{
			Dither:         true,
			DitherStrength: 0.8,
		},
		XTG: QuantizeConfig{
			Dither:         true,
			DitherStrength: 0.8,
		},
		Typst: TypstConfig{
			Paper:    "a5",
			Margin:   "1.2cm",
			FontSize: 11,
		},
		Markdown:   MarkdownConfig{Engine: EngineTypst},
		ExtractTOC: true,
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown fields are
// rejected so typos fail loudly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration, failing on the first problem.
func (c Config) Validate() error {
	if c.Output.Width < minDimension || c.Output.Width > maxDimension ||
		c.Output.Height < minDimension || c.Output.Height > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Output.Width, c.Output.Height)
	}
	switch c.Output.Format {
	case FormatXTH, FormatXTG:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Output.Format)
	}
	if _, err := ParseDirection(c.Output.Direction); err != nil {
		return err
	}
	if c.PDF.Resolution < 18 || c.PDF.Resolution > 1200 {
		return fmt.Errorf("%w: %d dpi", ErrInvalidResolution, c.PDF.Resolution)
	}
	switch c.Markdown.Engine {
	case EngineTypst, EngineChromium:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Markdown.Engine)
	}
	if err := validateQuantize(c.XTH, 3); err != nil {
		return fmt.Errorf("xth: %w", err)
	}
	if err := validateQuantize(c.XTG, 1); err != nil {
		return fmt.Errorf("xtg: %w", err)
	}
	return nil
}

func validateQuantize(q QuantizeConfig, wantThresholds int) error {
	if len(q.Thresholds) != 0 && len(q.Thresholds) != wantThresholds {
		return fmt.Errorf("%w: got %d, want %d", dither.ErrThresholdCount, len(q.Thresholds), wantThresholds)
	}
	if q.DitherStrength < 0 || q.DitherStrength > 1 {
		return dither.ErrStrengthRange
	}
	return nil
}

// thresholds returns the configured thresholds or the format defaults.
func (q QuantizeConfig) thresholds(defaults []float64) []float64 {
	if len(q.Thresholds) > 0 {
		return q.Thresholds
	}
	return defaults
}

// ParseDirection maps a direction name to its container constant.
func ParseDirection(s string) (container.Direction, error) {
	switch s {
	case "ltr", "":
		return container.LeftToRight, nil
	case "rtl":
		return container.RightToLeft, nil
	case "ttb":
		return container.TopToBottom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}
