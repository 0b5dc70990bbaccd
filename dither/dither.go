// Package dither reduces 8-bit grayscale images to small fixed level sets
// using Floyd-Steinberg error diffusion.
//
// The quantizer is a pure function: the source image is never mutated, and
// the output is deterministic for a fixed input, threshold set, and strength.
package dither

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors for quantizer configuration.
var (
	ErrThresholdCount = errors.New("threshold count must be 1 or 3")
	ErrStrengthRange  = errors.New("dither strength must be between 0.0 and 1.0")
)

// Default threshold sets.
var (
	// Thresholds2 is the default single threshold for 2-level output.
	Thresholds2 = []float64{128}
	// Thresholds4 is the default ascending threshold triple for 4-level output.
	Thresholds4 = []float64{85, 170, 255}
)

// Reconstruction values per level. The classification error is measured
// against these, and decoders map level indices back onto them.
var (
	values2 = [2]float64{0, 255}
	values4 = [4]float64{0, 85, 170, 255}
)

// Grid is a quantized image: row-major level indices at the source
// dimensions. Levels is 2 or 4; every Pix value is below Levels.
type Grid struct {
	Width  int
	Height int
	Levels int
	Pix    []uint8
}

// At returns the level index at (x, y). No bounds checking.
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Quantize converts src to level indices using Floyd-Steinberg error
// diffusion. One threshold produces a 2-level grid, three ascending
// thresholds produce a 4-level grid; any other count is a configuration
// error. strength scales the diffusion kernel: 0 degenerates to plain
// thresholding, 1 is full diffusion.
func Quantize(src *image.Gray, thresholds []float64, strength float64) (*Grid, error) {
	if strength < 0 || strength > 1 {
		return nil, fmt.Errorf("%w: %g", ErrStrengthRange, strength)
	}
	values, err := levelValues(thresholds)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	grid := &Grid{Width: w, Height: h, Levels: len(values), Pix: make([]uint8, w*h)}

	// Working copy so the caller's image is never mutated.
	working := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride:]
		for x := 0; x < w; x++ {
			working[y*w+x] = float64(row[x+b.Min.X-src.Rect.Min.X])
		}
	}

	wRight := 7.0 / 16.0 * strength
	wBelowLeft := 3.0 / 16.0 * strength
	wBelow := 5.0 / 16.0 * strength
	wBelowRight := 1.0 / 16.0 * strength

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			old := working[y*w+x]
			level := classify(old, thresholds)
			grid.Pix[y*w+x] = level

			errVal := old - values[level]

			// Error flows only to samples visited later in raster order;
			// neighbors past the image boundary are skipped.
			if x+1 < w {
				working[y*w+x+1] += errVal * wRight
			}
			if y+1 < h {
				if x > 0 {
					working[(y+1)*w+x-1] += errVal * wBelowLeft
				}
				working[(y+1)*w+x] += errVal * wBelow
				if x+1 < w {
					working[(y+1)*w+x+1] += errVal * wBelowRight
				}
			}
		}
	}

	return grid, nil
}

// Threshold converts src to level indices by per-sample thresholding,
// without error diffusion.
func Threshold(src *image.Gray, thresholds []float64) (*Grid, error) {
	values, err := levelValues(thresholds)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	grid := &Grid{Width: w, Height: h, Levels: len(values), Pix: make([]uint8, w*h)}

	for y := 0; y < h; y++ {
		row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride:]
		for x := 0; x < w; x++ {
			grid.Pix[y*w+x] = classify(float64(row[x+b.Min.X-src.Rect.Min.X]), thresholds)
		}
	}

	return grid, nil
}

// classify returns the smallest level whose threshold the sample is below;
// the last level catches everything at or above the top threshold.
func classify(v float64, thresholds []float64) uint8 {
	for i, t := range thresholds {
		if v < t {
			return uint8(i)
		}
	}
	return uint8(len(thresholds))
}

// levelValues maps a threshold set to its reconstruction values.
func levelValues(thresholds []float64) ([]float64, error) {
	switch len(thresholds) {
	case 1:
		return values2[:], nil
	case 3:
		return values4[:], nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrThresholdCount, len(thresholds))
	}
}
