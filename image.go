package xtctool

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/epdkit/go-xtctool/dither"
	"github.com/epdkit/go-xtctool/frame"
)

// grayFit scales src to fit inside w x h, centered on a white canvas so the
// aspect ratio survives. CatmullRom resampling keeps text edges readable at
// e-paper resolutions.
func grayFit(src image.Image, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}

	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return dst
	}

	tw, th := w, sh*w/sw
	if th > h {
		tw, th = sw*h/sh, h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	x0 := (w - tw) / 2
	y0 := (h - th) / 2
	target := image.Rect(x0, y0, x0+tw, y0+th)
	xdraw.CatmullRom.Scale(dst, target, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// invertGray flips the polarity of every pixel in place.
func invertGray(g *image.Gray) {
	for i, v := range g.Pix {
		g.Pix[i] = 255 - v
	}
}

// encodeFrame fits img to the configured panel, quantizes it per the active
// format settings, and encodes the result into a frame asset.
func (p *Pipeline) encodeFrame(img image.Image, meta Meta) (*FrameAsset, error) {
	g := grayFit(img, p.cfg.Output.Width, p.cfg.Output.Height)

	var q QuantizeConfig
	var thresholds []float64
	switch p.cfg.Output.Format {
	case FormatXTH:
		q = p.cfg.XTH
		thresholds = q.thresholds(dither.Thresholds4)
	case FormatXTG:
		q = p.cfg.XTG
		thresholds = q.thresholds(dither.Thresholds2)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, p.cfg.Output.Format)
	}

	if q.Invert {
		invertGray(g)
	}

	var grid *dither.Grid
	var err error
	if q.Dither {
		grid, err = dither.Quantize(g, thresholds, q.DitherStrength)
	} else {
		grid, err = dither.Threshold(g, thresholds)
	}
	if err != nil {
		return nil, err
	}

	var data []byte
	if p.cfg.Output.Format == FormatXTH {
		data, err = frame.EncodeXTH(grid)
	} else {
		data, err = frame.EncodeXTG(grid)
	}
	if err != nil {
		return nil, err
	}

	return &FrameAsset{data: data, meta: meta}, nil
}
