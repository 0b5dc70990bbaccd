package frame

import (
	"fmt"
	"image"

	"github.com/epdkit/go-xtctool/dither"
)

// xthWire maps a level index to its wire value and back. It folds together
// the display lookup {0:0, 1:2, 2:1, 3:3} (the panel expects the grey levels
// swapped) and the polarity inversion 3-v, and happens to be its own inverse.
var xthWire = [4]uint8{3, 1, 2, 0}

// EncodeXTH encodes a 4-level grid as an XTH frame.
//
// The payload is two bit planes: plane A holds the high bit of each wire
// value, plane B the low bit. Columns are emitted right to left; within a
// column, pixels are packed into bands of 8 rows with bit 7 as the topmost
// row, zero-padded past the last row. Plane A is emitted in full before
// plane B.
func EncodeXTH(g *dither.Grid) ([]byte, error) {
	if g.Levels != 4 {
		return nil, fmt.Errorf("%w: XTH needs 4 levels, grid has %d", ErrLevelMismatch, g.Levels)
	}

	w, h := g.Width, g.Height
	bands := (h + 7) / 8
	planeSize := bands * w
	data := make([]byte, HeaderSize+2*planeSize)
	planeA := data[HeaderSize : HeaderSize+planeSize]
	planeB := data[HeaderSize+planeSize:]

	i := 0
	for x := w - 1; x >= 0; x-- {
		for y0 := 0; y0 < h; y0 += 8 {
			var a, b byte
			for bit := 0; bit < 8; bit++ {
				y := y0 + bit
				if y >= h {
					continue
				}
				v := xthWire[g.Pix[y*w+x]]
				a |= (v >> 1 & 1) << (7 - bit)
				b |= (v & 1) << (7 - bit)
			}
			planeA[i] = a
			planeB[i] = b
			i++
		}
	}

	putHeader(data, Header{
		Magic:       MagicXTH,
		Width:       uint16(w),
		Height:      uint16(h),
		PayloadSize: uint32(2 * planeSize),
		Checksum:    checksum(data[HeaderSize:]),
	})
	return data, nil
}

// DecodeXTH decodes an XTH frame into a grayscale image with pixel values
// drawn from {0, 85, 170, 255}.
func DecodeXTH(data []byte) (*image.Gray, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Format() != FormatXTH {
		return nil, fmt.Errorf("%w: %#x is not XTH", ErrInvalidMagic, h.Magic)
	}

	width, height := int(h.Width), int(h.Height)
	payload := data[HeaderSize : HeaderSize+int(h.PayloadSize)]
	planeSize := len(payload) / 2
	planeA := payload[:planeSize]
	planeB := payload[planeSize:]

	img := image.NewGray(image.Rect(0, 0, width, height))

	i := 0
	for x := width - 1; x >= 0; x-- {
		for y0 := 0; y0 < height; y0 += 8 {
			var a, b byte
			if i < planeSize {
				a = planeA[i]
				b = planeB[i]
			}
			for bit := 0; bit < 8; bit++ {
				y := y0 + bit
				if y >= height {
					continue
				}
				v := (a>>(7-bit)&1)<<1 | (b >> (7 - bit) & 1)
				img.Pix[y*img.Stride+x] = xthWire[v] * 85
			}
			i++
		}
	}

	return img, nil
}
