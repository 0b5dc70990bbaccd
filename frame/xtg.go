package frame

import (
	"fmt"
	"image"

	"github.com/epdkit/go-xtctool/dither"
)

// EncodeXTG encodes a 2-level grid as an XTG frame.
//
// The payload is a single row-major plane, 8 pixels per byte with bit 7 as
// the leftmost pixel of each group, rows padded to a whole byte. The panel
// expects natural bit ordering for this mode, so no lookup remap is applied.
func EncodeXTG(g *dither.Grid) ([]byte, error) {
	if g.Levels != 2 {
		return nil, fmt.Errorf("%w: XTG needs 2 levels, grid has %d", ErrLevelMismatch, g.Levels)
	}

	w, h := g.Width, g.Height
	bytesPerRow := (w + 7) / 8
	payloadSize := bytesPerRow * h
	data := make([]byte, HeaderSize+payloadSize)
	payload := data[HeaderSize:]

	for y := 0; y < h; y++ {
		row := payload[y*bytesPerRow:]
		for x := 0; x < w; x++ {
			if g.Pix[y*w+x] != 0 {
				row[x/8] |= 1 << (7 - x%8)
			}
		}
	}

	putHeader(data, Header{
		Magic:       MagicXTG,
		Width:       uint16(w),
		Height:      uint16(h),
		PayloadSize: uint32(payloadSize),
		Checksum:    checksum(payload),
	})
	return data, nil
}

// DecodeXTG decodes an XTG frame into a grayscale image with pixel values
// drawn from {0, 255}.
func DecodeXTG(data []byte) (*image.Gray, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Format() != FormatXTG {
		return nil, fmt.Errorf("%w: %#x is not XTG", ErrInvalidMagic, h.Magic)
	}

	width, height := int(h.Width), int(h.Height)
	payload := data[HeaderSize : HeaderSize+int(h.PayloadSize)]
	bytesPerRow := (width + 7) / 8

	img := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		rowStart := y * bytesPerRow
		if rowStart >= len(payload) {
			break
		}
		row := payload[rowStart:]
		for x := 0; x < width; x++ {
			if x/8 < len(row) && row[x/8]>>(7-x%8)&1 != 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}

	return img, nil
}
