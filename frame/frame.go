// Package frame implements the XTH and XTG bitmap formats used by e-paper
// display firmware.
//
// Both formats share a 22-byte little-endian header followed by an
// uncompressed payload. XTH stores 4-level grayscale as two bit planes in
// column-banded order; XTG stores 1-bit monochrome row-major. Encoders take
// quantized level grids from package dither; decoders reverse a frame back
// into a grayscale image for inspection.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// Magic constants, the ASCII bytes "XTH\0" and "XTG\0" read as little-endian u32.
const (
	MagicXTH uint32 = 0x00485458
	MagicXTG uint32 = 0x00475458
)

// HeaderSize is the fixed frame header length in bytes.
const HeaderSize = 22

// Sentinel errors for frame encoding and decoding.
var (
	ErrInvalidMagic  = errors.New("invalid frame magic")
	ErrTruncated     = errors.New("frame data truncated")
	ErrLevelMismatch = errors.New("grid level count does not match frame format")
)

// Format identifies a frame encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatXTH
	FormatXTG
)

// String returns the lowercase format name, matching the file extension.
func (f Format) String() string {
	switch f {
	case FormatXTH:
		return "xth"
	case FormatXTG:
		return "xtg"
	default:
		return "unknown"
	}
}

// Magic returns the wire magic for the format, or 0 for FormatUnknown.
func (f Format) Magic() uint32 {
	switch f {
	case FormatXTH:
		return MagicXTH
	case FormatXTG:
		return MagicXTG
	default:
		return 0
	}
}

// Header is the fixed 22-byte frame header.
type Header struct {
	Magic       uint32
	Width       uint16
	Height      uint16
	ColorMode   uint8 // reserved, always 0
	Compression uint8 // reserved, always 0
	PayloadSize uint32
	Checksum    uint64 // low 64 bits of the payload byte sum
}

// Format returns the frame format the header's magic identifies.
func (h Header) Format() Format {
	switch h.Magic {
	case MagicXTH:
		return FormatXTH
	case MagicXTG:
		return FormatXTG
	default:
		return FormatUnknown
	}
}

// ParseHeader reads the fixed header from the start of data. It verifies the
// magic and that the declared payload fits in data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d for header", ErrTruncated, len(data), HeaderSize)
	}
	h := Header{
		Magic:       binary.LittleEndian.Uint32(data[0:4]),
		Width:       binary.LittleEndian.Uint16(data[4:6]),
		Height:      binary.LittleEndian.Uint16(data[6:8]),
		ColorMode:   data[8],
		Compression: data[9],
		PayloadSize: binary.LittleEndian.Uint32(data[10:14]),
		Checksum:    binary.LittleEndian.Uint64(data[14:22]),
	}
	if h.Format() == FormatUnknown {
		return Header{}, fmt.Errorf("%w: %#x", ErrInvalidMagic, h.Magic)
	}
	if uint64(len(data)) < HeaderSize+uint64(h.PayloadSize) {
		return Header{}, fmt.Errorf("%w: payload declares %d bytes, %d available",
			ErrTruncated, h.PayloadSize, len(data)-HeaderSize)
	}
	return h, nil
}

// Sniff detects the frame format from the blob's own magic number.
func Sniff(data []byte) (Format, error) {
	if len(data) < 4 {
		return FormatUnknown, fmt.Errorf("%w: %d bytes, need 4 for magic", ErrTruncated, len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	switch magic {
	case MagicXTH:
		return FormatXTH, nil
	case MagicXTG:
		return FormatXTG, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %#x", ErrInvalidMagic, magic)
	}
}

// Decode reverses any frame back into a grayscale image, dispatching on the
// blob's magic. Intended for visual inspection, not part of the device
// format contract.
func Decode(data []byte) (*image.Gray, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	if format == FormatXTH {
		return DecodeXTH(data)
	}
	return DecodeXTG(data)
}

// putHeader writes h into the first HeaderSize bytes of buf.
func putHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Width)
	binary.LittleEndian.PutUint16(buf[6:8], h.Height)
	buf[8] = h.ColorMode
	buf[9] = h.Compression
	binary.LittleEndian.PutUint32(buf[10:14], h.PayloadSize)
	binary.LittleEndian.PutUint64(buf[14:22], h.Checksum)
}

// checksum is the low 64 bits of the byte sum. A corruption detection aid,
// not a cryptographic guarantee.
func checksum(payload []byte) uint64 {
	var sum uint64
	for _, b := range payload {
		sum += uint64(b)
	}
	return sum
}
