// Package container implements the XTC multi-page container format.
//
// An XTC file packages pre-encoded XTH or XTG frames behind a fixed header,
// an optional metadata block, optional chapter records, and a per-page index
// table. The container stores frames as opaque byte blobs and never
// re-encodes pixel data, but it does verify that every frame carries a known
// magic and that all frames in one file share a single format and geometry.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/epdkit/go-xtctool/frame"
)

// Magic is the ASCII bytes "XTC\0" read as little-endian u32.
const Magic uint32 = 0x00435458

// Version is the only container version this codec reads or writes.
const Version uint16 = 0x0100

// Fixed block sizes in bytes.
const (
	HeaderSize     = 48
	MetadataSize   = 256
	ChapterSize    = 96
	IndexEntrySize = 16
)

// Fixed-width string field sizes inside metadata and chapter blocks.
const (
	titleFieldSize     = 128
	authorFieldSize    = 64
	publisherFieldSize = 32
	languageFieldSize  = 16
	chapterNameSize    = 80
)

// NoCoverPage is the cover-page sentinel meaning "no cover".
const NoCoverPage uint16 = 0xFFFF

// Sentinel errors for container encoding and decoding.
var (
	ErrInvalidMagic       = errors.New("invalid container magic")
	ErrUnsupportedVersion = errors.New("unsupported container version")
	ErrTruncated          = errors.New("container data truncated")
	ErrNoFrames           = errors.New("container needs at least one frame")
	ErrTooManyPages       = errors.New("page count exceeds format limit")
	ErrMixedFormats       = errors.New("container frames must share one format")
	ErrDimensionMismatch  = errors.New("frame dimensions do not match container")
	ErrNoSources          = errors.New("concatenation needs at least one source")
)

// Direction is the declared reading direction.
type Direction uint8

const (
	LeftToRight Direction = 0
	RightToLeft Direction = 1
	TopToBottom Direction = 2
)

// String returns the short direction name used in configuration files.
func (d Direction) String() string {
	switch d {
	case RightToLeft:
		return "rtl"
	case TopToBottom:
		return "ttb"
	default:
		return "ltr"
	}
}

// Metadata is the optional 256-byte metadata block. String fields are stored
// null-terminated UTF-8 and silently truncated to their field size.
type Metadata struct {
	Title      string
	Author     string
	Publisher  string
	Language   string
	CreateTime uint32
	CoverPage  uint16 // NoCoverPage means no cover
	// ChapterCount mirrors the number of chapter records; it is set on
	// write and populated on read.
	ChapterCount uint16
}

// Chapter is a named, contiguous page range. Pages are 0-based inclusive.
type Chapter struct {
	Name      string
	StartPage uint16
	EndPage   uint16
}

// Document is a parsed container.
type Document struct {
	PageCount   int
	Direction   Direction
	CurrentPage uint32
	// Width and Height come from the first index entry.
	Width    uint16
	Height   uint16
	Metadata *Metadata
	Chapters []Chapter
	Frames   [][]byte
}

// Format detects the frame format of the document from the first frame's
// own magic number.
func (d *Document) Format() (frame.Format, error) {
	if len(d.Frames) == 0 {
		return frame.FormatUnknown, ErrNoFrames
	}
	return frame.Sniff(d.Frames[0])
}

// WriteOptions configures a container write.
type WriteOptions struct {
	// Width and Height are the declared page dimensions. Zero means derive
	// them from the first frame's header.
	Width     uint16
	Height    uint16
	Direction Direction
	// Metadata is optional; the metadata block is written whenever title or
	// author is non-empty or chapters are present, because the chapter
	// count lives inside the metadata block.
	Metadata *Metadata
	Chapters []Chapter
}

// Encode serializes pre-encoded frames into a container image. Every frame
// must already be a complete, self-describing XTH or XTG blob; mixing the
// two formats in one call is a construction error.
func Encode(frames [][]byte, opts WriteOptions) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if len(frames) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d pages", ErrTooManyPages, len(frames))
	}

	format, err := frame.Sniff(frames[0])
	if err != nil {
		return nil, err
	}
	width, height := opts.Width, opts.Height
	for i, f := range frames {
		h, err := frame.ParseHeader(f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if h.Format() != format {
			return nil, fmt.Errorf("%w: frame %d is %s, frame 0 is %s",
				ErrMixedFormats, i, h.Format(), format)
		}
		if width == 0 && height == 0 {
			width, height = h.Width, h.Height
		}
		if h.Width != width || h.Height != height {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, container is %dx%d",
				ErrDimensionMismatch, i, h.Width, h.Height, width, height)
		}
	}

	meta := opts.Metadata
	hasChapters := len(opts.Chapters) > 0
	hasMetadata := hasChapters || (meta != nil && (meta.Title != "" || meta.Author != ""))

	offset := uint64(HeaderSize)
	metadataOffset := uint64(0)
	if hasMetadata {
		metadataOffset = offset
		offset += MetadataSize
	}
	if hasChapters {
		offset += uint64(ChapterSize * len(opts.Chapters))
	}
	indexOffset := offset
	dataOffset := indexOffset + uint64(IndexEntrySize*len(frames))

	total := dataOffset
	for _, f := range frames {
		total += uint64(len(f))
	}
	data := make([]byte, total)

	// Fixed header.
	binary.LittleEndian.PutUint32(data[0:4], Magic)
	binary.LittleEndian.PutUint16(data[4:6], Version)
	binary.LittleEndian.PutUint16(data[6:8], uint16(len(frames)))
	data[8] = byte(opts.Direction)
	data[9] = flagByte(hasMetadata)
	data[10] = 0 // thumbnails unsupported
	data[11] = flagByte(hasChapters)
	binary.LittleEndian.PutUint32(data[12:16], 0) // current page, fresh write
	binary.LittleEndian.PutUint64(data[16:24], metadataOffset)
	binary.LittleEndian.PutUint64(data[24:32], indexOffset)
	binary.LittleEndian.PutUint64(data[32:40], dataOffset)
	binary.LittleEndian.PutUint64(data[40:48], 0) // thumbnail offset

	if hasMetadata {
		block := data[metadataOffset : metadataOffset+MetadataSize]
		var m Metadata
		if meta != nil {
			m = *meta
		} else {
			m.CoverPage = NoCoverPage
		}
		putFixedString(block[0:titleFieldSize], m.Title)
		putFixedString(block[128:128+authorFieldSize], m.Author)
		putFixedString(block[192:192+publisherFieldSize], m.Publisher)
		putFixedString(block[224:224+languageFieldSize], m.Language)
		binary.LittleEndian.PutUint32(block[240:244], m.CreateTime)
		binary.LittleEndian.PutUint16(block[244:246], m.CoverPage)
		binary.LittleEndian.PutUint16(block[246:248], uint16(len(opts.Chapters)))
		// 8 reserved bytes stay zero.
	}

	if hasChapters {
		chapterOffset := metadataOffset + MetadataSize
		for i, ch := range opts.Chapters {
			rec := data[chapterOffset+uint64(i*ChapterSize):]
			putFixedString(rec[0:chapterNameSize], ch.Name)
			binary.LittleEndian.PutUint16(rec[80:82], ch.StartPage)
			binary.LittleEndian.PutUint16(rec[82:84], ch.EndPage)
			// 12 reserved bytes stay zero.
		}
	}

	pageOffset := dataOffset
	for i, f := range frames {
		entry := data[indexOffset+uint64(i*IndexEntrySize):]
		binary.LittleEndian.PutUint64(entry[0:8], pageOffset)
		binary.LittleEndian.PutUint32(entry[8:12], uint32(len(f)))
		binary.LittleEndian.PutUint16(entry[12:14], width)
		binary.LittleEndian.PutUint16(entry[14:16], height)
		copy(data[pageOffset:], f)
		pageOffset += uint64(len(f))
	}

	return data, nil
}

// Decode parses a container image. Frame byte ranges are returned in page
// order; dimensions come from the first index entry.
func Decode(data []byte) (*Document, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d for header", ErrTruncated, len(data), HeaderSize)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidMagic, magic)
	}
	if version := binary.LittleEndian.Uint16(data[4:6]); version != Version {
		return nil, fmt.Errorf("%w: %#x", ErrUnsupportedVersion, version)
	}

	doc := &Document{
		PageCount:   int(binary.LittleEndian.Uint16(data[6:8])),
		Direction:   Direction(data[8]),
		CurrentPage: binary.LittleEndian.Uint32(data[12:16]),
	}
	hasMetadata := data[9] != 0
	hasChapters := data[11] != 0
	metadataOffset := binary.LittleEndian.Uint64(data[16:24])
	indexOffset := binary.LittleEndian.Uint64(data[24:32])

	if hasMetadata && metadataOffset > 0 {
		if !blockInBounds(metadataOffset, MetadataSize, uint64(len(data))) {
			return nil, fmt.Errorf("%w: metadata block", ErrTruncated)
		}
		block := data[metadataOffset : metadataOffset+MetadataSize]
		doc.Metadata = &Metadata{
			Title:        fixedString(block[0:titleFieldSize]),
			Author:       fixedString(block[128 : 128+authorFieldSize]),
			Publisher:    fixedString(block[192 : 192+publisherFieldSize]),
			Language:     fixedString(block[224 : 224+languageFieldSize]),
			CreateTime:   binary.LittleEndian.Uint32(block[240:244]),
			CoverPage:    binary.LittleEndian.Uint16(block[244:246]),
			ChapterCount: binary.LittleEndian.Uint16(block[246:248]),
		}
	}

	if hasChapters {
		chapterOffset := uint64(HeaderSize)
		if hasMetadata {
			chapterOffset = metadataOffset + MetadataSize
		}
		count := uint64(0)
		if doc.Metadata != nil {
			count = uint64(doc.Metadata.ChapterCount)
		} else if indexOffset > chapterOffset {
			// No metadata block to carry the count; derive it from the
			// space between the chapter records and the index table.
			count = (indexOffset - chapterOffset) / ChapterSize
		}
		if !blockInBounds(chapterOffset, count*ChapterSize, uint64(len(data))) {
			return nil, fmt.Errorf("%w: chapter records", ErrTruncated)
		}
		for i := uint64(0); i < count; i++ {
			rec := data[chapterOffset+i*ChapterSize:]
			doc.Chapters = append(doc.Chapters, Chapter{
				Name:      fixedString(rec[0:chapterNameSize]),
				StartPage: binary.LittleEndian.Uint16(rec[80:82]),
				EndPage:   binary.LittleEndian.Uint16(rec[82:84]),
			})
		}
	}

	if !blockInBounds(indexOffset, uint64(doc.PageCount)*IndexEntrySize, uint64(len(data))) {
		return nil, fmt.Errorf("%w: index table", ErrTruncated)
	}
	for i := 0; i < doc.PageCount; i++ {
		entry := data[indexOffset+uint64(i*IndexEntrySize):]
		pageOffset := binary.LittleEndian.Uint64(entry[0:8])
		pageSize := binary.LittleEndian.Uint32(entry[8:12])
		if i == 0 {
			doc.Width = binary.LittleEndian.Uint16(entry[12:14])
			doc.Height = binary.LittleEndian.Uint16(entry[14:16])
		}
		if !blockInBounds(pageOffset, uint64(pageSize), uint64(len(data))) {
			return nil, fmt.Errorf("%w: page %d data", ErrTruncated, i)
		}
		doc.Frames = append(doc.Frames, data[pageOffset:pageOffset+uint64(pageSize)])
	}

	return doc, nil
}

// OffsetChapters returns a copy of chapters with every page range shifted
// by offset pages. Used when concatenating containers: page counts, not
// byte offsets, compose additively.
func OffsetChapters(chapters []Chapter, offset int) []Chapter {
	if len(chapters) == 0 {
		return nil
	}
	shifted := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		shifted[i] = Chapter{
			Name:      ch.Name,
			StartPage: ch.StartPage + uint16(offset),
			EndPage:   ch.EndPage + uint16(offset),
		}
	}
	return shifted
}

// ConcatDocuments merges parsed containers into one encode call. Frames keep
// source order; every source's chapters are re-offset by the cumulative page
// count of the documents placed before it. Geometry, direction, and metadata
// come from the first document.
func ConcatDocuments(docs []*Document) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ErrNoSources
	}

	var frames [][]byte
	var chapters []Chapter
	pageOffset := 0
	for _, doc := range docs {
		frames = append(frames, doc.Frames...)
		chapters = append(chapters, OffsetChapters(doc.Chapters, pageOffset)...)
		pageOffset += len(doc.Frames)
	}

	first := docs[0]
	return Encode(frames, WriteOptions{
		Width:     first.Width,
		Height:    first.Height,
		Direction: first.Direction,
		Metadata:  first.Metadata,
		Chapters:  chapters,
	})
}

// putFixedString writes s into a fixed-width field, null-terminated and
// silently truncated to size-1 bytes without splitting a UTF-8 sequence.
func putFixedString(field []byte, s string) {
	max := len(field) - 1
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
		for len(b) > 0 && !utf8.Valid(b) {
			b = b[:len(b)-1]
		}
	}
	copy(field, b)
	for i := len(b); i < len(field); i++ {
		field[i] = 0
	}
}

// fixedString reads a null-terminated UTF-8 field, dropping undecodable bytes.
func fixedString(field []byte) string {
	if i := strings.IndexByte(string(field), 0); i >= 0 {
		field = field[:i]
	}
	return strings.ToValidUTF8(string(field), "")
}

// blockInBounds reports whether the half-open range [off, off+size) fits in
// n bytes. A plain off+size > n comparison wraps when a hostile offset sits
// near the uint64 maximum, so the range is checked without the addition.
func blockInBounds(off, size, n uint64) bool {
	return off <= n && size <= n-off
}

func flagByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
