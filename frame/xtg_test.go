package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeXTGLevelMismatch(t *testing.T) {
	t.Parallel()

	_, err := EncodeXTG(grid4(t, 1, 1, []uint8{0}))
	assert.ErrorIs(t, err, ErrLevelMismatch)
}

func TestEncodeXTGPayloadSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w, h int
	}{
		{"byte aligned", 16, 4},
		{"padded row", 9, 3},
		{"single pixel", 1, 1},
		{"tall narrow", 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := EncodeXTG(grid2(t, tt.w, tt.h, make([]uint8, tt.w*tt.h)))
			require.NoError(t, err)

			want := ((tt.w + 7) / 8) * tt.h
			assert.Len(t, data, HeaderSize+want)
		})
	}
}

func TestEncodeXTGBitOrder(t *testing.T) {
	t.Parallel()

	// Bit 7 is the leftmost pixel of each group of 8, rows padded to a
	// whole byte.
	data, err := EncodeXTG(grid2(t, 10, 1, []uint8{1, 0, 0, 0, 0, 0, 0, 1, 0, 1}))
	require.NoError(t, err)

	payload := data[HeaderSize:]
	require.Len(t, payload, 2)
	assert.Equal(t, byte(0x81), payload[0])
	assert.Equal(t, byte(0x40), payload[1])
}

func TestXTGRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w, h int
	}{
		{"byte aligned", 8, 6},
		{"padded row", 13, 7},
		{"single row", 30, 1},
		{"single column", 1, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pix := make([]uint8, tt.w*tt.h)
			for i := range pix {
				pix[i] = uint8((i / 3) % 2)
			}

			data, err := EncodeXTG(grid2(t, tt.w, tt.h, pix))
			require.NoError(t, err)

			img, err := DecodeXTG(data)
			require.NoError(t, err)

			bounds := img.Bounds()
			require.Equal(t, tt.w, bounds.Dx())
			require.Equal(t, tt.h, bounds.Dy())

			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					want := pix[y*tt.w+x] * 255
					got := img.Pix[y*img.Stride+x]
					require.Equal(t, want, got, "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}
