// Package pix provides pixel buffer management for the asset pipeline.
//
// Buffers are non-premultiplied RGBA8 with tight rows (stride == 4*width),
// which keeps level data directly embeddable and comparable byte-for-byte.
// The package also hosts the image codecs, the box-filter downscaler, and a
// size-bucketed buffer pool for rendition batches.
package pix

import "errors"

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pix: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("pix: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside buffer bounds.
	ErrOutOfBounds = errors.New("pix: coordinates out of bounds")
)

// Buffer is a non-premultiplied RGBA8 pixel buffer with tight rows.
//
// Pixel (x, y) occupies data[4*(y*width+x) : 4*(y*width+x)+4] in R, G, B, A
// order. Rows carry no padding, so Data() is exactly 4*width*height bytes.
//
// Thread safety: Buffer is safe for concurrent read access. Write operations
// require external synchronization.
type Buffer struct {
	data   []byte
	width  int
	height int
}

// New creates a zeroed buffer with the given dimensions.
// Returns an error if either dimension is non-positive.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Buffer{
		data:   make([]byte, 4*width*height),
		width:  width,
		height: height,
	}, nil
}

// FromBytes creates a Buffer over existing RGBA data without copying.
// The caller must ensure data remains valid for the lifetime of the Buffer.
func FromBytes(data []byte, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	size := 4 * width * height
	if len(data) < size {
		return nil, ErrDataTooSmall
	}
	return &Buffer{
		data:   data[:size],
		width:  width,
		height: height,
	}, nil
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{
		data:   data,
		width:  b.width,
		height: b.height,
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Bounds returns the buffer dimensions as (width, height).
func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice. Modifying it modifies the buffer.
func (b *Buffer) Data() []byte {
	return b.data
}

// ByteSize returns the total size of the pixel data in bytes.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}

// IsEmpty returns true if the buffer has zero dimensions.
func (b *Buffer) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}

// RowBytes returns the pixel data slice for row y.
// Returns nil if y is out of bounds.
func (b *Buffer) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.width * 4
	return b.data[start : start+b.width*4]
}

// GetRGBA returns the color at (x, y) in 0-255 range.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *Buffer) GetRGBA(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	off := 4 * (y*b.width + x)
	return b.data[off], b.data[off+1], b.data[off+2], b.data[off+3]
}

// SetRGBA sets the color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside buffer bounds.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return ErrOutOfBounds
	}
	off := 4 * (y*b.width + x)
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	b.data[off+3] = a
	return nil
}

// Clear sets all pixels to transparent black.
func (b *Buffer) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given RGBA color.
func (b *Buffer) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		row := b.RowBytes(y)
		for x := range b.width {
			off := x * 4
			row[off] = r
			row[off+1] = g
			row[off+2] = bl
			row[off+3] = a
		}
	}
}

// Opaque reports whether every pixel has full alpha.
//
// It scans every 4th byte starting at offset 3; any value below 255 means
// the buffer carries transparency. This is a single forward pass and the
// only alpha inspection the pipeline performs per source image.
func (b *Buffer) Opaque() bool {
	for i := 3; i < len(b.data); i += 4 {
		if b.data[i] != 255 {
			return false
		}
	}
	return true
}
