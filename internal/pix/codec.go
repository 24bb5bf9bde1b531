package pix

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registered so content-sniffed sources (thumbnail inputs) decode.
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when a file suffix names no known codec.
	ErrUnsupportedFormat = errors.New("pix: unknown image type")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("pix: empty data")
)

// MIME types of the encodings the pipeline produces.
const (
	MIMEPNG  = "image/png"
	MIMEJPEG = "image/jpeg"
)

// pngEncoder trades encode time for smaller buffers; every PNG byte is
// carried into a data URL downstream.
var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// KnownExt reports whether the lower-cased file suffix maps straight to a
// codec (.png, .jpg, .jpeg). It never touches the filesystem.
func KnownExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// LoadByExt loads an image, dispatching strictly on the lower-cased file
// suffix: .png decodes as PNG, .jpg and .jpeg as JPEG. Any other suffix
// returns ErrUnsupportedFormat without the file ever being opened.
func LoadByExt(path string) (*Buffer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return LoadPNG(path)
	case ".jpg", ".jpeg":
		return LoadJPEG(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadPNG loads a PNG image from the given file path.
func LoadPNG(path string) (*Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("pix: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodePNG(f)
}

// LoadJPEG loads a JPEG image from the given file path.
func LoadJPEG(path string) (*Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("pix: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeJPEG(f)
}

// LoadImage loads an image from the given file path. Known suffixes
// dispatch directly; anything else falls back to content sniffing across
// the registered formats (PNG, JPEG, webp).
func LoadImage(path string) (*Buffer, error) {
	if KnownExt(path) {
		return LoadByExt(path)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("pix: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// DecodeBytes decodes an image from a byte slice, auto-detecting the format.
func DecodeBytes(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (*Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pix: decode: %w", err)
	}
	return FromImage(img), nil
}

// DecodePNG decodes a PNG image from the given reader.
func DecodePNG(r io.Reader) (*Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pix: decode PNG: %w", err)
	}
	return FromImage(img), nil
}

// DecodeJPEG decodes a JPEG image from the given reader.
func DecodeJPEG(r io.Reader) (*Buffer, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pix: decode JPEG: %w", err)
	}
	return FromImage(img), nil
}

// SavePNG saves the buffer as a PNG file.
func (b *Buffer) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("pix: create file: %w", err)
	}

	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// SaveJPEG saves the buffer as a JPEG file with the given quality (1-100).
func (b *Buffer) SaveJPEG(path string, quality int) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("pix: create file: %w", err)
	}

	if err := b.EncodeJPEG(f, quality); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// EncodePNG encodes the buffer as PNG to the given writer.
func (b *Buffer) EncodePNG(w io.Writer) error {
	if err := pngEncoder.Encode(w, b.ToImage()); err != nil {
		return fmt.Errorf("pix: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the buffer as JPEG to the given writer.
// Quality is clamped into [1, 100]. Alpha is discarded.
func (b *Buffer) EncodeJPEG(w io.Writer, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	if err := jpeg.Encode(w, b.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("pix: encode JPEG: %w", err)
	}
	return nil
}

// PNGBytes encodes the buffer to PNG and returns the bytes.
func (b *Buffer) PNGBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGBytes encodes the buffer to JPEG and returns the bytes.
func (b *Buffer) JPEGBytes(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.EncodeJPEG(&buf, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromImage creates a Buffer from a standard library image.
//
// NRGBA sources copy row by row; everything else converts through the
// standard draw package, which handles premultiplied and luma formats.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := New(width, height)
	if err != nil {
		return nil
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		if nrgba.Stride == width*4 {
			copy(buf.data, nrgba.Pix)
			return buf
		}
		for y := range height {
			srcStart := y * nrgba.Stride
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	draw.Draw(buf.ToImage(), image.Rect(0, 0, width, height), img, bounds.Min, draw.Src)
	return buf
}

// ToImage returns a standard library view of the buffer.
// The returned image shares the buffer's pixel data; it is not a copy.
func (b *Buffer) ToImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: 4 * b.width,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// DataURL wraps encoded image bytes in a base64 data URL for the given
// MIME type, streaming through the base64 encoder without an intermediate
// copy of the encoded text.
func DataURL(mime string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))

	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	_, _ = enc.Write(data)
	_ = enc.Close()

	return sb.String()
}
