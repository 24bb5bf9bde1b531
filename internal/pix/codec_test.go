package pix

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKnownExt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"battery.png", true},
		{"photo.JPG", true},
		{"scan.Jpeg", true},
		{"anim.gif", false},
		{"art.webp", false},
		{"README", false},
		{filepath.Join("assets", "icons", "a.png"), true},
	}

	for _, tt := range tests {
		if got := KnownExt(tt.path); got != tt.want {
			t.Errorf("KnownExt(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadByExt_UnknownSuffix(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"gif", "sprite.gif"},
		{"bmp", "scan.bmp"},
		{"no extension", "README"},
		{"nonexistent directory", filepath.Join("no", "such", "dir", "x.webp")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadByExt(tt.path)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("LoadByExt(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
			}
			if !strings.Contains(err.Error(), "unknown image type") {
				t.Errorf("error %q does not mention the unknown image type", err)
			}
		})
	}
}

func TestLoadByExt_RejectsBeforeOpen(t *testing.T) {
	// The path does not exist; a dispatch that opened the file first would
	// surface a not-exist error instead of the format error.
	_, err := LoadByExt(filepath.Join(t.TempDir(), "missing.gif"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Error("suffix dispatch touched the filesystem")
	}
}

func TestLoadByExt_PNGRoundtrip(t *testing.T) {
	src, err := New(5, 3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for y := range 3 {
		for x := range 5 {
			_ = src.SetRGBA(x, y, uint8(40*x), uint8(80*y), 7, 255)
		}
	}
	_ = src.SetRGBA(4, 2, 1, 2, 3, 128)

	path := filepath.Join(t.TempDir(), "gradient.png")
	if err := src.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	got, err := LoadByExt(path)
	if err != nil {
		t.Fatalf("LoadByExt() error = %v", err)
	}

	if got.Width() != 5 || got.Height() != 3 {
		t.Fatalf("decoded size = %dx%d, want 5x3", got.Width(), got.Height())
	}
	// PNG is lossless; the RGBA bytes come back exactly.
	for i, b := range got.Data() {
		if b != src.Data()[i] {
			t.Fatalf("byte %d = %d, want %d", i, b, src.Data()[i])
		}
	}
	if got.Opaque() {
		t.Error("translucent pixel lost in roundtrip")
	}
}

func TestLoadByExt_JPEG(t *testing.T) {
	src, err := New(8, 6)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src.Fill(200, 100, 50, 255)

	for _, ext := range []string{".jpg", ".jpeg", ".JPG"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flat"+ext)
			if err := src.SaveJPEG(path, 90); err != nil {
				t.Fatalf("SaveJPEG() error = %v", err)
			}

			got, err := LoadByExt(path)
			if err != nil {
				t.Fatalf("LoadByExt() error = %v", err)
			}
			if got.Width() != 8 || got.Height() != 6 {
				t.Errorf("decoded size = %dx%d, want 8x6", got.Width(), got.Height())
			}
			if !got.Opaque() {
				t.Error("JPEG decode produced non-opaque buffer")
			}
		})
	}
}

func TestLoadByExt_CorruptPNG(t *testing.T) {
	// Valid PNG signature followed by garbage: the decoder, not the
	// dispatcher, must produce the failure.
	path := filepath.Join(t.TempDir(), "broken.png")
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("not actually a png")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := LoadByExt(path)
	if err == nil {
		t.Fatal("LoadByExt() succeeded on corrupt data")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want a decoder error", err)
	}
	if !strings.Contains(err.Error(), "decode PNG") {
		t.Errorf("error %q does not identify the PNG decode stage", err)
	}
}

func TestDecodeBytes(t *testing.T) {
	src, err := New(2, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src.Fill(1, 2, 3, 255)

	png, err := src.PNGBytes()
	if err != nil {
		t.Fatalf("PNGBytes() error = %v", err)
	}

	got, err := DecodeBytes(png)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if got.Width() != 2 || got.Height() != 2 {
		t.Errorf("decoded size = %dx%d, want 2x2", got.Width(), got.Height())
	}

	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) error = %v, want ErrEmptyData", err)
	}
}

func TestEncodeJPEG_QualityClamped(t *testing.T) {
	src, err := New(4, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src.Fill(120, 130, 140, 255)

	for _, q := range []int{-5, 0, 1, 100, 250} {
		if _, err := src.JPEGBytes(q); err != nil {
			t.Errorf("JPEGBytes(%d) error = %v", q, err)
		}
	}
}

func TestFromImage(t *testing.T) {
	t.Run("nrgba fast path", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		img.SetNRGBA(2, 1, color.NRGBA{R: 9, G: 8, B: 7, A: 120})

		buf := FromImage(img)
		r, g, bl, a := buf.GetRGBA(2, 1)
		if r != 9 || g != 8 || bl != 7 || a != 120 {
			t.Errorf("GetRGBA(2,1) = (%d,%d,%d,%d), want (9,8,7,120)", r, g, bl, a)
		}
	})

	t.Run("gray via draw conversion", func(t *testing.T) {
		img := image.NewGray(image.Rect(0, 0, 2, 2))
		img.SetGray(0, 0, color.Gray{Y: 77})

		buf := FromImage(img)
		r, g, bl, a := buf.GetRGBA(0, 0)
		if r != 77 || g != 77 || bl != 77 || a != 255 {
			t.Errorf("GetRGBA(0,0) = (%d,%d,%d,%d), want (77,77,77,255)", r, g, bl, a)
		}
	})

	t.Run("offset bounds", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(10, 20, 13, 22))
		img.SetRGBA(11, 21, color.RGBA{R: 50, G: 60, B: 70, A: 255})

		buf := FromImage(img)
		if buf.Width() != 3 || buf.Height() != 2 {
			t.Fatalf("size = %dx%d, want 3x2", buf.Width(), buf.Height())
		}
		r, g, bl, _ := buf.GetRGBA(1, 1)
		if r != 50 || g != 60 || bl != 70 {
			t.Errorf("GetRGBA(1,1) = (%d,%d,%d), want (50,60,70)", r, g, bl)
		}
	})
}

func TestToImage_SharesPixels(t *testing.T) {
	buf, err := New(2, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	img := buf.ToImage()
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 0, B: 0, A: 255})

	r, _, _, a := buf.GetRGBA(1, 0)
	if r != 200 || a != 255 {
		t.Errorf("write through view not visible: GetRGBA(1,0) = (%d,...,%d)", r, a)
	}
}

func TestDataURL(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
		want string
	}{
		{
			name: "png prefix",
			mime: MIMEPNG,
			data: []byte("hello"),
			want: "data:image/png;base64,aGVsbG8=",
		},
		{
			name: "jpeg prefix",
			mime: MIMEJPEG,
			data: []byte{0xff, 0xd8, 0xff},
			want: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}),
		},
		{
			name: "empty payload",
			mime: MIMEPNG,
			data: nil,
			want: "data:image/png;base64,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DataURL(tt.mime, tt.data); got != tt.want {
				t.Errorf("DataURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkEncodePNG(b *testing.B) {
	buf, err := New(256, 256)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	for y := range 256 {
		for x := range 256 {
			_ = buf.SetRGBA(x, y, uint8(x), uint8(y), uint8(x^y), 255)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := buf.PNGBytes(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDataURL(b *testing.B) {
	data := make([]byte, 64*1024)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DataURL(MIMEPNG, data)
	}
}
