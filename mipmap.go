package assetpipe

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/simforge/assetpipe/internal/pix"
)

// ErrEmptySource is returned when a mipmap chain is requested for a nil or
// zero-sized source image.
var ErrEmptySource = errors.New("assetpipe: empty source image")

// Defaults for MipmapOptions.
const (
	// DefaultMaxLevel generates the full chain down to 1x1.
	DefaultMaxLevel = -1

	// DefaultQuality is the JPEG encode quality used when none is set.
	DefaultQuality = 98
)

// MipmapLevel is one level of a generated mipmap chain.
//
// Every level carries its PNG encoding. Levels of a fully opaque source
// additionally carry a JPEG encoding. URL and Buffer hold whichever of the
// two encodings was selected for delivery.
type MipmapLevel struct {
	Level  int
	Width  int
	Height int

	// Data is the raw non-premultiplied RGBA of the level, 4 bytes per
	// pixel in row-major order.
	Data []uint8

	// PNGBuffer and PNGURL are always populated.
	PNGBuffer []byte
	PNGURL    string

	// JPEGBuffer and JPEGURL are populated only when the source image is
	// fully opaque. JPEG cannot carry the alpha channel, so sources with
	// transparency never get a JPEG rendition.
	JPEGBuffer []byte
	JPEGURL    string

	// Buffer and URL are the preferred encoding: PNG for sources with
	// transparency, otherwise whichever data URL is shorter.
	Buffer []byte
	URL    string
}

// MipmapOptions control chain depth and encode settings.
type MipmapOptions struct {
	// MaxLevel is the highest level index to generate. Any negative value
	// means unbounded: the chain runs down to 1x1. MaxLevel 0 produces
	// only level 0.
	MaxLevel int

	// Quality is the JPEG encode quality in [1, 100]. Zero selects
	// DefaultQuality; other out-of-range values are clamped at encode
	// time.
	Quality int

	// Allocator, when non-nil, supplies destination buffers for the
	// downscale steps. (*ImagePool).Get fits here. Level buffers stay
	// referenced by the returned chain, so pooled buffers must not be
	// reused until the chain is discarded.
	Allocator Allocator
}

// DefaultMipmapOptions returns the options used by the batch builder:
// unbounded chain depth and DefaultQuality.
func DefaultMipmapOptions() MipmapOptions {
	return MipmapOptions{MaxLevel: DefaultMaxLevel, Quality: DefaultQuality}
}

// GenerateMipmaps builds the mipmap chain for the image file at path.
//
// The codec is chosen strictly by file suffix (.png, .jpg, .jpeg); any
// other suffix fails before the file is opened. See GenerateMipmapsFrom
// for the chain semantics.
func GenerateMipmaps(ctx context.Context, path string, opts MipmapOptions) ([]*MipmapLevel, error) {
	src, err := pix.LoadByExt(path)
	if err != nil {
		return nil, err
	}
	return GenerateMipmapsFrom(ctx, src, opts)
}

// GenerateMipmapsFrom builds the mipmap chain for an in-memory source.
//
// Level 0 is the source itself; each further level halves both dimensions
// (rounding up) with a box filter until 1x1 or opts.MaxLevel is reached.
// The source's alpha channel is scanned exactly once, up front: opaque
// sources get a JPEG rendition per level alongside the PNG, and the
// shorter data URL of the two is selected; sources with transparency are
// delivered as PNG only.
//
// Encoding fans out across goroutines while the downscale loop is still
// producing levels; the call returns only after every encode has joined.
// Any failure aborts the whole chain. No partial results are returned.
func GenerateMipmapsFrom(ctx context.Context, src *Image, opts MipmapOptions) ([]*MipmapLevel, error) {
	if src == nil || src.IsEmpty() {
		return nil, ErrEmptySource
	}

	quality := opts.Quality
	if quality == 0 {
		quality = DefaultQuality
	}

	// A single scan of level 0 decides the encodings for every level.
	hasAlpha := !src.Opaque()

	g, ctx := errgroup.WithContext(ctx)

	// schedule launches the encodes for one level. Each task writes only
	// its own level's fields, so the growing chain needs no locking.
	schedule := func(level *MipmapLevel, buf *pix.Buffer) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := buf.PNGBytes()
			if err != nil {
				return fmt.Errorf("assetpipe: level %d: %w", level.Level, err)
			}
			level.PNGBuffer = data
			level.PNGURL = pix.DataURL(pix.MIMEPNG, data)
			return nil
		})

		if hasAlpha {
			return
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := buf.JPEGBytes(quality)
			if err != nil {
				return fmt.Errorf("assetpipe: level %d: %w", level.Level, err)
			}
			level.JPEGBuffer = data
			level.JPEGURL = pix.DataURL(pix.MIMEJPEG, data)
			return nil
		})
	}

	var levels []*MipmapLevel
	cur := src
	for n := 0; ; n++ {
		w, h := cur.Bounds()
		level := &MipmapLevel{Level: n, Width: w, Height: h, Data: cur.Data()}
		levels = append(levels, level)
		schedule(level, cur)

		if w == 1 && h == 1 {
			break
		}
		if opts.MaxLevel >= 0 && n >= opts.MaxLevel {
			break
		}
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return nil, fmt.Errorf("assetpipe: generate mipmaps: %w", err)
		}

		cur = pix.Downsample(cur, opts.Allocator)
	}

	// Join-all barrier: every scheduled encode finishes or fails here.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log := Logger()
	for _, level := range levels {
		format := "png"
		level.Buffer, level.URL = level.PNGBuffer, level.PNGURL
		if !hasAlpha && len(level.JPEGURL) < len(level.PNGURL) {
			format = "jpeg"
			level.Buffer, level.URL = level.JPEGBuffer, level.JPEGURL
		}
		log.Debug("mipmap level encoded",
			"level", level.Level,
			"width", level.Width,
			"height", level.Height,
			"format", format,
			"bytes", len(level.Buffer))
	}

	return levels, nil
}
