package assetpipe

import "github.com/simforge/assetpipe/internal/pix"

// Image is the pixel buffer every pipeline stage works on:
// non-premultiplied RGBA8 with tight rows, so pixel (x, y) lives at byte
// offset 4*(y*width+x). It aliases the internal buffer type, which makes
// the full buffer API (SetRGBA, Fill, Opaque, PNGBytes, ...) available to
// callers building sources in memory.
type Image = pix.Buffer

// Allocator supplies destination buffers for downscale and render steps.
// (*ImagePool).Get satisfies it.
type Allocator = pix.Allocator

// ImagePool is a size-bucketed free list for Image buffers. Batches that
// render recurring sizes reuse buffers instead of reallocating them.
type ImagePool = pix.Pool

// NewImage creates a zeroed width x height Image.
func NewImage(width, height int) (*Image, error) {
	return pix.New(width, height)
}

// LoadImage loads an image file. Known suffixes (.png, .jpg, .jpeg)
// dispatch directly to their codec; anything else falls back to content
// sniffing across the registered formats. GenerateMipmaps is stricter and
// rejects unknown suffixes outright.
func LoadImage(path string) (*Image, error) {
	return pix.LoadImage(path)
}

// NewImagePool creates a pool retaining at most maxPerBucket buffers per
// size. A maxPerBucket of 0 means unlimited.
func NewImagePool(maxPerBucket int) *ImagePool {
	return pix.NewPool(maxPerBucket)
}
