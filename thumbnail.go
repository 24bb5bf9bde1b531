package assetpipe

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/simforge/assetpipe/geom"
	"github.com/simforge/assetpipe/internal/pix"
)

// Size is a thumbnail size in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultThumbnailSizes are the rendition sizes produced for thumbnail
// assets when the config does not override them. The two large sizes
// match the preview dimensions used by the simulation website.
var DefaultThumbnailSizes = []Size{
	{Width: 600, Height: 394},
	{Width: 420, Height: 276},
	{Width: 128, Height: 84},
}

// Thumbnail scales src to fit within width x height, centered, using
// Catmull-Rom resampling. Letterbox bands are transparent.
func Thumbnail(src *Image, width, height int) (*Image, error) {
	dst, err := pix.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("assetpipe: thumbnail: %w", err)
	}
	RenderThumbnail(dst, src)
	return dst, nil
}

// RenderThumbnail scales src into dst, preserving aspect ratio and
// centering. dst is cleared first, so callers can recycle buffers
// through a pool without leaking the previous rendition.
func RenderThumbnail(dst, src *Image) {
	if dst == nil || dst.IsEmpty() || src == nil || src.IsEmpty() {
		return
	}
	dst.Clear()

	srcW, srcH := src.Bounds()
	dstW, dstH := dst.Bounds()
	m := geom.FitRect(float64(srcW), float64(srcH), float64(dstW), float64(dstH))

	// Map the source corners through the fit transform to find the
	// centered target rectangle.
	p0 := m.Apply(geom.V2(0, 0))
	p1 := m.Apply(geom.V2(float64(srcW), float64(srcH)))
	rect := image.Rect(
		int(math.Round(p0.X)), int(math.Round(p0.Y)),
		int(math.Round(p1.X)), int(math.Round(p1.Y)))

	srcImg := src.ToImage()
	xdraw.CatmullRom.Scale(dst.ToImage(), rect, srcImg, srcImg.Bounds(), xdraw.Over, nil)
}
