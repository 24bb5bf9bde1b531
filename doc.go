// Package assetpipe builds simulation image assets.
//
// # Overview
//
// assetpipe turns source images into the artifacts a browser-based
// simulation loads at runtime: mipmap chains encoded as data URLs,
// single-image JavaScript modules, fixed-size thumbnails, and packaged
// wrapper directories. Builds are driven by a YAML config and emit a
// JSON manifest describing every output.
//
// # Quick Start
//
//	import "github.com/simforge/assetpipe"
//
//	// Generate a mipmap chain for one image
//	levels, err := assetpipe.GenerateMipmaps(ctx, "battery-icon.png",
//		assetpipe.DefaultMipmapOptions())
//
//	// Or run a whole build from a config
//	cfg, err := assetpipe.LoadConfig("build.yaml")
//	man, err := assetpipe.Build(ctx, cfg)
//
// # Mipmaps
//
// A mipmap chain halves width and height (rounding up) until 1x1. Every
// level is encoded as PNG; levels without transparency are also encoded
// as JPEG and the shorter data URL wins. Encoding runs concurrently per
// level while the chain is still being downscaled.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Build, GenerateMipmaps, Thumbnail, BuildConfig
//   - geom: vectors and transforms for thumbnail fitting
//   - Internal: pix (pixel buffers and codecs), modulegen (JS emitters),
//     manifest, wrapper, cache, parallel
//
// # Logging
//
// The package is silent by default. Install a structured logger with
// SetLogger to see build milestones (info) and per-level encoding
// traces (debug).
package assetpipe

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
