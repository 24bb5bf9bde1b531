package pix

// Allocator produces destination buffers for downscale steps.
//
// Passing nil selects plain heap allocation. (*Pool).Get satisfies this
// type, so callers that recycle buffers can inject a pool instead.
type Allocator func(width, height int) *Buffer

// heapAlloc is the default Allocator.
func heapAlloc(width, height int) *Buffer {
	b, err := New(width, height)
	if err != nil {
		return nil
	}
	return b
}

// Downsample creates a half-size version of src using a box filter.
//
// Each destination axis is ceil(src/2), so a 5 pixel axis becomes 3 and a
// 1 pixel axis stays 1. Every destination pixel is the per-channel mean of
// all contributing source pixels: the up-to-2x2 block clipped to the source
// bounds. Edge blocks on odd dimensions therefore average 2 or 1 real
// pixels rather than sampling anything outside the image. Means are rounded
// to nearest.
//
// src is never modified. Returns nil if src is nil or empty.
func Downsample(src *Buffer, alloc Allocator) *Buffer {
	if src == nil || src.IsEmpty() {
		return nil
	}
	if alloc == nil {
		alloc = heapAlloc
	}

	srcW, srcH := src.Bounds()
	dstW := (srcW + 1) / 2
	dstH := (srcH + 1) / 2

	dst := alloc(dstW, dstH)
	if dst == nil {
		return nil
	}

	for dy := range dstH {
		sy := dy * 2
		rows := 1
		if sy+1 < srcH {
			rows = 2
		}

		drow := dst.RowBytes(dy)
		for dx := range dstW {
			sx := dx * 2
			cols := 1
			if sx+1 < srcW {
				cols = 2
			}

			var rSum, gSum, bSum, aSum uint32
			for yy := range rows {
				srow := src.RowBytes(sy + yy)
				for xx := range cols {
					off := (sx + xx) * 4
					rSum += uint32(srow[off])
					gSum += uint32(srow[off+1])
					bSum += uint32(srow[off+2])
					aSum += uint32(srow[off+3])
				}
			}

			n := uint32(rows * cols)
			off := dx * 4
			drow[off] = byte((rSum + n/2) / n)
			drow[off+1] = byte((gSum + n/2) / n)
			drow[off+2] = byte((bSum + n/2) / n)
			drow[off+3] = byte((aSum + n/2) / n)
		}
	}

	return dst
}
