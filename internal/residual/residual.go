// Package residual implements the per-row inter-row/inter-channel
// differencer, the two's-complement magnitude-sign (TCMS) remapping, and
// the channel deinterleave-with-transpose step that together turn a BMP's
// BGR pixel region into three column-major single-byte residual planes.
//
// Forward rows read only from the untouched input pixel region and write
// only into disjoint slices of the output planes, so they can run over
// any partition of the row indices (internal/parallel). Reverse rows need
// the previous row's first reconstructed pixel as a predictor seed; that
// chain is resolved with one cheap sequential pass over column zero
// before the full rows are reconstructed in parallel.
package residual

import (
	"github.com/mrjoshuak/bmpzc/internal/bmpheader"
	"github.com/mrjoshuak/bmpzc/internal/parallel"
)

// pixel is a BGR triplet carried between row predictor steps.
type pixel [3]int32

// Encode turns pixelRegion (rowStride*H raw BGR bytes) into three
// column-major TCMS-encoded residual planes, concatenated as
// [plane0 | plane1 | plane2], each W*H bytes long.
func Encode(pixelRegion []byte, dims bmpheader.Dims, cfg parallel.Config) []byte {
	w, h := int(dims.Width), int(dims.Height)
	stride := int(dims.RowStride)
	planes := make([]byte, 3*w*h)

	parallel.For(h, cfg, func(yi int) {
		encodeRow(pixelRegion, planes, yi, w, h, stride)
	})
	return planes
}

func encodeRow(pixelRegion, planes []byte, y, w, h, stride int) {
	var p pixel
	if y > 0 {
		base := (y - 1) * stride
		p = pixel{
			int32(pixelRegion[base+0]),
			int32(pixelRegion[base+1]),
			int32(pixelRegion[base+2]),
		}
	}

	rowBase := y * stride
	planeSize := w * h
	for x := 0; x < w; x++ {
		off := rowBase + x*3
		n0 := int32(pixelRegion[off+0])
		n1 := int32(pixelRegion[off+1])
		n2 := int32(pixelRegion[off+2])

		v0 := n0 - p[0]
		v1 := n1 - p[1]
		v2 := n2 - p[2]
		p = pixel{n0, n1, n2}

		v0 -= v1
		v2 -= v1

		idx := y + x*h
		planes[0*planeSize+idx] = tcmsEncode(v0)
		planes[1*planeSize+idx] = tcmsEncode(v1)
		planes[2*planeSize+idx] = tcmsEncode(v2)
	}
}

// Decode reconstructs the rowStride*H raw BGR pixel region from the three
// TCMS-encoded residual planes produced by Encode. Trailing row padding
// bytes are zeroed, matching the forward stage that never wrote them.
func Decode(planes []byte, dims bmpheader.Dims, cfg parallel.Config) []byte {
	w, h := int(dims.Width), int(dims.Height)
	stride := int(dims.RowStride)
	pixelRegion := make([]byte, stride*h)

	preds := rowPredictors(planes, w, h)
	parallel.For(h, cfg, func(yi int) {
		decodeRow(planes, pixelRegion, yi, w, h, stride, preds[yi])
	})
	return pixelRegion
}

// rowPredictors resolves, for every row, the raw BGR pixel that seeds its
// decode: row 0 starts at (0,0,0); row y>0 starts at the reconstructed raw
// pixel (y-1, 0). Only column zero of every row needs to be decoded to
// build this chain, so it runs in a single cheap sequential pass,
// independent of the full-row decode that follows in parallel.
func rowPredictors(planes []byte, w, h int) []pixel {
	preds := make([]pixel, h)
	planeSize := w * h
	var p pixel
	for y := 0; y < h; y++ {
		preds[y] = p
		idx := y // column 0: y + 0*h
		v0 := tcmsDecode(planes[0*planeSize+idx])
		v1 := tcmsDecode(planes[1*planeSize+idx])
		v2 := tcmsDecode(planes[2*planeSize+idx])
		v0 += v1
		v2 += v1
		p = pixel{v0 + p[0], v1 + p[1], v2 + p[2]}
	}
	return preds
}

func decodeRow(planes, pixelRegion []byte, y, w, h, stride int, p pixel) {
	rowBase := y * stride
	planeSize := w * h
	for x := 0; x < w; x++ {
		idx := y + x*h
		v0 := tcmsDecode(planes[0*planeSize+idx])
		v1 := tcmsDecode(planes[1*planeSize+idx])
		v2 := tcmsDecode(planes[2*planeSize+idx])

		v0 += v1
		v2 += v1

		n0 := v0 + p[0]
		n1 := v1 + p[1]
		n2 := v2 + p[2]
		p = pixel{n0, n1, n2}

		off := rowBase + x*3
		pixelRegion[off+0] = byte(n0)
		pixelRegion[off+1] = byte(n1)
		pixelRegion[off+2] = byte(n2)
	}
	for i := w * 3; i < stride; i++ {
		pixelRegion[rowBase+i] = 0
	}
}

// tcmsEncode folds a residual delta (taken mod 256, interpreted as a
// signed 8-bit integer) into its two's-complement magnitude-sign byte:
// 2s for s>=0, -2s-1 for s<0. The sign bit is broadcast across a 32-bit
// lane by an arithmetic right shift rather than any shift-of-undefined-
// width trick.
func tcmsEncode(v int32) byte {
	s := int32(int8(byte(v)))
	return byte((s << 1) ^ (s >> 31))
}

// tcmsDecode reverses tcmsEncode, returning the signed 8-bit residual
// delta as an int32 ready for further linear combination.
func tcmsDecode(u byte) int32 {
	lsb := int32(u & 1)
	return int32(u>>1) ^ (-lsb)
}
