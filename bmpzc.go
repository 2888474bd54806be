// Package bmpzc implements a lossless compressor/decompressor for 24-bit
// uncompressed BMP images. It reshapes raw BGR pixel data through a short
// chain of reversible transforms — header neutralisation, row/channel
// differencing with TCMS remapping, and an 8x8 bit-matrix transpose — into
// a form with long runs of zero bytes, which the zero-elimination stage
// (package zerelim) then compacts without any entropy coding.
//
// Core mirrors the pipeline driver alone (header -> residual ->
// bit-transpose and its inverse); Compress/Decompress are the enclosing
// compressor that additionally apply zero-elimination over the pipeline's
// output, the way OpenEXR's ZIP codec composes its own predictor and
// interleave stages with a general-purpose zlib writer.
package bmpzc

import (
	"github.com/mrjoshuak/bmpzc/internal/bittranspose"
	"github.com/mrjoshuak/bmpzc/internal/bmpheader"
	"github.com/mrjoshuak/bmpzc/internal/residual"
	"github.com/mrjoshuak/bmpzc/zerelim"
)

// Core is the pipeline driver's output: a neutralised 54-byte header plus
// the post-differencing, post-bit-transpose residual byte stream, before
// zero-elimination has been applied.
type Core struct {
	Header   []byte
	Dims     bmpheader.Dims
	Residual []byte
}

// EncodeCore runs the header validator/neutraliser (B), the row/channel
// differencer (C), and the bit-matrix transpose (D) over buf, in that
// order. If buf does not match the supported BMP subset, it returns the
// validator's error unchanged and does not modify buf.
func EncodeCore(buf []byte, opts ...Option) (*Core, error) {
	o := newOptions(opts...)

	if len(buf) < bmpheader.Size {
		return nil, ErrInputTooSmall
	}

	// Neutralize checks the whole buffer's length against the declared file
	// size, so it runs on a full copy to leave buf untouched.
	work := append([]byte(nil), buf...)
	dims, err := bmpheader.Neutralize(work)
	if err != nil {
		o.logger.Printf("bmpzc: header not recognised, skipping encode: %v", err)
		return nil, err
	}
	header := append([]byte(nil), work[:bmpheader.Size]...)

	regionSize := dims.PixelRegionSize()
	pixelRegion := buf[bmpheader.Size:]
	if int64(len(pixelRegion)) < regionSize {
		return nil, ErrPixelRegionTooSmall
	}
	pixelRegion = pixelRegion[:regionSize]

	planes := residual.Encode(pixelRegion, dims, o.parallel)
	transposed := bittranspose.Encode(planes, o.parallel)

	return &Core{Header: header, Dims: dims, Residual: transposed}, nil
}

// DecodeCore reverses EncodeCore: header restoration, bit-transpose^-1,
// and the channel differencer's inverse, reproducing the original BMP
// buffer byte-for-byte (including zeroed row padding).
func DecodeCore(c *Core, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)

	regionSize := c.Dims.PixelRegionSize()
	if regionSize < 0 {
		regionSize = 0
	}
	out := make([]byte, int64(bmpheader.Size)+regionSize)
	copy(out, c.Header)
	dims, err := bmpheader.Restore(out)
	if err != nil {
		o.logger.Printf("bmpzc: header not in neutralised form, skipping decode: %v", err)
		return nil, err
	}

	planes := bittranspose.Decode(c.Residual, o.parallel)
	pixelRegion := residual.Decode(planes, dims, o.parallel)
	copy(out[bmpheader.Size:], pixelRegion)
	return out, nil
}

// Encoded is the fully compressed artifact: a neutralised header plus the
// zero-eliminated residual stream. ResidualLen records the pre-ZE byte
// count so Decompress knows how many words to reconstruct.
type Encoded struct {
	Header      []byte
	Dims        bmpheader.Dims
	ResidualLen int
	Dense       []byte
	Bitmap      []byte
}

// Stats summarizes one Compress call, mirroring the way exrutil.FileInfo
// summarizes an OpenEXR file for a caller or CLI.
type Stats struct {
	OriginalSize int
	HeaderSize   int
	ResidualSize int
	DenseSize    int
	BitmapSize   int
	Ratio        float64
}

// Compress runs the full pipeline (EncodeCore) and then eliminates zero
// bytes from the residual stream, returning the compact artifact plus a
// size summary.
func Compress(buf []byte, opts ...Option) (*Encoded, Stats, error) {
	core, err := EncodeCore(buf, opts...)
	if err != nil {
		return nil, Stats{}, err
	}

	dense, bitmap := zerelim.Encode(core.Residual)

	stats := Stats{
		OriginalSize: len(buf),
		HeaderSize:   len(core.Header),
		ResidualSize: len(core.Residual),
		DenseSize:    len(dense),
		BitmapSize:   len(bitmap),
	}
	encodedSize := stats.HeaderSize + stats.DenseSize + stats.BitmapSize
	if stats.OriginalSize > 0 {
		stats.Ratio = float64(encodedSize) / float64(stats.OriginalSize)
	}

	return &Encoded{
		Header:      core.Header,
		Dims:        core.Dims,
		ResidualLen: len(core.Residual),
		Dense:       dense,
		Bitmap:      bitmap,
	}, stats, nil
}

// Decompress reverses Compress: it expands the zero-eliminated residual
// stream and runs it back through DecodeCore.
func Decompress(e *Encoded, opts ...Option) ([]byte, error) {
	residualBytes := zerelim.Decode(e.ResidualLen, e.Dense, e.Bitmap)
	core := &Core{Header: e.Header, Dims: e.Dims, Residual: residualBytes}
	return DecodeCore(core, opts...)
}
