// Package bmpheader recognises the BMP subset documented for this codec
// (24bpp, uncompressed, single plane, 40-byte DIB header) and neutralises
// its fixed fields in place: subtracting the value every conforming header
// is required to hold turns a valid header into an all-zero run, which the
// downstream zero-elimination stage then eliminates for free.
//
// Header validation never corrupts a non-matching buffer: a violation is
// reported through ValidationError and the buffer is left untouched.
package bmpheader

import (
	"fmt"

	"github.com/mrjoshuak/bmpzc/internal/xdr"
)

// Size is the fixed length of the recognised BMP header: a 14-byte file
// header followed by a 40-byte BITMAPINFOHEADER.
const Size = 54

// Field byte offsets within the header, per the BITMAPFILEHEADER /
// BITMAPINFOHEADER layout this codec recognises.
const (
	offMagic0          = 0
	offMagic1          = 1
	offFileSize        = 2
	offReserved        = 6
	offPixelDataOffset = 10
	offDIBHeaderSize   = 14
	offWidth           = 18
	offHeight          = 22
	offColorPlanes     = 26
	offBitsPerPixel    = 28
	offCompression     = 30
	offImageSize       = 34
	offXResolution     = 38
	offYResolution     = 42
	offColorsUsed      = 46
	offImportantColors = 50
)

// Required constant values for the recognised subset.
const (
	wantPixelDataOffset = 54
	wantDIBHeaderSize   = 40
	wantColorPlanes     = 1
	wantBitsPerPixel    = 24
)

// ValidationError reports why a buffer was rejected as outside the
// supported BMP subset. It is non-fatal: the caller's buffer is
// guaranteed unmodified when this error is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bmpheader: unsupported format: %s", e.Reason)
}

func fail(reason string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(reason, args...)}
}

// Dims describes the pixel geometry a validated header declares.
type Dims struct {
	Width     int32
	Height    int32
	RowStride int32
}

// RowStride returns the BMP row stride for a given pixel width: 3 bytes
// per pixel, rounded up to a multiple of 4.
func RowStride(width int32) int32 {
	return (width*3 + 3) &^ 3
}

// PixelRegionSize returns the total size in bytes of the pixel data
// region described by d.
func (d Dims) PixelRegionSize() int64 {
	return int64(d.RowStride) * int64(d.Height)
}

// Validate checks buf against the supported subset and returns the
// declared image dimensions. It performs no mutation.
func Validate(buf []byte) (Dims, error) {
	if len(buf) < Size {
		return Dims{}, fail("buffer too small: %d bytes, need at least %d", len(buf), Size)
	}
	if buf[offMagic0] != 'B' || buf[offMagic1] != 'M' {
		return Dims{}, fail("bad magic: %q", buf[offMagic0:offMagic1+1])
	}
	if xdr.GetU32(buf[offReserved:]) != 0 {
		return Dims{}, fail("reserved field is nonzero")
	}
	if xdr.Get32(buf[offPixelDataOffset:]) != wantPixelDataOffset {
		return Dims{}, fail("pixel data offset != %d", wantPixelDataOffset)
	}
	if xdr.Get32(buf[offDIBHeaderSize:]) != wantDIBHeaderSize {
		return Dims{}, fail("DIB header size != %d", wantDIBHeaderSize)
	}
	width := xdr.Get32(buf[offWidth:])
	height := xdr.Get32(buf[offHeight:])
	if width < 1 {
		return Dims{}, fail("width %d < 1", width)
	}
	if height < 1 {
		return Dims{}, fail("height %d < 1", height)
	}
	if xdr.Get16(buf[offColorPlanes:]) != wantColorPlanes {
		return Dims{}, fail("color planes != %d", wantColorPlanes)
	}
	if xdr.Get16(buf[offBitsPerPixel:]) != wantBitsPerPixel {
		return Dims{}, fail("bits per pixel != %d", wantBitsPerPixel)
	}
	if xdr.Get32(buf[offCompression:]) != 0 {
		return Dims{}, fail("compression method != 0")
	}
	if xdr.Get32(buf[offColorsUsed:]) != 0 {
		return Dims{}, fail("colors used != 0")
	}
	if xdr.Get32(buf[offImportantColors:]) != 0 {
		return Dims{}, fail("important colors != 0")
	}

	stride := RowStride(width)
	wantFileSize := int64(Size) + int64(stride)*int64(height)
	wantImageSize := int64(stride) * int64(height)

	if int64(xdr.Get32(buf[offFileSize:])) != wantFileSize {
		return Dims{}, fail("file size field mismatch: want %d", wantFileSize)
	}
	if int64(xdr.Get32(buf[offImageSize:])) != wantImageSize {
		return Dims{}, fail("image size field mismatch: want %d", wantImageSize)
	}
	if int64(len(buf)) != wantFileSize {
		return Dims{}, fail("buffer length %d != declared file size %d", len(buf), wantFileSize)
	}

	return Dims{Width: width, Height: height, RowStride: stride}, nil
}

// Neutralize validates buf and, if it matches the supported subset,
// subtracts the expected constant from each recognised field in place so
// that a valid header becomes all zero except width, height, x-resolution
// (unchanged) and y-resolution (replaced by y-x). On validation failure
// buf is left unmodified and the error is returned for the caller to treat
// as a non-fatal warning.
func Neutralize(buf []byte) (Dims, error) {
	dims, err := Validate(buf)
	if err != nil {
		return Dims{}, err
	}

	wantFileSize := int32(Size) + int32(dims.RowStride)*dims.Height
	wantImageSize := int32(dims.RowStride) * dims.Height

	buf[offMagic0] = 0
	buf[offMagic1] = 0
	xdr.Set32(buf[offFileSize:], xdr.Get32(buf[offFileSize:])-wantFileSize)
	xdr.Set32(buf[offPixelDataOffset:], xdr.Get32(buf[offPixelDataOffset:])-wantPixelDataOffset)
	xdr.Set32(buf[offDIBHeaderSize:], xdr.Get32(buf[offDIBHeaderSize:])-wantDIBHeaderSize)
	xdr.Set16(buf[offColorPlanes:], xdr.Get16(buf[offColorPlanes:])-wantColorPlanes)
	xdr.Set16(buf[offBitsPerPixel:], xdr.Get16(buf[offBitsPerPixel:])-wantBitsPerPixel)
	xdr.Set32(buf[offImageSize:], xdr.Get32(buf[offImageSize:])-wantImageSize)

	xRes := xdr.Get32(buf[offXResolution:])
	yRes := xdr.Get32(buf[offYResolution:])
	xdr.Set32(buf[offYResolution:], yRes-xRes)

	return dims, nil
}

// Restore reverses Neutralize in place: it re-adds the constants that
// Neutralize subtracted. Width and height are read directly (Neutralize
// never zeroes them) so Restore does not need a prior Validate call, but
// it does check that the fields Neutralize is required to have zeroed are
// in fact zero, refusing to touch a buffer that isn't in neutralised form.
func Restore(buf []byte) (Dims, error) {
	if len(buf) < Size {
		return Dims{}, fail("buffer too small: %d bytes, need at least %d", len(buf), Size)
	}
	if buf[offMagic0] != 0 || buf[offMagic1] != 0 {
		return Dims{}, fail("neutralised magic field is nonzero")
	}
	if xdr.GetU32(buf[offReserved:]) != 0 {
		return Dims{}, fail("reserved field is nonzero")
	}
	if xdr.Get32(buf[offPixelDataOffset:]) != 0 {
		return Dims{}, fail("neutralised pixel data offset is nonzero")
	}
	if xdr.Get32(buf[offDIBHeaderSize:]) != 0 {
		return Dims{}, fail("neutralised DIB header size is nonzero")
	}
	width := xdr.Get32(buf[offWidth:])
	height := xdr.Get32(buf[offHeight:])
	if width < 1 {
		return Dims{}, fail("width %d < 1", width)
	}
	if height < 1 {
		return Dims{}, fail("height %d < 1", height)
	}
	if xdr.Get16(buf[offColorPlanes:]) != 0 {
		return Dims{}, fail("neutralised color planes is nonzero")
	}
	if xdr.Get16(buf[offBitsPerPixel:]) != 0 {
		return Dims{}, fail("neutralised bits per pixel is nonzero")
	}
	if xdr.Get32(buf[offCompression:]) != 0 {
		return Dims{}, fail("compression method != 0")
	}
	if xdr.Get32(buf[offColorsUsed:]) != 0 {
		return Dims{}, fail("colors used != 0")
	}
	if xdr.Get32(buf[offImportantColors:]) != 0 {
		return Dims{}, fail("important colors != 0")
	}

	stride := RowStride(width)
	wantFileSize := int32(Size) + stride*height
	wantImageSize := stride * height

	if xdr.Get32(buf[offFileSize:]) != 0 {
		return Dims{}, fail("neutralised file size is nonzero")
	}
	if xdr.Get32(buf[offImageSize:]) != 0 {
		return Dims{}, fail("neutralised image size is nonzero")
	}
	if int64(len(buf)) != int64(wantFileSize) {
		return Dims{}, fail("buffer length %d != reconstructed file size %d", len(buf), wantFileSize)
	}

	buf[offMagic0] = 'B'
	buf[offMagic1] = 'M'
	xdr.Set32(buf[offFileSize:], wantFileSize)
	xdr.Set32(buf[offPixelDataOffset:], wantPixelDataOffset)
	xdr.Set32(buf[offDIBHeaderSize:], wantDIBHeaderSize)
	xdr.Set16(buf[offColorPlanes:], wantColorPlanes)
	xdr.Set16(buf[offBitsPerPixel:], wantBitsPerPixel)
	xdr.Set32(buf[offImageSize:], wantImageSize)

	xRes := xdr.Get32(buf[offXResolution:])
	yMinusX := xdr.Get32(buf[offYResolution:])
	xdr.Set32(buf[offYResolution:], yMinusX+xRes)

	return Dims{Width: width, Height: height, RowStride: stride}, nil
}
