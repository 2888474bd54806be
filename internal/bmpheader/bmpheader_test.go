package bmpheader

import (
	"bytes"
	"testing"

	"github.com/mrjoshuak/bmpzc/internal/xdr"
)

// makeHeader builds a valid 54-byte header plus a pixel region of the
// requested size, all pixels zeroed.
func makeHeader(t *testing.T, width, height int32) []byte {
	t.Helper()
	stride := RowStride(width)
	fileSize := int32(Size) + stride*height
	buf := make([]byte, fileSize)

	buf[0], buf[1] = 'B', 'M'
	xdr.Set32(buf[offFileSize:], fileSize)
	xdr.Set32(buf[offPixelDataOffset:], wantPixelDataOffset)
	xdr.Set32(buf[offDIBHeaderSize:], wantDIBHeaderSize)
	xdr.Set32(buf[offWidth:], width)
	xdr.Set32(buf[offHeight:], height)
	xdr.Set16(buf[offColorPlanes:], wantColorPlanes)
	xdr.Set16(buf[offBitsPerPixel:], wantBitsPerPixel)
	xdr.Set32(buf[offImageSize:], stride*height)
	xdr.Set32(buf[offXResolution:], 2835)
	xdr.Set32(buf[offYResolution:], 2835)
	return buf
}

func TestValidateAccepts(t *testing.T) {
	buf := makeHeader(t, 4, 2)
	dims, err := Validate(buf)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if dims.Width != 4 || dims.Height != 2 {
		t.Errorf("dims = %+v, want {4 2 ...}", dims)
	}
	if dims.RowStride != 12 {
		t.Errorf("RowStride = %d, want 12", dims.RowStride)
	}
}

func TestRowStridePadding(t *testing.T) {
	cases := []struct{ width, stride int32 }{
		{1, 4}, {2, 8}, {3, 12}, {4, 12}, {5, 16},
	}
	for _, c := range cases {
		if got := RowStride(c.width); got != c.stride {
			t.Errorf("RowStride(%d) = %d, want %d", c.width, got, c.stride)
		}
	}
}

func TestNeutralizeThenRestoreRoundTrips(t *testing.T) {
	buf := makeHeader(t, 4, 3)
	want := append([]byte(nil), buf...)

	dims, err := Neutralize(buf)
	if err != nil {
		t.Fatalf("Neutralize: %v", err)
	}
	if dims.Width != 4 || dims.Height != 3 {
		t.Fatalf("dims = %+v", dims)
	}

	// All required fields except width/height/x-res must now be zero, and
	// y-res must equal the (near-zero) difference from x-res.
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("magic not neutralised: %v", buf[:2])
	}
	if xdr.Get32(buf[offFileSize:]) != 0 {
		t.Errorf("file size not neutralised")
	}
	if xdr.Get32(buf[offYResolution:]) != 0 {
		t.Errorf("y-resolution not neutralised to (y-x) == 0 for equal res")
	}

	restored, err := Restore(buf)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != dims {
		t.Errorf("Restore dims = %+v, want %+v", restored, dims)
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("Restore did not reproduce original header bytes")
	}
}

func TestValidateRejectsBadMagic(t *testing.T) {
	buf := makeHeader(t, 1, 1)
	buf[0] = 'X'
	if _, err := Validate(buf); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestNeutralizeLeavesInvalidBufferUnchanged(t *testing.T) {
	buf := makeHeader(t, 1, 1)
	buf[offCompression] = 1 // unsupported compression method
	want := append([]byte(nil), buf...)

	if _, err := Neutralize(buf); err == nil {
		t.Fatal("expected validation error")
	}
	if !bytes.Equal(buf, want) {
		t.Fatal("Neutralize mutated a buffer that failed validation")
	}
}

func TestValidateRejectsZeroDimensions(t *testing.T) {
	buf := makeHeader(t, 1, 1)
	xdr.Set32(buf[offWidth:], 0)
	if _, err := Validate(buf); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestValidateRejectsShortBuffer(t *testing.T) {
	if _, err := Validate(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestRestoreRejectsNonNeutralisedBuffer(t *testing.T) {
	buf := makeHeader(t, 1, 1) // never neutralised
	if _, err := Restore(buf); err == nil {
		t.Fatal("expected error restoring a non-neutralised buffer")
	}
}
