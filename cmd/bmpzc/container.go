package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/mrjoshuak/bmpzc"
	"github.com/mrjoshuak/bmpzc/internal/bmpheader"
)

// containerMagic identifies a .bmpz container file.
var containerMagic = [4]byte{'B', 'Z', 'C', '1'}

// flagEntropy marks that the dense+bitmap payload is zlib-wrapped.
const flagEntropy = 1 << 0

// writeContainer serialises enc to w. When entropy is true, the dense and
// bitmap streams are written through a klauspost/compress zlib writer — an
// optional outer entropy-coding pass the core pipeline never applies
// itself, matching the way the compression package's ZIP codec wraps its
// own predictor/interleave output in a general-purpose deflate stream.
func writeContainer(w io.Writer, enc *bmpzc.Encoded, entropy bool) error {
	var hdr bytes.Buffer
	hdr.Write(containerMagic[:])

	var flags byte
	if entropy {
		flags |= flagEntropy
	}
	hdr.WriteByte(flags)

	binary.Write(&hdr, binary.LittleEndian, uint32(len(enc.Header)))
	hdr.Write(enc.Header)
	binary.Write(&hdr, binary.LittleEndian, enc.Dims.Width)
	binary.Write(&hdr, binary.LittleEndian, enc.Dims.Height)
	binary.Write(&hdr, binary.LittleEndian, enc.Dims.RowStride)
	binary.Write(&hdr, binary.LittleEndian, uint64(enc.ResidualLen))
	binary.Write(&hdr, binary.LittleEndian, uint32(len(enc.Dense)))
	binary.Write(&hdr, binary.LittleEndian, uint32(len(enc.Bitmap)))

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("writing container header: %w", err)
	}

	if !entropy {
		if _, err := w.Write(enc.Dense); err != nil {
			return fmt.Errorf("writing dense stream: %w", err)
		}
		if _, err := w.Write(enc.Bitmap); err != nil {
			return fmt.Errorf("writing bitmap stream: %w", err)
		}
		return nil
	}

	zw := zlib.NewWriter(w)
	if _, err := zw.Write(enc.Dense); err != nil {
		return fmt.Errorf("writing entropy-coded dense stream: %w", err)
	}
	if _, err := zw.Write(enc.Bitmap); err != nil {
		return fmt.Errorf("writing entropy-coded bitmap stream: %w", err)
	}
	return zw.Close()
}

// readContainer parses a .bmpz container previously written by
// writeContainer.
func readContainer(r io.Reader) (*bmpzc.Encoded, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if magic != containerMagic {
		return nil, fmt.Errorf("not a bmpz container: bad magic %q", magic)
	}

	var flags byte
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("reading flags: %w", err)
	}

	var headerLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("reading header length: %w", err)
	}
	if headerLen != bmpheader.Size {
		return nil, fmt.Errorf("unexpected header length %d, want %d", headerLen, bmpheader.Size)
	}
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var dims bmpheader.Dims
	var residualLen uint64
	var denseLen, bitmapLen uint32
	for _, field := range []any{&dims.Width, &dims.Height, &dims.RowStride, &residualLen, &denseLen, &bitmapLen} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("reading geometry: %w", err)
		}
	}

	payload := io.Reader(r)
	var zr io.ReadCloser
	if flags&flagEntropy != 0 {
		var err error
		zr, err = zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening entropy-coded payload: %w", err)
		}
		defer zr.Close()
		payload = zr
	}

	dense := make([]byte, denseLen)
	if _, err := io.ReadFull(payload, dense); err != nil {
		return nil, fmt.Errorf("reading dense stream: %w", err)
	}
	bitmap := make([]byte, bitmapLen)
	if _, err := io.ReadFull(payload, bitmap); err != nil {
		return nil, fmt.Errorf("reading bitmap stream: %w", err)
	}

	return &bmpzc.Encoded{
		Header:      header,
		Dims:        dims,
		ResidualLen: int(residualLen),
		Dense:       dense,
		Bitmap:      bitmap,
	}, nil
}
