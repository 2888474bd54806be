package zerelim

import (
	"bytes"
	"testing"
)

// FuzzZeroElimination checks that Decode(Encode(x)) reproduces x exactly
// for arbitrary byte slices, and that the bitmap always has the expected
// ceil(n/8) length.
func FuzzZeroElimination(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{0, 5, 0, 0, 7, 0, 0, 0})
	f.Add(bytes.Repeat([]byte{0}, 100))
	f.Add(bytes.Repeat([]byte{1}, 100))

	f.Fuzz(func(t *testing.T, in []byte) {
		dense, bitmap := Encode(in)

		wantBitmapLen := (len(in) + 7) / 8
		if len(bitmap) != wantBitmapLen {
			t.Fatalf("bitmap length = %d, want %d", len(bitmap), wantBitmapLen)
		}

		out := Decode(len(in), dense, bitmap)
		if !bytes.Equal(out, in) {
			t.Fatalf("round trip mismatch for %v", in)
		}
	})
}
