package residual

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/mrjoshuak/bmpzc/internal/bmpheader"
	"github.com/mrjoshuak/bmpzc/internal/parallel"
)

func dims(w, h int32) bmpheader.Dims {
	return bmpheader.Dims{Width: w, Height: h, RowStride: bmpheader.RowStride(w)}
}

func TestS1BlackPixel(t *testing.T) {
	d := dims(1, 1)
	pixels := make([]byte, d.RowStride) // (0,0,0) + padding, all zero
	planes := Encode(pixels, d, parallel.DefaultConfig())
	for i, b := range planes {
		if b != 0 {
			t.Errorf("planes[%d] = %d, want 0", i, b)
		}
	}
	back := Decode(planes, d, parallel.DefaultConfig())
	if !bytes.Equal(back, pixels) {
		t.Errorf("round trip mismatch: got %v want %v", back, pixels)
	}
}

func TestS2WhitePixel(t *testing.T) {
	d := dims(1, 1)
	pixels := []byte{255, 255, 255, 0} // BGR white + 1 pad byte
	planes := Encode(pixels, d, parallel.DefaultConfig())
	want := []byte{0, 1, 0}
	if !bytes.Equal(planes, want) {
		t.Errorf("planes = %v, want %v", planes, want)
	}
	back := Decode(planes, d, parallel.DefaultConfig())
	if !bytes.Equal(back, pixels) {
		t.Errorf("round trip = %v, want %v", back, pixels)
	}
}

func TestS3TwoIdenticalPixels(t *testing.T) {
	d := dims(2, 1)
	// BGR (10,20,30) twice, row stride = 8 so no padding.
	pixels := []byte{10, 20, 30, 10, 20, 30, 0, 0}
	planes := Encode(pixels, d, parallel.DefaultConfig())
	// Column-major: plane[k*2+0] = col0, plane[k*2+1] = col1.
	want := []byte{19, 0, 40, 0, 20, 0}
	if !bytes.Equal(planes, want) {
		t.Errorf("planes = %v, want %v", planes, want)
	}
	back := Decode(planes, d, parallel.DefaultConfig())
	if !bytes.Equal(back, pixels) {
		t.Errorf("round trip = %v, want %v", back, pixels)
	}
}

func TestS6FourPixelGradient(t *testing.T) {
	d := dims(4, 1)
	pixels := []byte{
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
	}
	planes := Encode(pixels, d, parallel.DefaultConfig())
	// channel 1 (G) plane should be [0,2,2,2]; channels 0 and 2 all zero.
	wantG := []byte{0, 2, 2, 2}
	gotG := planes[4:8]
	if !bytes.Equal(gotG, wantG) {
		t.Errorf("G plane = %v, want %v", gotG, wantG)
	}
	back := Decode(planes, d, parallel.DefaultConfig())
	if !bytes.Equal(back, pixels) {
		t.Errorf("round trip = %v, want %v", back, pixels)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		w := int32(1 + rng.Intn(37))
		h := int32(1 + rng.Intn(37))
		d := dims(w, h)
		pixels := make([]byte, int(d.RowStride)*int(h))
		for y := int32(0); y < h; y++ {
			for x := int32(0); x < w*3; x++ {
				pixels[y*d.RowStride+x] = byte(rng.Intn(256))
			}
			// padding already zero
		}
		planes := Encode(pixels, d, parallel.DefaultConfig())
		back := Decode(planes, d, parallel.DefaultConfig())
		if !bytes.Equal(back, pixels) {
			t.Fatalf("trial %d (w=%d h=%d): round trip mismatch", trial, w, h)
		}
	}
}

func TestParallelismEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	w, h := int32(33), int32(29)
	d := dims(w, h)
	pixels := make([]byte, int(d.RowStride)*int(h))
	rng.Read(pixels)
	// zero the padding like a real pixel region would have
	for y := int32(0); y < h; y++ {
		for i := w * 3; i < d.RowStride; i++ {
			pixels[y*d.RowStride+i] = 0
		}
	}

	seq := Encode(pixels, d, parallel.Config{Workers: 1})
	par := Encode(pixels, d, parallel.Config{Workers: 8, GrainSize: 1})
	if !bytes.Equal(seq, par) {
		t.Fatal("sequential and parallel encodes diverge")
	}

	seqBack := Decode(seq, d, parallel.Config{Workers: 1})
	parBack := Decode(par, d, parallel.Config{Workers: 8, GrainSize: 1})
	if !bytes.Equal(seqBack, parBack) {
		t.Fatal("sequential and parallel decodes diverge")
	}
	if !bytes.Equal(seqBack, pixels) {
		t.Fatal("decode did not reconstruct original pixels")
	}
}

func TestTCMSBijection(t *testing.T) {
	for s := -128; s <= 127; s++ {
		u := tcmsEncode(int32(s))
		back := tcmsDecode(u)
		if back != int32(s) {
			t.Errorf("tcmsDecode(tcmsEncode(%d)) = %d", s, back)
		}
	}
}
