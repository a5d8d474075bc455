package toonify

import (
	"math/rand/v2"
	"testing"
)

// makeRaster builds an RGB raster from a per-pixel function.
func makeRaster(w, h int, fn func(x, y int) [3]uint8) *Raster {
	r := NewRaster(w, h, ColorSpaceRGB)
	for y := range h {
		for x := range w {
			c := fn(x, y)
			copy(r.Pix[r.offset(x, y):], c[:])
		}
	}
	return r
}

func solid(w, h int, c [3]uint8) *Raster {
	return makeRaster(w, h, func(int, int) [3]uint8 { return c })
}

func noise(w, h int, seed uint64) *Raster {
	rng := rand.New(rand.NewPCG(seed, seed))
	return makeRaster(w, h, func(int, int) [3]uint8 {
		return [3]uint8{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256))}
	})
}

// stepImage is dark on the left half and bright on the right half.
func stepImage(w, h int) *Raster {
	return makeRaster(w, h, func(x, _ int) [3]uint8 {
		if x < w/2 {
			return [3]uint8{0, 0, 0}
		}
		return [3]uint8{200, 200, 200}
	})
}

func assertSameRaster(t *testing.T, got, want *Raster) {
	t.Helper()
	if got.W != want.W || got.H != want.H || got.C != want.C {
		t.Fatalf("raster %dx%dx%d, want %dx%dx%d", got.W, got.H, got.C, want.W, want.H, want.C)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("Pix[%d] = %d, want %d", i, got.Pix[i], want.Pix[i])
		}
	}
}
