package toonify

import "testing"

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-3, 1, 0},
		{-3, 2, 1},
	}
	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestSpatialWeightsDisc(t *testing.T) {
	w := spatialWeights(2, 3)
	r, c := w.Dims()
	if r != 5 || c != 5 {
		t.Fatalf("dims = %dx%d, want 5x5", r, c)
	}
	if w.At(2, 2) != 1 {
		t.Errorf("centre = %v, want 1", w.At(2, 2))
	}
	if w.At(0, 0) != 0 {
		t.Errorf("corner outside disc = %v, want 0", w.At(0, 0))
	}
	if w.At(0, 2) <= 0 || w.At(0, 2) >= 1 {
		t.Errorf("edge of disc = %v, want in (0,1)", w.At(0, 2))
	}
}

func TestBilateralUniformIsIdentity(t *testing.T) {
	src := solid(12, 9, [3]uint8{33, 66, 99})
	out, err := Bilateral(src, DefaultConfig().bilateralOptions())
	if err != nil {
		t.Fatal(err)
	}
	assertSameRaster(t, out, src)
}

func TestBilateralPreservesStrongEdge(t *testing.T) {
	src := stepImage(20, 6)
	out, err := Bilateral(src, BilateralOptions{Diameter: 9, SigmaColor: 10, SigmaSpace: 10})
	if err != nil {
		t.Fatal(err)
	}
	assertSameRaster(t, out, src)
}

func TestBilateralSmoothsWithLargeSigma(t *testing.T) {
	src := stepImage(20, 6)
	out, err := Bilateral(src, BilateralOptions{Diameter: 9, SigmaColor: 300, SigmaSpace: 300})
	if err != nil {
		t.Fatal(err)
	}
	v := out.Pix[out.offset(9, 3)]
	if v == 0 || v == 200 {
		t.Errorf("pixel next to the step = %d, want a blend", v)
	}
}

func TestBilateralDeterministic(t *testing.T) {
	src := noise(25, 17, 7)
	opt := DefaultConfig().bilateralOptions()
	a, _ := Bilateral(src, opt)
	opt.Parallel = false
	b, _ := Bilateral(src, opt)
	assertSameRaster(t, b, a)
	if a.W != src.W || a.H != src.H {
		t.Errorf("size = %dx%d, want %dx%d", a.W, a.H, src.W, src.H)
	}
}

func TestBilateralDerivedDiameter(t *testing.T) {
	src := noise(8, 8, 8)
	if _, err := Bilateral(src, BilateralOptions{Diameter: 0, SigmaColor: 20, SigmaSpace: 2}); err != nil {
		t.Fatal(err)
	}
}
