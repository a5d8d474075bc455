package toonify

import (
	"image"
	"image/color"
	"testing"
)

func TestLuma(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 76},
		{0, 255, 0, 150},
		{0, 0, 255, 29},
	}
	for _, tt := range tests {
		if got := luma(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("luma(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestConvertBGRRoundTrip(t *testing.T) {
	src := noise(7, 5, 1)
	bgr, err := src.Convert(ColorSpaceBGR)
	if err != nil {
		t.Fatal(err)
	}
	if bgr.Pix[0] != src.Pix[2] || bgr.Pix[2] != src.Pix[0] {
		t.Errorf("BGR did not swap channels: %v vs %v", bgr.Pix[:3], src.Pix[:3])
	}
	back, err := bgr.Convert(ColorSpaceRGB)
	if err != nil {
		t.Fatal(err)
	}
	assertSameRaster(t, back, src)

	g1, _ := src.Convert(ColorSpaceGray)
	g2, _ := bgr.Convert(ColorSpaceGray)
	assertSameRaster(t, g2, g1)
}

func TestConvertGrayToRGBFails(t *testing.T) {
	g := NewRaster(2, 2, ColorSpaceGray)
	if _, err := g.Convert(ColorSpaceRGB); err == nil {
		t.Error("expected error converting gray to rgb")
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := noise(9, 4, 2)
	assertSameRaster(t, FromImage(src.Image()), src)
}

func TestFromImageSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	r := FromImage(sub)
	if r.W != 2 || r.H != 2 {
		t.Fatalf("size = %dx%d, want 2x2", r.W, r.H)
	}
	if got := r.Pix[:3]; got[0] != 10 || got[1] != 20 || got[2] != 30 {
		t.Errorf("first pixel = %v, want [10 20 30]", got)
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Pix[1] = 99
	r := FromImage(img)
	if r.C != 3 || r.Pix[3] != 99 || r.Pix[5] != 99 {
		t.Errorf("gray not expanded: %v", r.Pix)
	}
}
