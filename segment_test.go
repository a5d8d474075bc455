package toonify

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func testSegmentOptions() SegmentOptions {
	opt, err := DefaultConfig().segmentOptions()
	if err != nil {
		panic(err)
	}
	return opt
}

func TestThresholdMask(t *testing.T) {
	g := &Raster{W: 4, H: 1, C: 1, Space: ColorSpaceGray, Pix: []uint8{0, 127, 128, 255}}
	tests := []struct {
		invert bool
		want   []uint8
	}{
		{false, []uint8{0, 0, 255, 255}},
		{true, []uint8{255, 255, 0, 0}},
	}
	for _, tt := range tests {
		m := ThresholdMask(g, 127, tt.invert)
		for i := range tt.want {
			if m.Pix[i] != tt.want[i] {
				t.Errorf("invert=%v: mask[%d] = %d, want %d", tt.invert, i, m.Pix[i], tt.want[i])
			}
		}
	}
}

func TestSegmentPartition(t *testing.T) {
	original := stepImage(30, 20)
	smoothed := noise(30, 20, 13)
	opt := testSegmentOptions()
	opt.SeamSmoothing = false
	seg, err := Segment(smoothed, original, opt)
	if err != nil {
		t.Fatal(err)
	}
	fg, bg := 0, 0
	for i, m := range seg.Mask.Pix {
		off := i * 3
		for c := range 3 {
			f, b, out := seg.Foreground.Pix[off+c], seg.Background.Pix[off+c], seg.Composite.Pix[off+c]
			switch m {
			case 255:
				if b != 0 || f != smoothed.Pix[off+c] || out != f {
					t.Fatalf("pixel %d: foreground pixel also has background contribution", i)
				}
			case 0:
				if f != 0 || out != b {
					t.Fatalf("pixel %d: background pixel also has foreground contribution", i)
				}
			default:
				t.Fatalf("mask[%d] = %d", i, m)
			}
		}
		if m == 255 {
			fg++
		} else {
			bg++
		}
	}
	if fg == 0 || bg == 0 {
		t.Errorf("expected both regions, got fg=%d bg=%d", fg, bg)
	}
	if fg+bg != original.W*original.H {
		t.Errorf("partition covers %d of %d pixels", fg+bg, original.W*original.H)
	}
	if seg.Output != seg.Composite {
		t.Error("Output should be the composite when seam smoothing is off")
	}
}

func TestSegmentFullTintBackground(t *testing.T) {
	original := solid(10, 10, [3]uint8{20, 20, 20})
	opt := testSegmentOptions()
	opt.SeamSmoothing = false
	opt.BlendWeight = 1
	opt.BackgroundBlurSigma = 0
	opt.Background, _ = colorful.Hex("#ff8000")
	seg, err := Segment(original, original, opt)
	if err != nil {
		t.Fatal(err)
	}
	assertSameRaster(t, seg.Composite, solid(10, 10, [3]uint8{255, 128, 0}))
}

func TestSegmentSeamSmoothingKeepsSize(t *testing.T) {
	original := stepImage(16, 12)
	seg, err := Segment(original, original, testSegmentOptions())
	if err != nil {
		t.Fatal(err)
	}
	if seg.Output.W != 16 || seg.Output.H != 12 {
		t.Errorf("Output = %dx%d, want 16x12", seg.Output.W, seg.Output.H)
	}
}

func TestSegmentSizeMismatch(t *testing.T) {
	if _, err := Segment(solid(4, 4, [3]uint8{}), solid(5, 4, [3]uint8{}), testSegmentOptions()); err == nil {
		t.Error("expected error for mismatched inputs")
	}
}
