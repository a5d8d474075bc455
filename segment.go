package toonify

import (
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// SegmentOptions controls Segment.
type SegmentOptions struct {
	// Foreground is luminance > Threshold (or <= Threshold when Invert is set).
	Threshold int
	Invert    bool
	// Gaussian sigma applied to the image before taking luminance.
	BlurSigma float64
	// Background tint, blended with weight BlendWeight over the original.
	Background  colorful.Color
	BlendWeight float64
	// Gaussian sigma of the stylized background.
	BackgroundBlurSigma float64
	// Light bilateral pass over the composite.
	SeamSmoothing bool
	Parallel      bool
}

func (c PipelineConfig) segmentOptions() (SegmentOptions, error) {
	bg, err := parseHex(c.BackgroundColor)
	if err != nil {
		return SegmentOptions{}, stageErr(ErrInvalidConfig, "segment", err)
	}
	return SegmentOptions{
		Threshold:           c.SegmentationThreshold,
		Invert:              c.SegmentationInvert,
		BlurSigma:           c.SegmentationBlurSigma,
		Background:          bg,
		BlendWeight:         c.BackgroundBlendWeight,
		BackgroundBlurSigma: c.BackgroundBlurSigma,
		SeamSmoothing:       c.SeamSmoothing,
		Parallel:            c.Parallel,
	}, nil
}

// Segmentation holds every intermediate of Segment.
type Segmentation struct {
	// 255 marks foreground, 0 background.
	Mask *Raster
	// Smoothed colour inside the mask, zero elsewhere.
	Foreground *Raster
	// Stylized background outside the mask, zero elsewhere.
	Background *Raster
	// Foreground + Background; each pixel comes from exactly one of them.
	Composite *Raster
	// Composite after the optional seam pass.
	Output *Raster
}

// Segment splits original into foreground and background by blurred
// luminance, keeps the smoothed colour in the foreground and replaces the
// background with a tinted, heavily blurred copy of the original.
func Segment(smoothed, original *Raster, opt SegmentOptions) (*Segmentation, error) {
	if smoothed.Empty() || original.Empty() {
		return nil, stageErrf(ErrProcessing, "segment", "empty input raster")
	}
	if !smoothed.SameSize(original) || smoothed.C != 3 || original.C != 3 {
		return nil, stageErrf(ErrProcessing, "segment", "inputs differ: %dx%dx%d vs %dx%dx%d",
			smoothed.W, smoothed.H, smoothed.C, original.W, original.H, original.C)
	}
	if opt.BlendWeight < 0 || opt.BlendWeight > 1 {
		return nil, stageErrf(ErrInvalidConfig, "segment", "blend weight must be in [0,1], got %v", opt.BlendWeight)
	}
	w, h := original.W, original.H

	mask := ThresholdMask(blurRaster(original, opt.BlurSigma).gray(), opt.Threshold, opt.Invert)

	tint := rgb8(opt.Background)
	if original.Space == ColorSpaceBGR {
		tint[0], tint[2] = tint[2], tint[0]
	}
	tc := colorful.Color{R: float64(tint[0]) / 255, G: float64(tint[1]) / 255, B: float64(tint[2]) / 255}
	tinted := NewRaster(w, h, original.Space)
	forRows(h, opt.Parallel, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			off := i * 3
			c := colorful.Color{
				R: float64(original.Pix[off]) / 255,
				G: float64(original.Pix[off+1]) / 255,
				B: float64(original.Pix[off+2]) / 255,
			}
			m := c.BlendRgb(tc, opt.BlendWeight)
			tinted.Pix[off] = clampUint8(m.R * 255)
			tinted.Pix[off+1] = clampUint8(m.G * 255)
			tinted.Pix[off+2] = clampUint8(m.B * 255)
		}
	})
	styled := blurRaster(tinted, opt.BackgroundBlurSigma)

	seg := &Segmentation{
		Mask:       mask,
		Foreground: NewRaster(w, h, original.Space),
		Background: NewRaster(w, h, original.Space),
		Composite:  NewRaster(w, h, original.Space),
	}
	forRows(h, opt.Parallel, func(y0, y1 int) {
		for i := y0 * w; i < y1*w; i++ {
			off := i * 3
			if mask.Pix[i] == 255 {
				copy(seg.Foreground.Pix[off:off+3], smoothed.Pix[off:off+3])
			} else {
				copy(seg.Background.Pix[off:off+3], styled.Pix[off:off+3])
			}
			for c := range 3 {
				seg.Composite.Pix[off+c] = seg.Foreground.Pix[off+c] + seg.Background.Pix[off+c]
			}
		}
	})

	seg.Output = seg.Composite
	if opt.SeamSmoothing {
		out, err := Bilateral(seg.Composite, BilateralOptions{Diameter: 5, SigmaColor: 50, SigmaSpace: 50, Parallel: opt.Parallel})
		if err != nil {
			return nil, err
		}
		seg.Output = out
	}
	return seg, nil
}

// ThresholdMask marks gray samples above cutoff with 255 (or at/below it
// when invert is set).
func ThresholdMask(gray *Raster, cutoff int, invert bool) *Raster {
	mask := NewRaster(gray.W, gray.H, ColorSpaceGray)
	for i, v := range gray.Pix {
		if (int(v) > cutoff) != invert {
			mask.Pix[i] = 255
		}
	}
	return mask
}

// blurRaster applies a gaussian blur, keeping r's colour space.
func blurRaster(r *Raster, sigma float64) *Raster {
	if sigma <= 0 {
		return r.Clone()
	}
	out := FromImage(imaging.Blur(r.Image(), sigma))
	if r.Space != ColorSpaceRGB {
		out, _ = out.Convert(r.Space)
	}
	return out
}
