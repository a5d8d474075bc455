package toonify

import (
	"image"
	"math"

	"github.com/disintegration/gift"
)

// EdgeOptions controls ExtractEdges.
type EdgeOptions struct {
	MedianKernel int
	BlockSize    int
	Bias         float64
	Invert       bool
	Parallel     bool
}

func (c PipelineConfig) edgeOptions() EdgeOptions {
	return EdgeOptions{
		MedianKernel: c.MedianBlurKernel,
		BlockSize:    c.AdaptiveThresholdBlockSize,
		Bias:         c.AdaptiveThresholdBias,
		Invert:       c.EdgeInvert,
		Parallel:     c.Parallel,
	}
}

// ExtractEdges converts r to luminance, median-blurs it and binarizes it
// against the local mean. A pixel brighter than (mean - bias) becomes 255,
// anything else (a dark side of a luminance transition) becomes 0.
// Invert swaps the two values.
func ExtractEdges(r *Raster, opt EdgeOptions) (*EdgeMask, error) {
	if r.Empty() {
		return nil, stageErrf(ErrProcessing, "edges", "empty input raster")
	}
	if opt.MedianKernel <= 0 || opt.MedianKernel%2 == 0 {
		return nil, stageErrf(ErrInvalidConfig, "edges", "median kernel must be a positive odd number, got %d", opt.MedianKernel)
	}
	if opt.BlockSize <= 1 || opt.BlockSize%2 == 0 {
		return nil, stageErrf(ErrInvalidConfig, "edges", "block size must be odd and > 1, got %d", opt.BlockSize)
	}
	gray := MedianBlur(r.gray(), opt.MedianKernel)
	return AdaptiveThreshold(gray, opt.BlockSize, opt.Bias, opt.Invert, opt.Parallel), nil
}

// MedianBlur replaces each sample of a gray raster with the median of its
// ksize x ksize neighbourhood.
func MedianBlur(gray *Raster, ksize int) *Raster {
	if ksize <= 1 {
		return gray.Clone()
	}
	src := gray.Image()
	g := gift.New(gift.Median(ksize, false))
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return grayFromImage(dst)
}

// AdaptiveThreshold binarizes a gray raster against the rounded mean of a
// block x block window with replicated borders.
func AdaptiveThreshold(gray *Raster, block int, bias float64, invert, parallel bool) *EdgeMask {
	w, h := gray.W, gray.H
	half := block / 2
	area := block * block

	// Horizontal window sums.
	rowSum := make([]int, w*h)
	forRows(h, parallel, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			line := gray.Pix[y*w : (y+1)*w]
			for x := range w {
				s := 0
				for dx := -half; dx <= half; dx++ {
					s += int(line[clampInt(x+dx, 0, w-1)])
				}
				rowSum[y*w+x] = s
			}
		}
	})

	// Binary keeps src - mean > -ceil(bias); inverted keeps src - mean <= -floor(bias).
	delta := int(math.Ceil(bias))
	if invert {
		delta = int(math.Floor(bias))
	}

	mask := NewRaster(w, h, ColorSpaceGray)
	forRows(h, parallel, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range w {
				s := 0
				for dy := -half; dy <= half; dy++ {
					s += rowSum[clampInt(y+dy, 0, h-1)*w+x]
				}
				mean := (s + area/2) / area
				d := int(gray.Pix[y*w+x]) - mean
				on := d > -delta
				if invert {
					on = d <= -delta
				}
				if on {
					mask.Pix[y*w+x] = 255
				}
			}
		}
	})
	return mask
}
