package toonify

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BilateralOptions controls Bilateral.
type BilateralOptions struct {
	// Neighbourhood diameter. <= 0 derives it as 2*round(1.5*SigmaSpace)+1.
	Diameter   int
	SigmaColor float64
	SigmaSpace float64
	Parallel   bool
}

func (c PipelineConfig) bilateralOptions() BilateralOptions {
	return BilateralOptions{
		Diameter:   c.BilateralDiameter,
		SigmaColor: c.BilateralSigmaColor,
		SigmaSpace: c.BilateralSigmaSpace,
		Parallel:   c.Parallel,
	}
}

// spatialWeights returns a (2r+1)x(2r+1) gaussian table over a disc of radius r.
// Entries outside the disc are zero and skipped by the filter.
func spatialWeights(radius int, sigma float64) *mat.Dense {
	d := 2*radius + 1
	coeff := -0.5 / (sigma * sigma)
	w := mat.NewDense(d, d, nil)
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			r := math.Sqrt(float64(i*i + j*j))
			if r > float64(radius) {
				continue
			}
			w.Set(i+radius, j+radius, math.Exp(r*r*coeff))
		}
	}
	return w
}

// reflect101 mirrors an out of range index without repeating the edge sample.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*(n-1) - i
		}
	}
	return i
}

// Bilateral applies an edge-preserving bilateral filter. Every output sample
// is the average of its disc neighbourhood weighted by spatial distance and
// by the L1 colour distance across channels. Deterministic.
func Bilateral(r *Raster, opt BilateralOptions) (*Raster, error) {
	if r.Empty() {
		return nil, stageErrf(ErrProcessing, "smooth", "empty input raster")
	}
	sc, ss := opt.SigmaColor, opt.SigmaSpace
	if sc <= 0 {
		sc = 1
	}
	if ss <= 0 {
		ss = 1
	}
	radius := opt.Diameter / 2
	if opt.Diameter <= 0 {
		radius = int(math.Round(ss * 1.5))
	}
	radius = max(radius, 1)

	cn := r.C
	colorCoeff := -0.5 / (sc * sc)
	colorW := make([]float64, 256*cn)
	for i := range colorW {
		colorW[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	type tap struct {
		dx, dy int
		w      float64
	}
	space := spatialWeights(radius, ss)
	d, _ := space.Dims()
	taps := make([]tap, 0, d*d)
	for i := range d {
		for j := range d {
			if w := space.At(i, j); w > 0 {
				taps = append(taps, tap{dx: j - radius, dy: i - radius, w: w})
			}
		}
	}

	out := NewRaster(r.W, r.H, r.Space)
	w, h := r.W, r.H
	forRows(h, opt.Parallel, func(y0, y1 int) {
		sum := make([]float64, cn)
		for y := y0; y < y1; y++ {
			for x := range w {
				center := r.Pix[(y*w+x)*cn : (y*w+x)*cn+cn]
				for c := range sum {
					sum[c] = 0
				}
				wsum := 0.0
				for _, t := range taps {
					ny := reflect101(y+t.dy, h)
					nx := reflect101(x+t.dx, w)
					px := r.Pix[(ny*w+nx)*cn : (ny*w+nx)*cn+cn]
					diff := 0
					for c := range cn {
						v := int(px[c]) - int(center[c])
						if v < 0 {
							v = -v
						}
						diff += v
					}
					wt := t.w * colorW[diff]
					for c := range cn {
						sum[c] += wt * float64(px[c])
					}
					wsum += wt
				}
				off := (y*w + x) * cn
				for c := range cn {
					out.Pix[off+c] = clampUint8(sum[c] / wsum)
				}
			}
		}
	})
	return out, nil
}
