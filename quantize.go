package toonify

import (
	"math"
	"math/rand/v2"

	"github.com/muesli/clusters"
	"gonum.org/v1/gonum/floats"
)

// QuantizeOptions controls Quantize.
type QuantizeOptions struct {
	K           int
	ChannelBias [3]int
	Seed        uint64
	MaxIter     int
	Epsilon     float64
	Parallel    bool
}

func (c PipelineConfig) quantizeOptions() QuantizeOptions {
	return QuantizeOptions{
		K:           c.QuantizationK,
		ChannelBias: c.QuantizationChannelBias,
		Seed:        c.QuantizationSeed,
		MaxIter:     c.QuantizationMaxIter,
		Epsilon:     c.QuantizationEpsilon,
		Parallel:    c.Parallel,
	}
}

// PaletteQuantization is the result of clustering a raster's colours.
type PaletteQuantization struct {
	// Cluster centres, rounded to 8 bits.
	Centers [][3]uint8
	// Centres after the channel bias, clipped to [0,255]. Used for output.
	Palette [][3]uint8
	// Per pixel index into Centers, row-major. Every label is in [0, len(Centers)).
	Labels []int
	// Lloyd iterations performed.
	Iterations int
}

// Raster paints every pixel with its biased cluster colour.
func (q *PaletteQuantization) Raster(w, h int, space ColorSpace) *Raster {
	out := NewRaster(w, h, space)
	for i, l := range q.Labels {
		c := q.Palette[l]
		copy(out.Pix[i*3:i*3+3], c[:])
	}
	return out
}

// Quantize clusters the colours of r into at most opt.K centres with
// seeded k-means++ initialisation followed by Lloyd iterations. Centres are
// fitted on at most maxFitSamples evenly spaced pixels, then every pixel is
// assigned to its nearest centre. The same input and seed always give the
// same result. ChannelBias is in R,G,B order whatever the raster's space.
func Quantize(r *Raster, opt QuantizeOptions) (*Raster, *PaletteQuantization, error) {
	if r.Empty() {
		return nil, nil, stageErrf(ErrProcessing, "quantize", "empty input raster")
	}
	if r.C != 3 {
		return nil, nil, stageErrf(ErrProcessing, "quantize", "need a 3 channel raster, got %d", r.C)
	}
	if opt.K <= 0 || opt.MaxIter <= 0 {
		return nil, nil, stageErrf(ErrInvalidConfig, "quantize", "k and max iterations must be positive (k=%d, iter=%d)", opt.K, opt.MaxIter)
	}

	n := r.W * r.H
	sample := fitSample(r)
	k := min(opt.K, len(sample))

	rng := rand.New(rand.NewPCG(opt.Seed, opt.Seed^0x9e3779b97f4a7c15))
	cc := seedCenters(sample, k, rng)

	sampleLabels := make([]int, len(sample))
	prev := make([]clusters.Coordinates, k)
	iters := 0
	for iters < opt.MaxIter {
		iters++
		forRows(len(sample), opt.Parallel, func(i0, i1 int) {
			for i := i0; i < i1; i++ {
				sampleLabels[i] = cc.Nearest(sample[i])
			}
		})
		cc.Reset()
		for i, l := range sampleLabels {
			cc[l].Append(sample[i])
		}
		for i := range cc {
			prev[i] = cc[i].Center
		}
		cc.Recenter()

		shift := 0.0
		for i := range cc {
			shift = max(shift, floats.Distance(prev[i], cc[i].Center, 2))
		}
		if shift <= opt.Epsilon {
			break
		}
	}

	// Every pixel is labelled against the final centres.
	labels := make([]int, n)
	forRows(n, opt.Parallel, func(i0, i1 int) {
		p := make(clusters.Coordinates, 3)
		for i := i0; i < i1; i++ {
			off := i * 3
			p[0], p[1], p[2] = float64(r.Pix[off]), float64(r.Pix[off+1]), float64(r.Pix[off+2])
			labels[i] = cc.Nearest(p)
		}
	})

	bias := opt.ChannelBias
	if r.Space == ColorSpaceBGR {
		bias[0], bias[2] = bias[2], bias[0]
	}
	q := &PaletteQuantization{
		Centers:    make([][3]uint8, k),
		Palette:    make([][3]uint8, k),
		Labels:     labels,
		Iterations: iters,
	}
	for i, c := range cc {
		for ch := range 3 {
			v := math.Round(c.Center[ch])
			q.Centers[i][ch] = clampUint8(v)
			q.Palette[i][ch] = clampUint8(v + float64(bias[ch]))
		}
	}
	Logger().Debug("quantize", "k", k, "iterations", iters)
	return q.Raster(r.W, r.H, r.Space), q, nil
}

// maxFitSamples caps the pixels the centres are fitted on. Larger rasters
// are sampled at an even stride, so the fit stays deterministic.
const maxFitSamples = 1 << 14

func fitSample(r *Raster) clusters.Observations {
	n := r.W * r.H
	m := min(n, maxFitSamples)
	out := make(clusters.Observations, m)
	for j := range m {
		off := (j * n / m) * 3
		out[j] = clusters.Coordinates{
			float64(r.Pix[off]),
			float64(r.Pix[off+1]),
			float64(r.Pix[off+2]),
		}
	}
	return out
}

// seedCenters picks k initial centres with k-means++: each next centre is
// drawn with probability proportional to its squared distance from the
// nearest centre chosen so far.
func seedCenters(dataset clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	n := len(dataset)
	cc := make(clusters.Clusters, 0, k)
	pick := func(i int) {
		c := dataset[i].Coordinates()
		center := make(clusters.Coordinates, len(c))
		copy(center, c)
		cc = append(cc, clusters.Cluster{Center: center})
	}

	pick(rng.IntN(n))
	dist := make([]float64, n)
	for i := range dataset {
		dist[i] = dataset[i].Distance(cc[0].Center)
	}
	for len(cc) < k {
		total := floats.Sum(dist)
		var next int
		if total == 0 {
			next = rng.IntN(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = n - 1
			for i, d := range dist {
				acc += d
				if acc > target {
					next = i
					break
				}
			}
		}
		pick(next)
		last := cc[len(cc)-1].Center
		for i := range dataset {
			dist[i] = min(dist[i], dataset[i].Distance(last))
		}
	}
	return cc
}
