package toonify

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Stage names an optional pipeline stage.
type Stage string

const (
	StageQuantize Stage = "quantize"
	StageSegment  Stage = "segment"
	StageDistort  Stage = "distort"
)

// Interpolation selects the resampling kernel used by the resizer.
type Interpolation string

const (
	InterpArea       Interpolation = "area"
	InterpNearest    Interpolation = "nearest"
	InterpBilinear   Interpolation = "bilinear"
	InterpCatmullRom Interpolation = "catmullrom"
)

// Compression selects the PNG compression level. All levels are lossless.
type Compression string

const (
	CompressionDefault Compression = "default"
	CompressionNone    Compression = "none"
	CompressionSpeed   Compression = "speed"
	CompressionBest    Compression = "best"
)

// PipelineConfig holds every tunable of the pipeline. It is passed by value
// and never modified by the stages.
type PipelineConfig struct {
	// Longer side of the working raster after resize.
	// Ideal start: 800. Larger values keep detail but cost quadratic time in the smoother.
	MaxDimension int
	// Apply the resize scale even when it enlarges the image.
	// When false, inputs already within MaxDimension are left unchanged.
	Upscale bool
	// Resampling kernel. Area averages source pixels and is the best choice for downscaling.
	Interpolation Interpolation

	// Bilateral neighbourhood diameter. <= 0 derives it from BilateralSigmaSpace.
	// Ideal start: 9. Larger diameters flatten regions more aggressively.
	BilateralDiameter int
	// Colour similarity sigma. High values (~300) let very different colours mix,
	// producing flat cartoon regions.
	BilateralSigmaColor float64
	// Spatial sigma. Ideal start: equal to BilateralSigmaColor.
	BilateralSigmaSpace float64

	// Median kernel before edge detection. Must be odd.
	// Ideal start: 7. Smaller values keep texture noise as spurious edges.
	MedianBlurKernel int
	// Neighbourhood used for the local mean. Must be odd and > 1.
	AdaptiveThresholdBlockSize int
	// Subtracted from the local mean. Higher => fewer, bolder edges.
	AdaptiveThresholdBias float64
	// Flip mask polarity: darker-than-local pixels become 255.
	EdgeInvert bool

	// Palette size for the quantizer.
	QuantizationK int
	// Per channel (R,G,B) offset added to every cluster colour, clipped to [0,255].
	QuantizationChannelBias [3]int
	// Seed for k-means++ initialisation.
	QuantizationSeed uint64
	// Lloyd iteration cap.
	QuantizationMaxIter int
	// Stop when no centre moves further than this (in 0-255 units).
	QuantizationEpsilon float64

	// Append the segment stage when StageOrder does not list it.
	SegmentationEnabled bool
	// Luminance cutoff separating foreground (above) from background.
	SegmentationThreshold int
	// Flip segmentation polarity: foreground is at or below the cutoff.
	SegmentationInvert bool
	// Gaussian sigma applied before thresholding the luminance.
	SegmentationBlurSigma float64
	// Background tint as #rrggbb.
	BackgroundColor string
	// Weight of BackgroundColor against the original image, in [0,1].
	BackgroundBlendWeight float64
	// Gaussian sigma of the background blur. Ideal start: 10-20.
	BackgroundBlurSigma float64
	// Run a light bilateral pass over the composite to hide the seam.
	SeamSmoothing bool

	// Rows per radian of the sine ripple. Must be > 0.
	DistortionWavelength float64
	// Peak horizontal shift in pixels. 0 is the identity.
	DistortionAmplitude float64

	// Optional stages in application order.
	StageOrder []Stage

	// Colour written where the edge mask is 0, as #rrggbb.
	EdgeFill string
	// PNG compression level of the written output.
	Compression Compression
	// Run edge extraction and smoothing concurrently and split row loops
	// across GOMAXPROCS workers.
	Parallel bool
}

func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		MaxDimension:               800,
		Upscale:                    true,
		Interpolation:              InterpArea,
		BilateralDiameter:          9,
		BilateralSigmaColor:        300,
		BilateralSigmaSpace:        300,
		MedianBlurKernel:           7,
		AdaptiveThresholdBlockSize: 9,
		AdaptiveThresholdBias:      9,
		QuantizationK:              8,
		QuantizationChannelBias:    [3]int{0, 20, 0},
		QuantizationSeed:           1,
		QuantizationMaxIter:        20,
		QuantizationEpsilon:        0.001,
		SegmentationThreshold:      127,
		SegmentationBlurSigma:      3,
		BackgroundColor:            "#87ceeb",
		BackgroundBlendWeight:      0.6,
		BackgroundBlurSigma:        15,
		SeamSmoothing:              true,
		DistortionWavelength:       20,
		DistortionAmplitude:        5,
		EdgeFill:                   "#000000",
		Compression:                CompressionDefault,
		Parallel:                   true,
	}
}

// ConfigFromSize scales the filter neighbourhoods with the longer side of
// the input, relative to the 800px defaults.
func ConfigFromSize(size image.Point) PipelineConfig {
	cfg := DefaultConfig()
	if size.X <= 0 || size.Y <= 0 {
		return cfg
	}
	longer := max(size.X, size.Y)
	cfg.MaxDimension = min(longer, 1600)
	f := float64(cfg.MaxDimension) / 800.0
	cfg.BilateralDiameter = oddAtLeast(int(math.Round(9*f)), 5)
	cfg.MedianBlurKernel = oddAtLeast(int(math.Round(7*f)), 3)
	cfg.AdaptiveThresholdBlockSize = oddAtLeast(int(math.Round(9*f)), 3)
	return cfg
}

func oddAtLeast(v, lo int) int {
	v = max(v, lo)
	if v%2 == 0 {
		v++
	}
	return v
}

// Stages returns the optional stages to run, in order.
func (c PipelineConfig) Stages() []Stage {
	out := slices.Clone(c.StageOrder)
	if c.SegmentationEnabled && !slices.Contains(out, StageSegment) {
		out = append(out, StageSegment)
	}
	return out
}

// Validate rejects non-positive sizes, even odd-only kernels and unknown
// names. The returned error wraps ErrInvalidConfig.
func (c PipelineConfig) Validate() error {
	bad := func(format string, args ...any) error {
		return stageErrf(ErrInvalidConfig, "config", format, args...)
	}
	if c.MaxDimension <= 0 {
		return bad("max dimension must be positive, got %d", c.MaxDimension)
	}
	switch c.Interpolation {
	case InterpArea, InterpNearest, InterpBilinear, InterpCatmullRom:
	default:
		return bad("unknown interpolation %q", c.Interpolation)
	}
	if c.BilateralSigmaColor <= 0 || c.BilateralSigmaSpace <= 0 {
		return bad("bilateral sigmas must be positive, got color=%v space=%v", c.BilateralSigmaColor, c.BilateralSigmaSpace)
	}
	if c.MedianBlurKernel <= 0 || c.MedianBlurKernel%2 == 0 {
		return bad("median blur kernel must be a positive odd number, got %d", c.MedianBlurKernel)
	}
	if c.AdaptiveThresholdBlockSize <= 1 || c.AdaptiveThresholdBlockSize%2 == 0 {
		return bad("adaptive threshold block size must be odd and > 1, got %d", c.AdaptiveThresholdBlockSize)
	}
	if _, err := parseHex(c.EdgeFill); err != nil {
		return bad("edge fill: %v", err)
	}
	switch c.Compression {
	case CompressionDefault, CompressionNone, CompressionSpeed, CompressionBest:
	default:
		return bad("unknown compression %q", c.Compression)
	}

	seen := map[Stage]bool{}
	for _, s := range c.Stages() {
		switch s {
		case StageQuantize, StageSegment, StageDistort:
		default:
			return bad("unknown stage %q", s)
		}
		if seen[s] {
			return bad("stage %q listed twice", s)
		}
		seen[s] = true
	}
	if seen[StageQuantize] {
		if c.QuantizationK <= 0 {
			return bad("quantization k must be positive, got %d", c.QuantizationK)
		}
		if c.QuantizationMaxIter <= 0 {
			return bad("quantization max iterations must be positive, got %d", c.QuantizationMaxIter)
		}
		if c.QuantizationEpsilon < 0 {
			return bad("quantization epsilon must not be negative")
		}
	}
	if seen[StageSegment] {
		if c.SegmentationThreshold < 0 || c.SegmentationThreshold > 255 {
			return bad("segmentation threshold must be in [0,255], got %d", c.SegmentationThreshold)
		}
		if c.BackgroundBlendWeight < 0 || c.BackgroundBlendWeight > 1 {
			return bad("background blend weight must be in [0,1], got %v", c.BackgroundBlendWeight)
		}
		if c.SegmentationBlurSigma < 0 || c.BackgroundBlurSigma < 0 {
			return bad("blur sigmas must not be negative")
		}
		if _, err := parseHex(c.BackgroundColor); err != nil {
			return bad("background color: %v", err)
		}
	}
	if seen[StageDistort] {
		if c.DistortionWavelength <= 0 {
			return bad("distortion wavelength must be positive, got %v", c.DistortionWavelength)
		}
		if c.DistortionAmplitude < 0 {
			return bad("distortion amplitude must not be negative, got %v", c.DistortionAmplitude)
		}
	}
	return nil
}

func parseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%q is not a #rrggbb colour", s)
	}
	return c, nil
}

func rgb8(c colorful.Color) [3]uint8 {
	r, g, b := c.Clamped().RGB255()
	return [3]uint8{r, g, b}
}
