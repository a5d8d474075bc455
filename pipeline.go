package toonify

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// Pipeline runs every stage over one image and keeps the intermediates.
type Pipeline struct {
	Config       PipelineConfig
	Input        *Raster
	Resized      *Raster
	Edges        *EdgeMask
	Smoothed     *Raster
	Quantization *PaletteQuantization // nil unless the quantize stage ran
	Segmentation *Segmentation        // nil unless the segment stage ran
	Color        *Raster              // colour branch after the optional stages
	Output       *Raster
}

// NewPipeline validates cfg and returns an empty pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{Config: cfg}, nil
}

// Build runs resize, the edge and smoothing branches, the optional stages
// in configured order and the final composite. The first failing stage
// aborts the run.
func (p *Pipeline) Build(input *Raster) error {
	cfg := p.Config
	log := Logger()
	p.Input = input

	start := time.Now()
	resized, err := Resize(input, cfg.MaxDimension, cfg.Upscale, cfg.Interpolation)
	if err != nil {
		return err
	}
	p.Resized = resized
	log.Debug("resize", "from", [2]int{input.W, input.H}, "to", [2]int{resized.W, resized.H}, "elapsed", time.Since(start))

	// The two branches only read the resized raster.
	var g errgroup.Group
	if !cfg.Parallel {
		g.SetLimit(1)
	}
	g.Go(func() error {
		t := time.Now()
		edges, err := ExtractEdges(resized, cfg.edgeOptions())
		if err != nil {
			return err
		}
		p.Edges = edges
		log.Debug("edges", "elapsed", time.Since(t))
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		smoothed, err := Bilateral(resized, cfg.bilateralOptions())
		if err != nil {
			return err
		}
		p.Smoothed = smoothed
		log.Debug("smooth", "elapsed", time.Since(t))
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	color := p.Smoothed
	for _, s := range cfg.Stages() {
		t := time.Now()
		switch s {
		case StageQuantize:
			out, q, err := Quantize(color, cfg.quantizeOptions())
			if err != nil {
				return err
			}
			color, p.Quantization = out, q
		case StageSegment:
			opt, err := cfg.segmentOptions()
			if err != nil {
				return err
			}
			seg, err := Segment(color, resized, opt)
			if err != nil {
				return err
			}
			color, p.Segmentation = seg.Output, seg
		case StageDistort:
			out, err := Distort(color, cfg.DistortionWavelength, cfg.DistortionAmplitude, cfg.Parallel)
			if err != nil {
				return err
			}
			color = out
		default:
			return stageErrf(ErrInvalidConfig, "pipeline", "unknown stage %q", s)
		}
		log.Debug(string(s), "elapsed", time.Since(t))
	}
	p.Color = color

	fill, err := parseHex(cfg.EdgeFill)
	if err != nil {
		return stageErr(ErrInvalidConfig, "composite", err)
	}
	out, err := Composite(color, p.Edges, rgb8(fill))
	if err != nil {
		return err
	}
	p.Output = out
	log.Info("cartoonized", "width", out.W, "height", out.H, "stages", cfg.Stages(), "elapsed", time.Since(start))
	return nil
}

// Process loads inPath, runs the pipeline and writes the PNG result to
// outPath. Nothing is written unless every stage succeeds.
func Process(inPath, outPath string, cfg PipelineConfig) (*Pipeline, error) {
	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	input, err := Load(inPath)
	if err != nil {
		return nil, err
	}
	if err := p.Build(input); err != nil {
		return nil, err
	}
	if err := Write(p.Output, outPath, cfg.Compression); err != nil {
		return nil, err
	}
	return p, nil
}
