package toonify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func smallConfig() PipelineConfig {
	cfg := DefaultConfig()
	cfg.MaxDimension = 48
	cfg.QuantizationK = 4
	return cfg
}

func TestPipelineOutputSizeForEveryStageCombination(t *testing.T) {
	combos := [][]Stage{
		nil,
		{StageQuantize},
		{StageSegment},
		{StageDistort},
		{StageQuantize, StageSegment},
		{StageSegment, StageQuantize},
		{StageQuantize, StageDistort},
		{StageSegment, StageDistort},
		{StageDistort, StageQuantize, StageSegment},
		{StageQuantize, StageSegment, StageDistort},
	}
	src := noise(90, 60, 18)
	for _, stages := range combos {
		cfg := smallConfig()
		cfg.StageOrder = stages
		p, err := NewPipeline(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Build(src); err != nil {
			t.Fatalf("%v: %v", stages, err)
		}
		if p.Resized.W != 48 || p.Resized.H != 32 {
			t.Fatalf("%v: resized %dx%d, want 48x32", stages, p.Resized.W, p.Resized.H)
		}
		if !p.Output.SameSize(p.Resized) || !p.Edges.SameSize(p.Resized) {
			t.Errorf("%v: output %dx%d, edges %dx%d", stages, p.Output.W, p.Output.H, p.Edges.W, p.Edges.H)
		}
		for i, v := range p.Edges.Pix {
			if v != 0 && v != 255 {
				t.Fatalf("%v: edge[%d] = %d", stages, i, v)
			}
		}
	}
}

func TestPipelineAllBlack(t *testing.T) {
	for _, stages := range [][]Stage{nil, {StageQuantize}, {StageDistort}} {
		cfg := smallConfig()
		cfg.StageOrder = stages
		cfg.QuantizationChannelBias = [3]int{}
		p, err := NewPipeline(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Build(solid(64, 64, [3]uint8{})); err != nil {
			t.Fatal(err)
		}
		for i, v := range p.Edges.Pix {
			if v != 255 {
				t.Fatalf("%v: edge[%d] = %d, want 255", stages, i, v)
			}
		}
		for i, v := range p.Output.Pix {
			if v != 0 {
				t.Fatalf("%v: output[%d] = %d, want 0", stages, i, v)
			}
		}
	}
}

func TestPipelineQuantizeDeterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.StageOrder = []Stage{StageQuantize}
	src := noise(70, 50, 19)
	run := func(parallel bool) *Raster {
		c := cfg
		c.Parallel = parallel
		p, err := NewPipeline(c)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Build(src); err != nil {
			t.Fatal(err)
		}
		return p.Output
	}
	a := run(true)
	assertSameRaster(t, run(true), a)
	assertSameRaster(t, run(false), a)
}

func TestPipelineKeepsIntermediates(t *testing.T) {
	cfg := smallConfig()
	cfg.SegmentationEnabled = true
	cfg.StageOrder = []Stage{StageQuantize}
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Build(stepImage(64, 40)); err != nil {
		t.Fatal(err)
	}
	if p.Quantization == nil || p.Segmentation == nil {
		t.Fatal("expected quantization and segmentation results")
	}
	if p.Color != p.Segmentation.Output {
		t.Error("segment ran last, so Color should be its output")
	}
}

func TestProcessWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	if err := Write(noise(60, 30, 20), in, CompressionSpeed); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "public", "cartoon.png")
	p, err := Process(in, out, smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	got, err := Load(out)
	if err != nil {
		t.Fatal(err)
	}
	assertSameRaster(t, got, p.Output)
}

func TestProcessMissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "public")
	_, err := Process(filepath.Join(dir, "missing.jpg"), filepath.Join(outDir, "out.png"), smallConfig())
	if !errors.Is(err, ErrImageLoad) {
		t.Fatalf("err = %v, want ErrImageLoad", err)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("output directory was created: %v", err)
	}
}

func TestProcessInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.MedianBlurKernel = 4
	_, err := Process("unused.png", "unused-out.png", cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}
