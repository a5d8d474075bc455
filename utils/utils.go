// Package utils extracts representative palettes from images and renders
// them as swatches.
package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/setanarut/toonify"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts "dominant", "dominantcolor" or "kmeans".
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "dominant", "dominantcolor":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q (want dominant or kmeans)", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// luminance is the relative luminance of c in linear RGB.
func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks k colours, starting from the heaviest and
// then maximising Lab distance to the picked set scaled by weight.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))

	maxW := 0.0
	seed := 0
	for i, c := range cands {
		if c.Weight > maxW {
			maxW = c.Weight
			seed = i
		}
	}
	picked := []int{seed}
	taken := make([]bool, len(cands))
	taken[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if taken[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				nearest = min(nearest, c.Col.DistanceLab(cands[p].Col))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(c.Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		taken[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, p := range picked {
		out[i] = cands[p].Col
	}
	return out
}

// kmeansSamples caps the pixels handed to kmeans.
const kmeansSamples = 4096

// ExtractKMeansPalette clusters evenly spaced pixels of r into 3k groups and
// keeps the k most distinct centres. Unlike the pipeline's quantizer it is
// not seeded, so repeated calls may differ slightly.
func ExtractKMeansPalette(r *toonify.Raster, k int) ([]colorful.Color, error) {
	if k <= 0 {
		return nil, nil
	}
	if r.Empty() {
		return nil, errors.New("empty raster")
	}
	if r.Space != toonify.ColorSpaceRGB {
		r = toonify.FromImage(r.Image())
	}

	n := r.W * r.H
	m := min(n, kmeansSamples)
	dataset := make(clusters.Observations, m)
	for j := range m {
		off := (j * n / m) * r.C
		dataset[j] = clusters.Coordinates{
			float64(r.Pix[off]) / 255,
			float64(r.Pix[off+1]) / 255,
			float64(r.Pix[off+2]) / 255,
		}
	}

	cc, err := kmeans.New().Partition(dataset, min(3*k, m))
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}
	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k), nil
}

// ExtractPalette returns up to k colours of r. The kmeans method falls back
// to dominant colours when clustering fails.
func ExtractPalette(r *toonify.Raster, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		p, err := ExtractKMeansPalette(r, k)
		if err == nil && len(p) != 0 {
			return p
		}
		toonify.Logger().Warn("kmeans palette failed, falling back to dominantcolor", "err", err)
	}
	return ExtractDominantPalette(r.Image(), k)
}

// PaletteRaster lays the palette out as square tiles of tileSize pixels.
func PaletteRaster(palette []colorful.Color, tileSize int) (*toonify.Raster, error) {
	if len(palette) == 0 {
		return nil, errors.New("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	out := toonify.NewRaster(tileSize*len(palette), tileSize, toonify.ColorSpaceRGB)
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		for y := range tileSize {
			for x := i * tileSize; x < (i+1)*tileSize; x++ {
				off := (y*out.W + x) * 3
				out.Pix[off], out.Pix[off+1], out.Pix[off+2] = r, g, b
			}
		}
	}
	return out, nil
}

// SavePalette writes the palette swatch as PNG.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	r, err := PaletteRaster(palette, tileSize)
	if err != nil {
		return err
	}
	return toonify.Write(r, filename, toonify.CompressionDefault)
}

// Hex formats each palette entry as #rrggbb.
func Hex(palette []colorful.Color) []string {
	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = c.Clamped().Hex()
	}
	return out
}
