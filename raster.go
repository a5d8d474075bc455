package toonify

import (
	"fmt"
	"image"
	"image/color"
)

// ColorSpace tags the channel layout of a Raster.
type ColorSpace int

const (
	ColorSpaceRGB ColorSpace = iota
	ColorSpaceGray
	ColorSpaceBGR
)

func (s ColorSpace) String() string {
	switch s {
	case ColorSpaceGray:
		return "gray"
	case ColorSpaceBGR:
		return "bgr"
	default:
		return "rgb"
	}
}

func (s ColorSpace) channels() int {
	if s == ColorSpaceGray {
		return 1
	}
	return 3
}

// Raster is a dense, row-major, interleaved 8-bit pixel buffer.
// A stage never mutates a Raster after handing it downstream.
type Raster struct {
	W, H  int
	C     int // 3 for RGB/BGR, 1 for Gray
	Space ColorSpace
	Pix   []uint8 // len = W*H*C
}

// EdgeMask is a single channel Raster whose samples are 0 or 255.
type EdgeMask = Raster

// NewRaster allocates a zeroed raster in the given color space.
func NewRaster(w, h int, space ColorSpace) *Raster {
	c := space.channels()
	return &Raster{
		W:     w,
		H:     h,
		C:     c,
		Space: space,
		Pix:   make([]uint8, w*h*c),
	}
}

func (r *Raster) offset(x, y int) int {
	return (y*r.W + x) * r.C
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return r == nil || r.W <= 0 || r.H <= 0
}

// SameSize reports whether r and o have identical width and height.
func (r *Raster) SameSize(o *Raster) bool {
	return r.W == o.W && r.H == o.H
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := *r
	out.Pix = make([]uint8, len(r.Pix))
	copy(out.Pix, r.Pix)
	return &out
}

// Convert returns a copy of r in the requested color space.
// Gray rasters can only be converted to themselves.
func (r *Raster) Convert(space ColorSpace) (*Raster, error) {
	if r.Space == space {
		return r.Clone(), nil
	}
	if r.Space == ColorSpaceGray {
		return nil, fmt.Errorf("cannot convert %s raster to %s", r.Space, space)
	}
	out := NewRaster(r.W, r.H, space)
	n := r.W * r.H
	for i := range n {
		off := i * 3
		c0, c1, c2 := r.Pix[off], r.Pix[off+1], r.Pix[off+2]
		switch space {
		case ColorSpaceGray:
			if r.Space == ColorSpaceBGR {
				c0, c2 = c2, c0
			}
			out.Pix[i] = luma(c0, c1, c2)
		default:
			// RGB <-> BGR is the same swap both ways.
			out.Pix[off], out.Pix[off+1], out.Pix[off+2] = c2, c1, c0
		}
	}
	return out, nil
}

// luma is the fixed-point Rec.601 luminance 0.299R + 0.587G + 0.114B.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*4899 + uint32(g)*9617 + uint32(b)*1868 + 8192) >> 14)
}

// FromImage copies any image.Image into an RGB raster, dropping alpha.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewRaster(w, h, ColorSpaceRGB)
	switch src := img.(type) {
	case *image.NRGBA:
		for y := range h {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range w {
				off := out.offset(x, y)
				copy(out.Pix[off:off+3], row[x*4:x*4+3])
			}
		}
		return out
	case *image.Gray:
		for y := range h {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range w {
				v := row[x]
				off := out.offset(x, y)
				out.Pix[off], out.Pix[off+1], out.Pix[off+2] = v, v, v
			}
		}
		return out
	}
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := out.offset(x, y)
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
		}
	}
	return out
}

// Image exposes the raster as an *image.Gray (gray) or opaque *image.NRGBA.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.W, r.H)
	if r.Space == ColorSpaceGray {
		g := image.NewGray(rect)
		copy(g.Pix, r.Pix)
		return g
	}
	img := image.NewNRGBA(rect)
	n := r.W * r.H
	for i := range n {
		off := i * 3
		c0, c1, c2 := r.Pix[off], r.Pix[off+1], r.Pix[off+2]
		if r.Space == ColorSpaceBGR {
			c0, c2 = c2, c0
		}
		img.Pix[i*4] = c0
		img.Pix[i*4+1] = c1
		img.Pix[i*4+2] = c2
		img.Pix[i*4+3] = 255
	}
	return img
}

// gray returns the luminance plane of an RGB raster.
func (r *Raster) gray() *Raster {
	if r.Space == ColorSpaceGray {
		return r.Clone()
	}
	g, _ := r.Convert(ColorSpaceGray)
	return g
}

func grayFromImage(img *image.Gray) *Raster {
	b := img.Bounds()
	out := NewRaster(b.Dx(), b.Dy(), ColorSpaceGray)
	for y := range out.H {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.W:(y+1)*out.W], img.Pix[start:start+out.W])
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
