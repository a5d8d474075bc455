package toonify

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// ResizedSize returns the dimensions Resize would produce for a w x h input.
// The longer side becomes maxDim; the other keeps the aspect ratio.
func ResizedSize(w, h, maxDim int, upscale bool) (int, int) {
	scale := float64(maxDim) / float64(max(w, h))
	if scale >= 1 && !upscale {
		return w, h
	}
	return int(math.Round(float64(w) * scale)), int(math.Round(float64(h) * scale))
}

// Resize scales r so that its longer side equals maxDim.
func Resize(r *Raster, maxDim int, upscale bool, interp Interpolation) (*Raster, error) {
	if r.Empty() {
		return nil, stageErrf(ErrProcessing, "resize", "empty input raster")
	}
	if maxDim <= 0 {
		return nil, stageErrf(ErrInvalidConfig, "resize", "max dimension must be positive, got %d", maxDim)
	}
	nw, nh := ResizedSize(r.W, r.H, maxDim, upscale)
	if nw <= 0 || nh <= 0 {
		return nil, stageErrf(ErrProcessing, "resize", "%dx%d scales to empty %dx%d", r.W, r.H, nw, nh)
	}
	if nw == r.W && nh == r.H {
		return r.Clone(), nil
	}

	src := r.Image()
	var dst *image.NRGBA
	switch interp {
	case InterpNearest:
		dst = scaleWith(xdraw.NearestNeighbor, src, nw, nh)
	case InterpBilinear:
		dst = scaleWith(xdraw.BiLinear, src, nw, nh)
	case InterpCatmullRom:
		dst = scaleWith(xdraw.CatmullRom, src, nw, nh)
	default:
		// Box averages every covered source pixel when shrinking.
		dst = imaging.Resize(src, nw, nh, imaging.Box)
	}
	out := FromImage(dst)
	if r.Space != ColorSpaceRGB {
		return out.Convert(r.Space)
	}
	return out, nil
}

func scaleWith(s xdraw.Scaler, src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
