package toonify

// Composite keeps the colour raster where mask is 255 and writes fill
// where it is 0. Fill is given in RGB order.
func Composite(color *Raster, mask *EdgeMask, fill [3]uint8) (*Raster, error) {
	if color.Empty() || mask.Empty() {
		return nil, stageErrf(ErrProcessing, "composite", "empty input raster")
	}
	if !color.SameSize(mask) {
		return nil, stageErrf(ErrProcessing, "composite", "mask %dx%d does not match colour %dx%d", mask.W, mask.H, color.W, color.H)
	}
	if mask.C != 1 || color.C != 3 {
		return nil, stageErrf(ErrProcessing, "composite", "want 3 channel colour and 1 channel mask, got %d and %d", color.C, mask.C)
	}
	if color.Space == ColorSpaceBGR {
		fill[0], fill[2] = fill[2], fill[0]
	}
	out := NewRaster(color.W, color.H, color.Space)
	for i, m := range mask.Pix {
		off := i * 3
		if m == 255 {
			copy(out.Pix[off:off+3], color.Pix[off:off+3])
			continue
		}
		copy(out.Pix[off:off+3], fill[:])
	}
	return out, nil
}
