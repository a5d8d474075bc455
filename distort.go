package toonify

import "math"

// RowShift returns the horizontal displacement of row y.
func RowShift(y int, wavelength, amplitude float64) int {
	return int(math.Round(amplitude * math.Sin(float64(y)/wavelength)))
}

// Distort rotates every row y to the right by RowShift(y), wrapping around.
// Only positions change, never sample values.
func Distort(r *Raster, wavelength, amplitude float64, parallel bool) (*Raster, error) {
	if r.Empty() {
		return nil, stageErrf(ErrProcessing, "distort", "empty input raster")
	}
	if wavelength <= 0 || amplitude < 0 {
		return nil, stageErrf(ErrInvalidConfig, "distort", "wavelength must be positive and amplitude non-negative (%v, %v)", wavelength, amplitude)
	}
	out := NewRaster(r.W, r.H, r.Space)
	rowLen := r.W * r.C
	forRows(r.H, parallel, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			src := r.Pix[y*rowLen : (y+1)*rowLen]
			dst := out.Pix[y*rowLen : (y+1)*rowLen]
			s := RowShift(y, wavelength, amplitude) % r.W
			if s < 0 {
				s += r.W
			}
			cut := (r.W - s) * r.C
			// dst[x] = src[x-s]
			copy(dst, src[cut:])
			copy(dst[len(src)-cut:], src[:cut])
		}
	})
	return out, nil
}
