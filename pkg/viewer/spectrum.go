package viewer

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/spectral"
)

// A SpectralPoint is one channel's reading at a pixel, placed on the
// wavelength axis.
type SpectralPoint struct {
	spectral.Resolution
	Value16 uint16
	Value8  uint8
}

func (p SpectralPoint) String() string {
	return fmt.Sprintf("%s = %d (%d)", p.Resolution, p.Value16, p.Value8)
}

// SpectrumAt reads every channel at (x,y); nil if (x,y) is outside the cube.
func (v *Viewer) SpectrumAt(x, y int) []SpectralPoint {
	values := v.Cube.Spectrum16(x, y)
	if values == nil {
		return nil
	}

	res := spectral.Associate(v.Bands, len(values))
	points := make([]SpectralPoint, len(values))
	for i, val := range values {
		points[i] = SpectralPoint{
			Resolution: res[i],
			Value16:    val,
			Value8:     cube.Stretch(val, v.Cube.ContrastParams(i)),
		}
	}
	return points
}

// Series splits points into wavelength and raw value axes, for plotting.
func Series(points []SpectralPoint) (wavelengths, values []float64) {
	wavelengths = make([]float64, len(points))
	values = make([]float64, len(points))
	for i, p := range points {
		wavelengths[i] = p.Wavelength
		values[i] = float64(p.Value16)
	}
	return wavelengths, values
}

// Peak is the point with the largest raw value; false if there are none.
func Peak(points []SpectralPoint) (SpectralPoint, bool) {
	if len(points) == 0 {
		return SpectralPoint{}, false
	}
	_, values := Series(points)
	return points[floats.MaxIdx(values)], true
}

// Normalized scales raw values so they sum to 1; all zeros if they sum to 0.
func Normalized(points []SpectralPoint) []float64 {
	_, values := Series(points)
	if sum := floats.Sum(values); sum > 0 {
		floats.Scale(1/sum, values)
	}
	return values
}
