package export

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
)

// Annotate draws a title into the top left of a copy of img.
func Annotate(img image.Image, title string) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(title, 11, 21)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 10, 20)
	return dc.Image()
}

func WriteAnnotatedPNG(img image.Image, title, filename string) error {
	return WritePNG(Annotate(img, title), filename)
}

// PlotSpectrum draws values against wavelengths as a line on a white
// background, with the wavelength and value ranges in the corners.
func PlotSpectrum(wavelengths, values []float64, width, height int, title string) (image.Image, error) {
	if len(wavelengths) == 0 || len(wavelengths) != len(values) {
		return nil, fmt.Errorf("plot: %d wavelengths for %d values", len(wavelengths), len(values))
	}
	if width < 64 || height < 64 {
		return nil, fmt.Errorf("plot: %dx%d is too small", width, height)
	}

	const margin = 30.0
	xlo, xhi := floats.Min(wavelengths), floats.Max(wavelengths)
	ylo, yhi := 0.0, floats.Max(values)
	if xhi == xlo {
		xhi = xlo + 1
	}
	if yhi <= ylo {
		yhi = ylo + 1
	}

	w, h := float64(width), float64(height)
	px := func(x float64) float64 { return margin + (x-xlo)/(xhi-xlo)*(w-2*margin) }
	py := func(y float64) float64 { return h - margin - (y-ylo)/(yhi-ylo)*(h-2*margin) }

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, h-margin, w-margin, h-margin)
	dc.DrawLine(margin, margin, margin, h-margin)
	dc.Stroke()

	dc.SetRGB(0.1, 0.3, 0.8)
	dc.SetLineWidth(2)
	for i := range wavelengths {
		if i == 0 {
			dc.MoveTo(px(wavelengths[i]), py(values[i]))
		} else {
			dc.LineTo(px(wavelengths[i]), py(values[i]))
		}
	}
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", xlo), margin, h-margin/2, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", xhi), w-margin, h-margin/2, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", yhi), margin, margin/2, 0, 0.5)
	dc.DrawStringAnchored(title, w/2, margin/2, 0.5, 0.5)

	return dc.Image(), nil
}
