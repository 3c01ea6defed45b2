package export

import (
	"image"
	"image/color"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/hypercube/pkg/cube"
)

// Radiance is a three channel composite kept in floating point, so values
// past the contrast max survive into an HDR file instead of clipping.
// Implements the hdr.Image interface.
type Radiance struct {
	Rect    image.Rectangle
	R, G, B []float64
}

// NewRadiance scales each channel so its contrast range maps onto [0,1].
// Samples below the range are clamped to 0; those above it are kept.
func NewRadiance(c *cube.Cube, r, g, b int) (*Radiance, error) {
	geom := c.Geometry()
	rad := &Radiance{Rect: image.Rect(0, 0, geom.Width, geom.Height)}

	dst := [3]*[]float64{&rad.R, &rad.G, &rad.B}
	for k, i := range [3]int{r, g, b} {
		raw, err := c.Channel16(i)
		if err != nil {
			return nil, err
		}
		p := c.ContrastParams(i)
		lo, span := float64(p.MinVal), float64(p.MaxVal)-float64(p.MinVal)

		vals := make([]float64, len(raw))
		for j, v := range raw {
			if f := (float64(v) - lo) / span; f > 0 {
				vals[j] = f
			}
		}
		*dst[k] = vals
	}
	return rad, nil
}

// Implement golang's image.Image interface
func (rad *Radiance) ColorModel() color.Model { return hdrcolor.RGBModel }
func (rad *Radiance) Bounds() image.Rectangle { return rad.Rect }
func (rad *Radiance) At(x, y int) color.Color { return rad.HDRAt(x, y) }

// Implement hdr.Image
func (rad *Radiance) HDRAt(x, y int) hdrcolor.Color {
	if !image.Pt(x, y).In(rad.Rect) {
		return hdrcolor.RGB{}
	}
	i := (y-rad.Rect.Min.Y)*rad.Rect.Dx() + (x - rad.Rect.Min.X)
	return hdrcolor.RGB{R: rad.R[i], G: rad.G[i], B: rad.B[i]}
}
func (rad *Radiance) Size() int { return rad.Rect.Dx() * rad.Rect.Dy() }
