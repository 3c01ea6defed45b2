package cube

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// A Palette maps 8-bit stretched values onto colors, for viewing a single
// channel as a heat map.
type Palette struct {
	Name string
	lut  [256]color.RGBA
}

// Palette stops, blended in HCL space between neighbours.
var paletteStops = map[string][]string{
	"gray":    {"#000000", "#ffffff"},
	"thermal": {"#000000", "#3b0f70", "#b5367a", "#fb8761", "#fcfdbf"},
	"viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
}

// PaletteNames lists the palettes ParsePalette knows about.
func PaletteNames() []string {
	names := []string{}
	for n := range paletteStops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func ParsePalette(name string) (*Palette, error) {
	stops, exists := paletteStops[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("no palette named '%s' (have %s)", name, strings.Join(PaletteNames(), ", "))
	}

	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		col, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %v", name, err)
		}
		cols[i] = col
	}

	p := &Palette{Name: strings.ToLower(name)}
	segments := len(cols) - 1
	for v := 0; v < 256; v++ {
		t := float64(v) / 255 * float64(segments)
		k := int(t)
		if k >= segments {
			k = segments - 1
		}
		r, g, b := cols[k].BlendHcl(cols[k+1], t-float64(k)).Clamped().RGB255()
		p.lut[v] = color.RGBA{r, g, b, 0xff}
	}
	return p, nil
}

func (p *Palette) At(v uint8) color.RGBA { return p.lut[v] }

// PseudocolorImage renders a channel's 8-bit view through a palette.
func (c *Cube) PseudocolorImage(i int, p *Palette) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel(i) == nil {
		return nil, fmt.Errorf("pseudocolor channel %d: %w", i, ErrChannelOutOfRange)
	}

	view := c.ensureView(i)
	img := image.NewRGBA(image.Rect(0, 0, c.geom.Width, c.geom.Height))
	for j, v := range view {
		col := p.lut[v]
		copy(img.Pix[4*j:4*j+4], []uint8{col.R, col.G, col.B, col.A})
	}
	return img, nil
}
