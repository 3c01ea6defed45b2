package cube

import (
	"fmt"
	"image"

	"github.com/samber/lo/mutable"
)

// ensureView returns a channel's 8-bit view, building it if it's absent or
// stale, and marks it most recently used. Building may evict the least
// recently used view. Caller holds mu.
func (c *Cube) ensureView(i int) []uint8 {
	ch := c.chans[i]
	if ch.view == nil {
		lut := stretchTable(ch.contrast)
		view := make([]uint8, len(ch.raw))
		for j, v := range ch.raw {
			view[j] = lut[v]
		}
		ch.view = view
	}
	c.views.Add(i, struct{}{})
	return ch.view
}

// invalidateView marks a view stale after a contrast change. Caller holds mu.
func (c *Cube) invalidateView(i int) {
	if !c.views.Remove(i) {
		c.chans[i].view = nil
	}
}

// CachedViews lists the channels whose 8-bit view is currently valid, most
// recently used first.
func (c *Cube) CachedViews() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.views == nil {
		return []int{}
	}
	keys := c.views.Keys()
	mutable.Reverse(keys)
	return keys
}

// ChannelImage renders a channel through its contrast settings.
func (c *Cube) ChannelImage(i int) (*image.Gray, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel(i) == nil {
		return nil, fmt.Errorf("channel image %d: %w", i, ErrChannelOutOfRange)
	}

	img := image.NewGray(image.Rect(0, 0, c.geom.Width, c.geom.Height))
	copy(img.Pix, c.ensureView(i))
	return img, nil
}

// CompositeImage packs three channel views into the red, green and blue of
// an opaque image.
func (c *Cube) CompositeImage(r, g, b int) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var views [3][]uint8
	for k, i := range [3]int{r, g, b} {
		if c.channel(i) == nil {
			return nil, fmt.Errorf("composite channel %d: %w", i, ErrChannelOutOfRange)
		}
		views[k] = c.ensureView(i)
	}

	img := image.NewRGBA(image.Rect(0, 0, c.geom.Width, c.geom.Height))
	for j := range views[0] {
		p := img.Pix[4*j : 4*j+4]
		p[0], p[1], p[2], p[3] = views[0][j], views[1][j], views[2][j], 0xff
	}
	return img, nil
}

// Pixel16 is the raw sample at (x,y), or 0 if out of range.
func (c *Cube) Pixel16(i, x, y int) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil || !c.inBounds(x, y) {
		return 0
	}
	return ch.raw[y*c.geom.Width+x]
}

// Pixel8 is the stretched sample at (x,y), or 0 if out of range.
func (c *Cube) Pixel8(i, x, y int) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel(i) == nil || !c.inBounds(x, y) {
		return 0
	}
	return c.ensureView(i)[y*c.geom.Width+x]
}

// Spectrum16 is every channel's raw sample at (x,y), in channel order; nil
// if out of range.
func (c *Cube) Spectrum16(x, y int) []uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.chans) == 0 || !c.inBounds(x, y) {
		return nil
	}
	out := make([]uint16, len(c.chans))
	off := y*c.geom.Width + x
	for i, ch := range c.chans {
		out[i] = ch.raw[off]
	}
	return out
}

// Channel16 is a copy of a channel's raw samples, row-major.
func (c *Cube) Channel16(i int) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil {
		return nil, fmt.Errorf("channel %d: %w", i, ErrChannelOutOfRange)
	}
	return append([]uint16(nil), ch.raw...), nil
}
