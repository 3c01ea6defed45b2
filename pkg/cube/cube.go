package cube

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	log "github.com/sirupsen/logrus"

	"github.com/abworrall/hypercube/pkg/tiffio"
)

// ErrChannelOutOfRange is returned by calls that name a channel the cube
// doesn't have. Pixel reads return zero instead.
var ErrChannelOutOfRange = errors.New("channel out of range")

// Geometry is fixed for the lifetime of a load.
type Geometry struct {
	Width, Height, NumChannels int
}

func (g Geometry) Pixels() int { return g.Width * g.Height }

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d, %d channels", g.Width, g.Height, g.NumChannels)
}

// channel holds a raw buffer and everything derived from it. A nil view is
// Absent (or Stale); it is rebuilt on the next read.
type channel struct {
	raw      []uint16
	hist     []uint32
	min, max uint16
	contrast ContrastParams
	view     []uint8
}

// A Cube is a set of same-sized 16-bit channels, each with its own contrast
// settings. All methods are safe for concurrent use; they are serialised.
type Cube struct {
	mu    sync.Mutex
	geom  Geometry
	chans []*channel

	maxViews int                           // 0 means one per channel
	views    *simplelru.LRU[int, struct{}] // Channel indices with a valid view
}

type Option func(*Cube)

// WithMaxCachedViews bounds how many derived 8-bit views are kept. The least
// recently read are dropped first, and rebuilt if asked for again. Raw
// channel data is never dropped.
func WithMaxCachedViews(n int) Option {
	return func(c *Cube) {
		if n > 0 {
			c.maxViews = n
		}
	}
}

func New(opts ...Option) *Cube {
	c := &Cube{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces everything in the cube with the given channels. Histograms
// and min/max are built here, and contrast is set to each channel's full
// range. On error the previous contents are left alone.
func (c *Cube) Load(channels [][]uint16, geom Geometry) error {
	if geom.Width <= 0 || geom.Height <= 0 {
		return fmt.Errorf("load: bad geometry %s", geom)
	}
	if len(channels) != geom.NumChannels {
		return fmt.Errorf("load: %d buffers for %d channels", len(channels), geom.NumChannels)
	}
	for i, raw := range channels {
		if len(raw) != geom.Pixels() {
			return fmt.Errorf("load: channel %d has %d samples, want %d", i, len(raw), geom.Pixels())
		}
	}

	chans := make([]*channel, len(channels))
	for i, raw := range channels {
		ch := &channel{raw: raw}
		ch.hist, ch.min, ch.max = buildHistogram(raw)
		ch.contrast = defaultContrast(ch.min, ch.max)
		chans[i] = ch
	}

	size := c.maxViews
	if size == 0 {
		size = max(1, len(chans))
	}
	// The callback runs with mu held, from Add, Remove and Purge.
	views, err := simplelru.NewLRU[int, struct{}](size, func(i int, _ struct{}) {
		chans[i].view = nil
	})
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.geom = geom
	c.chans = chans
	c.views = views

	log.Debugf("cube loaded: %s", geom)
	return nil
}

// LoadRaster loads everything a decoder produced.
func (c *Cube) LoadRaster(ras *tiffio.Raster) error {
	return c.Load(ras.Channels, Geometry{Width: ras.Width, Height: ras.Height, NumChannels: ras.NumChannels})
}

// Close drops all state; the cube goes back to being empty.
func (c *Cube) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.views != nil {
		c.views.Purge()
	}
	c.geom = Geometry{}
	c.chans = nil
	c.views = nil
}

func (c *Cube) Geometry() Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geom
}

func (c *Cube) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chans) > 0
}

// channel returns the channel, or nil if i is out of range. Caller holds mu.
func (c *Cube) channel(i int) *channel {
	if i < 0 || i >= len(c.chans) {
		return nil
	}
	return c.chans[i]
}

func (c *Cube) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.geom.Width && y < c.geom.Height
}

// DefaultCompositeChannels picks red, green and blue channels for a
// composite. Cubes with too few channels get channel 0 for that color.
func (c *Cube) DefaultCompositeChannels() [3]int {
	n := c.Geometry().NumChannels
	rgb := [3]int{}
	if n > 55 {
		rgb[0] = 54
	}
	if n > 29 {
		rgb[1] = 28
	}
	if n > 14 {
		rgb[2] = 13
	}
	return rgb
}

// MemoryUsage is the number of bytes held in raw buffers, histograms and views.
func (c *Cube) MemoryUsage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, ch := range c.chans {
		total += 2*len(ch.raw) + 4*len(ch.hist) + len(ch.view)
	}
	return total
}
