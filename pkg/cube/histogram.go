package cube

import "math"

// NumBins is the number of histogram bins: one per 16-bit value.
const NumBins = 1 << 16

// buildHistogram counts every sample, tracking the extremes as it goes.
func buildHistogram(raw []uint16) (hist []uint32, min, max uint16) {
	hist = make([]uint32, NumBins)
	if len(raw) == 0 {
		return hist, 0, 0
	}

	min, max = raw[0], raw[0]
	for _, v := range raw {
		hist[v]++
		if v < min {
			min = v
		} else if v > max {
			max = v
		}
	}
	return hist, min, max
}

// Histogram returns a copy of a channel's 65536 bin counts. A channel the
// cube doesn't have gets all zero bins.
func (c *Cube) Histogram(i int) []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil {
		return make([]uint32, NumBins)
	}
	if ch.hist == nil {
		ch.hist, ch.min, ch.max = buildHistogram(ch.raw)
	}

	out := make([]uint32, NumBins)
	copy(out, ch.hist)
	return out
}

// MinMax returns the smallest and largest sample in a channel. A channel
// the cube doesn't have gets the full 16-bit range.
func (c *Cube) MinMax(i int) (uint16, uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil {
		return 0, math.MaxUint16
	}
	return ch.min, ch.max
}
