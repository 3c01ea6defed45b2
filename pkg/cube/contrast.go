package cube

import (
	"fmt"
	"math"
)

// DefaultPercentCut is the share of samples clipped at each end by AutoContrast.
const DefaultPercentCut = 2.0

// ContrastParams says how a channel's 16-bit samples map onto 0..255.
// MaxVal is always greater than MinVal.
type ContrastParams struct {
	MinVal, MaxVal uint16

	PercentCutLow  float64
	PercentCutHigh float64
	UsePercentile  bool // Whether MinVal/MaxVal came from the percent cuts
}

func (p ContrastParams) String() string {
	if p.UsePercentile {
		return fmt.Sprintf("[%d,%d] (clip %.1f%%/%.1f%%)", p.MinVal, p.MaxVal, p.PercentCutLow, p.PercentCutHigh)
	}
	return fmt.Sprintf("[%d,%d]", p.MinVal, p.MaxVal)
}

func defaultContrast(min, max uint16) ContrastParams {
	p := ContrastParams{PercentCutLow: DefaultPercentCut, PercentCutHigh: DefaultPercentCut}
	p.MinVal, p.MaxVal = repairBounds(min, max)
	return p
}

// repairBounds makes sure max > min, by moving max up (or, at the top of
// the range, min down).
func repairBounds(min, max uint16) (uint16, uint16) {
	if max > min {
		return min, max
	}
	if min == math.MaxUint16 {
		return math.MaxUint16 - 1, math.MaxUint16
	}
	return min, min + 1
}

// clampPercent forces a percent cut into [0,50).
func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p >= 50:
		return math.Nextafter(50, 0)
	}
	return p
}

// PercentileBounds finds the sample values that clip percentLow percent of
// total samples off the bottom of hist, and percentHigh percent off the top.
//
// With lowCutoff = floor(total*low/100) and highCutoff =
// floor(total*(100-high)/100), the low bound is the first bin where the
// running count exceeds lowCutoff, and the high bound the first bin where
// it reaches highCutoff (and at least one sample), or 65535 if it never does.
// The result is not repaired; the caller does that.
func PercentileBounds(hist []uint32, total int, percentLow, percentHigh float64) (uint16, uint16) {
	percentLow = clampPercent(percentLow)
	percentHigh = clampPercent(percentHigh)

	lowCutoff := uint64(math.Floor(float64(total) * percentLow / 100))
	highCutoff := uint64(math.Floor(float64(total) * (100 - percentHigh) / 100))
	if highCutoff == 0 {
		highCutoff = 1
	}

	minVal, maxVal := -1, -1
	var running uint64
	for i, n := range hist {
		running += uint64(n)
		if minVal < 0 && running > lowCutoff {
			minVal = i
		}
		if maxVal < 0 && running >= highCutoff {
			maxVal = i
		}
		if minVal >= 0 && maxVal >= 0 {
			break
		}
	}

	if minVal < 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = math.MaxUint16
	}
	return uint16(minVal), uint16(maxVal)
}

// NormalizeToRange sets fixed stretch bounds for a channel. If max isn't
// above min, max is moved up to min+1.
func (c *Cube) NormalizeToRange(i int, min, max uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil {
		return fmt.Errorf("normalize channel %d: %w", i, ErrChannelOutOfRange)
	}

	ch.contrast.MinVal, ch.contrast.MaxVal = repairBounds(min, max)
	ch.contrast.UsePercentile = false
	c.invalidateView(i)
	return nil
}

// NormalizeByPercentile sets a channel's stretch bounds so that percentLow
// percent of samples go to black and percentHigh percent go to white.
// Percentages are clamped into [0,50).
func (c *Cube) NormalizeByPercentile(i int, percentLow, percentHigh float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.normalizeByPercentile(i, percentLow, percentHigh)
}

func (c *Cube) normalizeByPercentile(i int, percentLow, percentHigh float64) error {
	ch := c.channel(i)
	if ch == nil {
		return fmt.Errorf("normalize channel %d: %w", i, ErrChannelOutOfRange)
	}
	if ch.hist == nil {
		ch.hist, ch.min, ch.max = buildHistogram(ch.raw)
	}

	min, max := PercentileBounds(ch.hist, len(ch.raw), percentLow, percentHigh)
	ch.contrast = ContrastParams{
		PercentCutLow:  clampPercent(percentLow),
		PercentCutHigh: clampPercent(percentHigh),
		UsePercentile:  true,
	}
	ch.contrast.MinVal, ch.contrast.MaxVal = repairBounds(min, max)
	c.invalidateView(i)
	return nil
}

// AutoContrast applies the same percentile stretch to every channel.
func (c *Cube) AutoContrast(percentLow, percentHigh float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.chans {
		if err := c.normalizeByPercentile(i, percentLow, percentHigh); err != nil {
			return err
		}
	}
	return nil
}

// ContrastParams returns a channel's current settings; the zero value for a
// channel the cube doesn't have.
func (c *Cube) ContrastParams(i int) ContrastParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := c.channel(i)
	if ch == nil {
		return ContrastParams{}
	}
	return ch.contrast
}

// Stretch maps one sample onto 0..255 under p: at or below MinVal is 0, at
// or above MaxVal is 255, and the rest linear in between, rounded.
func Stretch(v uint16, p ContrastParams) uint8 {
	if v <= p.MinVal {
		return 0
	}
	if v >= p.MaxVal {
		return 255
	}
	span := uint32(p.MaxVal - p.MinVal)
	return uint8((uint32(v-p.MinVal)*255 + span/2) / span)
}

// stretchTable precomputes Stretch for every 16-bit value.
func stretchTable(p ContrastParams) []uint8 {
	lut := make([]uint8, NumBins)
	for v := range lut {
		lut[v] = Stretch(uint16(v), p)
	}
	return lut
}
