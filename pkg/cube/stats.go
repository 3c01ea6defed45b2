package cube

import (
	"fmt"
	"math"

	"github.com/codahale/hdrhistogram"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarises the raw samples of one channel.
type ChannelStats struct {
	Count    int
	Min, Max uint16
	Mean     float64
	StdDev   float64
	Median   int64
	P1, P99  int64 // 1st and 99th percentiles, to three significant figures
}

func (s ChannelStats) String() string {
	return fmt.Sprintf("n=%d min=%d max=%d mean=%.2f sd=%.2f p1=%d median=%d p99=%d",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.P1, s.Median, s.P99)
}

// Stats works from the cached histogram, so it costs the same for any size
// of channel.
func (c *Cube) Stats(i int) (ChannelStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := c.channel(i)
	if ch == nil {
		return ChannelStats{}, fmt.Errorf("stats channel %d: %w", i, ErrChannelOutOfRange)
	}
	if ch.hist == nil {
		ch.hist, ch.min, ch.max = buildHistogram(ch.raw)
	}

	s := ChannelStats{Count: len(ch.raw), Min: ch.min, Max: ch.max}

	values := []float64{}
	weights := []float64{}
	h := hdrhistogram.New(1, math.MaxUint16, 3)
	for v, n := range ch.hist {
		if n == 0 {
			continue
		}
		values = append(values, float64(v))
		weights = append(weights, float64(n))
		if err := h.RecordValues(int64(v), int64(n)); err != nil {
			return s, fmt.Errorf("stats channel %d: %v", i, err)
		}
	}

	if len(values) > 0 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, weights)
		if math.IsNaN(s.StdDev) {
			s.StdDev = 0 // A single sample
		}
	}
	s.P1 = h.ValueAtQuantile(1)
	s.Median = h.ValueAtQuantile(50)
	s.P99 = h.ValueAtQuantile(99)

	return s, nil
}
