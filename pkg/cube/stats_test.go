package cube

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	cb := loaded(t, 1000, 1, [][]uint16{uniform(1, 1000)})

	s, err := cb.Stats(0)
	require.NoError(t, err)
	assert.Equal(t, 1000, s.Count)
	assert.Equal(t, uint16(1), s.Min)
	assert.Equal(t, uint16(1000), s.Max)
	assert.InDelta(t, 500.5, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(1000*1001/12.0), s.StdDev, 1e-6)
	assert.InDelta(t, 500, s.Median, 1)
	assert.InDelta(t, 10, s.P1, 1)
	assert.InDelta(t, 990, s.P99, 1)

	_, err = cb.Stats(1)
	assert.True(t, errors.Is(err, ErrChannelOutOfRange))
}

func TestStatsSingleValue(t *testing.T) {
	cb := loaded(t, 2, 2, [][]uint16{{0, 0, 0, 0}})
	s, err := cb.Stats(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, int64(0), s.Median)
}

func TestPalettes(t *testing.T) {
	assert.Equal(t, []string{"gray", "thermal", "viridis"}, PaletteNames())

	gray, err := ParsePalette("Gray")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), gray.At(0).R)
	assert.InDelta(t, 255, int(gray.At(255).R), 1)
	for v := 1; v < 256; v++ {
		assert.GreaterOrEqual(t, int(gray.At(uint8(v)).G)+1, int(gray.At(uint8(v-1)).G), "v=%d", v)
	}

	_, err = ParsePalette("rainbow")
	assert.Error(t, err)

	cb := loaded(t, 2, 1, [][]uint16{{0, 100}})
	viridis, err := ParsePalette("viridis")
	require.NoError(t, err)
	img, err := cb.PseudocolorImage(0, viridis)
	require.NoError(t, err)
	assert.Equal(t, viridis.At(0), img.RGBAAt(0, 0))
	assert.Equal(t, viridis.At(255), img.RGBAAt(1, 0))

	_, err = cb.PseudocolorImage(2, viridis)
	assert.True(t, errors.Is(err, ErrChannelOutOfRange))
}
