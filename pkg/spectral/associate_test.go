package spectral

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssociateExactOnly(t *testing.T) {
	bands := []Band{{BandNumber: 3, Wavelength: 650}}

	res := Associate(bands, 5)
	require.Len(t, res, 5)

	for i, r := range res {
		assert.Equal(t, i, r.Channel)
		if i == 2 {
			assert.True(t, r.HasWavelength())
			assert.Equal(t, Exact, r.Kind)
			assert.Equal(t, 650.0, r.Wavelength)
			assert.Equal(t, 3, r.BandNumber)
			continue
		}
		assert.False(t, r.HasWavelength(), "channel %d", i)
		assert.Equal(t, Synthetic, r.Kind)
		assert.Equal(t, float64(i+1), r.Wavelength)
	}
}

func TestAssociateTiers(t *testing.T) {
	bands := []Band{
		{BandNumber: 0, Wavelength: 400}, // no number, and channel 0 has an exact match
		{BandNumber: 1, Wavelength: 500}, // exact for channel 0, so not positional for 1
		{BandNumber: 10, Wavelength: 0},  // position 2 has no wavelength
		{BandNumber: 4, Wavelength: 0},   // exact for channel 3, but empty
		{BandNumber: 0, Wavelength: 900}, // positional for channel 4
		{BandNumber: 9, Wavelength: 950}, // exact for channel 8, not positional for 5
	}

	tests := []struct {
		channel int
		kind    Association
		wl      float64
	}{
		{0, Exact, 500},
		{1, Synthetic, 2},
		{2, Synthetic, 3},
		{3, Synthetic, 4},
		{4, Positional, 900},
		{5, Synthetic, 6},
		{8, Exact, 950},
		{9, Synthetic, 10},
	}

	for _, tc := range tests {
		r := Resolve(bands, tc.channel)
		assert.Equal(t, tc.kind, r.Kind, "channel %d", tc.channel)
		assert.Equal(t, tc.wl, r.Wavelength, "channel %d", tc.channel)
	}
}

func TestAssociateDuplicateNumbers(t *testing.T) {
	// The later record wins band 2; the earlier one is free to be used by position.
	bands := []Band{{BandNumber: 2, Wavelength: 610}, {BandNumber: 2, Wavelength: 620}}

	res := Associate(bands, 2)
	assert.Equal(t, Resolution{Channel: 0, Kind: Positional, BandNumber: 2, Wavelength: 610}, res[0])
	assert.Equal(t, Resolution{Channel: 1, Kind: Exact, BandNumber: 2, Wavelength: 620}, res[1])
}

func TestAssociateEmpty(t *testing.T) {
	res := Associate(nil, 3)
	for i, r := range res {
		assert.Equal(t, Synthetic, r.Kind)
		assert.Equal(t, float64(i+1), r.Wavelength)
	}
}

func TestFindSidecar(t *testing.T) {
	touch := func(dir string, names ...string) {
		for _, n := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
		}
	}

	t.Run("same base name", func(t *testing.T) {
		dir := t.TempDir()
		touch(dir, "cube.tif", "cube.hdr", "cube.xml", "another.spp")
		got, err := FindSidecar(filepath.Join(dir, "cube.tif"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "cube.xml"), got)
	})

	t.Run("any in directory", func(t *testing.T) {
		dir := t.TempDir()
		touch(dir, "cube.tif", "b.HDR", "c.xml", "a.xml")
		got, err := FindSidecar(filepath.Join(dir, "cube.tif"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "a.xml"), got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		dir := t.TempDir()
		touch(dir, "cube.tif", "Z.HDR")
		got, err := FindSidecar(filepath.Join(dir, "cube.tif"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Z.HDR"), got)
	})

	t.Run("custom extensions", func(t *testing.T) {
		dir := t.TempDir()
		touch(dir, "cube.tif", "cube.spp", "cube.txt")
		got, err := FindSidecar(filepath.Join(dir, "cube.tif"), "txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "cube.txt"), got)
	})

	t.Run("none", func(t *testing.T) {
		dir := t.TempDir()
		touch(dir, "cube.tif")
		_, err := FindSidecar(filepath.Join(dir, "cube.tif"))
		assert.True(t, errors.Is(err, ErrNoSidecar))
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Band{
		{BandNumber: 3, Wavelength: 650},
		{BandNumber: 1, Wavelength: 0},
		{BandNumber: 9, Wavelength: 420},
	})
	assert.Equal(t, Summary{
		Records:          3,
		ChannelsWithData: 2,
		MinChannel:       1,
		MaxChannel:       9,
		MinWavelength:    420,
		MaxWavelength:    650,
	}, s)
	assert.Equal(t, "3 records, channels 1-9, wavelengths 420.00-650.00 nm", s.String())

	assert.Equal(t, "1 records, no spectral data", Summarize([]Band{{BandNumber: 1}}).String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []Band{
		{BandNumber: 2, Wavelength: 550.5, WavelengthDelta: 4, DetectorIndex: 1, Description: "x"},
		{Description: "empty"},
	}))
	assert.Equal(t, "#\tchannel\twavelength_nm\tdelta_nm\toep\tdescription\n"+
		"1\t2\t550.500\t4.000\t1\tx\n"+
		"2\t\t\t\t\tempty\n", buf.String())
}
