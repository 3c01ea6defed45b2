package spectral

import (
	"fmt"

	"github.com/samber/lo"
)

// Association says how a channel's wavelength was arrived at.
type Association int

const (
	Synthetic  Association = iota // no metadata; the wavelength is just channel+1
	Positional                    // the i'th record, whatever its band number
	Exact                         // the record whose band number is channel+1
)

func (a Association) String() string {
	switch a {
	case Exact:
		return "exact"
	case Positional:
		return "positional"
	default:
		return "synthetic"
	}
}

// A Resolution is the wavelength to use for one raster channel.
type Resolution struct {
	Channel    int // 0-based raster channel index
	Kind       Association
	BandNumber int     // Of the record used; 0 for Synthetic
	Wavelength float64 // nm, or channel+1 for Synthetic
}

// HasWavelength is false when Wavelength is a placeholder, not a physical value.
func (r Resolution) HasWavelength() bool { return r.Kind != Synthetic }

func (r Resolution) String() string {
	if !r.HasWavelength() {
		return fmt.Sprintf("ch%d: #%.0f (no wavelength)", r.Channel, r.Wavelength)
	}
	return fmt.Sprintf("ch%d: %.2fnm (%s, band %d)", r.Channel, r.Wavelength, r.Kind, r.BandNumber)
}

// An index of bands by band number. Later records win over earlier ones.
func indexBands(bands []Band) map[int]Band {
	numbered := lo.Filter(bands, func(b Band, _ int) bool { return b.BandNumber > 0 })
	return lo.KeyBy(numbered, func(b Band) int { return b.BandNumber })
}

// Associate resolves a wavelength for each of numChannels raster channels.
// Tiers are tried in order: a record numbered channel+1 that carries a
// wavelength; the channel'th record if it carries one and isn't already
// some other channel's exact match; channel+1 itself.
func Associate(bands []Band, numChannels int) []Resolution {
	byNumber := indexBands(bands)
	return lo.Times(numChannels, func(i int) Resolution {
		return resolve(byNumber, bands, i)
	})
}

// Resolve is Associate for a single channel.
func Resolve(bands []Band, channel int) Resolution {
	return resolve(indexBands(bands), bands, channel)
}

func resolve(byNumber map[int]Band, bands []Band, i int) Resolution {
	if b, exists := byNumber[i+1]; exists && b.Wavelength > 0 {
		return Resolution{Channel: i, Kind: Exact, BandNumber: b.BandNumber, Wavelength: b.Wavelength}
	}
	if i >= 0 && i < len(bands) && bands[i].Wavelength > 0 && !claimed(byNumber, bands[i]) {
		return Resolution{Channel: i, Kind: Positional, BandNumber: bands[i].BandNumber, Wavelength: bands[i].Wavelength}
	}
	return Resolution{Channel: i, Kind: Synthetic, Wavelength: float64(i + 1)}
}

// claimed reports whether b is the exact match for the channel its number names.
func claimed(byNumber map[int]Band, b Band) bool {
	winner, exists := byNumber[b.BandNumber]
	return exists && winner == b
}
