package spectral

import (
	"fmt"

	"github.com/samber/lo"
)

// A Summary is an overview of a list of bands.
type Summary struct {
	Records          int
	ChannelsWithData int // bands with a wavelength
	MinChannel       int
	MaxChannel       int
	MinWavelength    float64
	MaxWavelength    float64
}

func Summarize(bands []Band) Summary {
	s := Summary{Records: len(bands)}

	withData := lo.Filter(bands, func(b Band, _ int) bool { return b.Wavelength > 0 })
	s.ChannelsWithData = len(withData)
	if len(withData) > 0 {
		wl := lo.Map(withData, func(b Band, _ int) float64 { return b.Wavelength })
		s.MinWavelength, s.MaxWavelength = lo.Min(wl), lo.Max(wl)
	}

	nums := lo.FilterMap(bands, func(b Band, _ int) (int, bool) { return b.BandNumber, b.BandNumber > 0 })
	if len(nums) > 0 {
		s.MinChannel, s.MaxChannel = lo.Min(nums), lo.Max(nums)
	}

	return s
}

func (s Summary) String() string {
	if s.ChannelsWithData == 0 {
		return fmt.Sprintf("%d records, no spectral data", s.Records)
	}
	return fmt.Sprintf("%d records, channels %d-%d, wavelengths %.2f-%.2f nm",
		s.Records, s.MinChannel, s.MaxChannel, s.MinWavelength, s.MaxWavelength)
}
