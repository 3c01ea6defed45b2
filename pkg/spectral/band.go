package spectral

import (
	"errors"
	"fmt"
)

// A Band is one record from a sidecar file: the wavelength that a raster
// channel was captured at.
type Band struct {
	BandNumber      int     // 1-based channel number; 0 when the file didn't say
	Wavelength      float64 // Center wavelength in nm; 0 when unknown
	WavelengthDelta float64 // Bandwidth in nm (XML WaveDelta, ENVI fwhm)
	DetectorIndex   int     // Which detector (OEP) captured the band
	Description     string
}

func (b Band) String() string {
	return fmt.Sprintf("#%d %.2fnm (Δ%.2fnm) %s", b.BandNumber, b.Wavelength, b.WavelengthDelta, b.Description)
}

// Format is the sidecar encoding a Catalog was read from.
type Format int

const (
	FormatPlain Format = iota // numbers, one or more per line
	FormatXML                 // SPP_ROOT / WaveLength records
	FormatENVI                // ENVI header, wavelength = { ... }
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatENVI:
		return "envi"
	default:
		return "plain"
	}
}

// A Catalog is everything read from one sidecar file.
type Catalog struct {
	Path        string
	Format      Format
	RasterBands int // XML nRasterBands, when present
	Bands       []Band
}

// ErrNoBands is wrapped in a ParseError when a file was readable but held no
// usable records.
var ErrNoBands = errors.New("no spectral bands found")

// A ParseError says a sidecar file could not be turned into bands.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("spectral '%s': %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
