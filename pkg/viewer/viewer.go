package viewer

import (
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/spectral"
	"github.com/abworrall/hypercube/pkg/tiffio"
)

// A Viewer is one loaded cube, plus the spectral metadata that goes with
// it. It is the whole surface a display layer needs.
type Viewer struct {
	Config

	Path        string
	Info        tiffio.Info
	Acquisition tiffio.Acquisition
	Cube        *cube.Cube

	Sidecar string          // Where Bands came from
	Bands   []spectral.Band // nil if no metadata was found

	pinnedBands bool // Bands were chosen explicitly; don't go looking on load
}

func NewViewer() *Viewer {
	return &Viewer{
		Config: NewConfig(),
		Cube:   cube.New(),
	}
}

// LoadRaster decodes a file and makes it the current cube. If it fails, the
// previous cube stays. Unless a sidecar was already chosen, one is looked
// for next to the file; not finding one is not an error.
func (v *Viewer) LoadRaster(path string) error {
	ras, err := tiffio.Load(path)
	if err != nil {
		return err
	}

	c := cube.New(cube.WithMaxCachedViews(v.MaxCachedViews))
	if err := c.LoadRaster(ras); err != nil {
		return fmt.Errorf("load '%s': %v", path, err)
	}
	if v.AutoContrast {
		if err := c.AutoContrast(v.PercentCutLow, v.PercentCutHigh); err != nil {
			return fmt.Errorf("load '%s': %v", path, err)
		}
	}

	if v.Cube != nil {
		v.Cube.Close()
	}
	v.Cube = c
	v.Path = path
	v.Info = ras.Info

	log.Printf("Loaded %s: %s\n", path, ras.Info)
	if ras.SkippedRows > 0 {
		log.Warnf("%s: %d rows could not be read and are blank", path, ras.SkippedRows)
	}

	v.Acquisition = tiffio.Acquisition{}
	if acq, err := tiffio.ReadAcquisition(path); err != nil {
		log.Debugf("no acquisition info: %v", err)
	} else {
		v.Acquisition = acq
	}

	if !v.pinnedBands {
		v.Bands, v.Sidecar = nil, ""
		if sidecar, err := spectral.FindSidecar(path, v.SidecarExtensions...); err != nil {
			log.Debugf("%v", err)
		} else if err := v.readBands(sidecar); err != nil {
			log.Warnf("spectral metadata: %v", err)
		}
	}

	return nil
}

// ReadSpectralBands loads metadata from an explicit file. It replaces any
// sidecar found automatically, and stops later loads from looking for one.
func (v *Viewer) ReadSpectralBands(path string) ([]spectral.Band, error) {
	if err := v.readBands(path); err != nil {
		return nil, err
	}
	v.pinnedBands = true
	return v.Bands, nil
}

func (v *Viewer) readBands(path string) error {
	bands, err := spectral.ReadBands(path)
	if err != nil {
		return err
	}
	v.Bands, v.Sidecar = bands, path

	if n := v.Geometry().NumChannels; n > 0 && len(bands) != n {
		log.Debugf("%s: %d records for %d channels", path, len(bands), n)
	}
	log.Printf("Loaded spectral data from %s (%d bands)\n", path, len(bands))
	return nil
}

func (v *Viewer) Close() {
	v.Cube.Close()
	v.Path, v.Info = "", tiffio.Info{}
}

func (v *Viewer) Geometry() cube.Geometry { return v.Cube.Geometry() }

func (v *Viewer) NormalizeToRange(ch int, min, max uint16) error {
	return v.Cube.NormalizeToRange(ch, min, max)
}

func (v *Viewer) NormalizeByPercentile(ch int, low, high float64) error {
	return v.Cube.NormalizeByPercentile(ch, low, high)
}

func (v *Viewer) ChannelImage(ch int) (*image.Gray, error) { return v.Cube.ChannelImage(ch) }

func (v *Viewer) CompositeImage(r, g, b int) (*image.RGBA, error) {
	return v.Cube.CompositeImage(r, g, b)
}

func (v *Viewer) Histogram(ch int) []uint32                 { return v.Cube.Histogram(ch) }
func (v *Viewer) MinMax(ch int) (uint16, uint16)            { return v.Cube.MinMax(ch) }
func (v *Viewer) ContrastParams(ch int) cube.ContrastParams { return v.Cube.ContrastParams(ch) }
func (v *Viewer) Pixel16(ch, x, y int) uint16               { return v.Cube.Pixel16(ch, x, y) }
func (v *Viewer) Pixel8(ch, x, y int) uint8                 { return v.Cube.Pixel8(ch, x, y) }
func (v *Viewer) Spectrum16(x, y int) []uint16              { return v.Cube.Spectrum16(x, y) }

// CompositeChannels is the configured red, green and blue channels, or the
// cube's defaults.
func (v *Viewer) CompositeChannels() [3]int {
	if len(v.Composite) == 3 {
		return [3]int{v.Composite[0], v.Composite[1], v.Composite[2]}
	}
	return v.Cube.DefaultCompositeChannels()
}

// DefaultComposite renders CompositeChannels.
func (v *Viewer) DefaultComposite() (*image.RGBA, error) {
	rgb := v.CompositeChannels()
	return v.Cube.CompositeImage(rgb[0], rgb[1], rgb[2])
}

// Resolutions assigns a wavelength to every channel of the loaded cube.
func (v *Viewer) Resolutions() []spectral.Resolution {
	return spectral.Associate(v.Bands, v.Geometry().NumChannels)
}
