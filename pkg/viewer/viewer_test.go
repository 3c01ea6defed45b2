package viewer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/spectral"
	"github.com/abworrall/hypercube/pkg/tiffio"
)

// writeCube writes an n channel, 4x3 multipage cube; channel c holds
// values around 1000*(c+1).
func writeCube(t *testing.T, dir, name string, n int) string {
	t.Helper()
	chans := make([][]uint16, n)
	for c := range chans {
		chans[c] = make([]uint16, 12)
		for i := range chans[c] {
			chans[c][i] = uint16(1000*(c+1) + i)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiffio.Encode(f, 4, 3, chans, tiffio.EncodeOptions{Layout: tiffio.MultiPage}))
	require.NoError(t, f.Close())
	return path
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

const band3Sidecar = `<?xml version="1.0"?>
<SPP_ROOT>
  <WaveLength><ChannelNumber>3</ChannelNumber><WaveLen>650</WaveLen></WaveLength>
</SPP_ROOT>
`

func TestLoadRasterFindsSidecar(t *testing.T) {
	dir := t.TempDir()
	path := writeCube(t, dir, "scene.tif", 5)
	sidecar := writeFile(t, dir, "scene.spp", band3Sidecar)

	v := NewViewer()
	require.NoError(t, v.LoadRaster(path))
	assert.Equal(t, sidecar, v.Sidecar)
	assert.Equal(t, 5, v.Geometry().NumChannels)
	assert.Equal(t, tiffio.MultiPage, v.Info.Layout.Kind)

	points := v.SpectrumAt(1, 0)
	require.Len(t, points, 5)
	for i, p := range points {
		assert.Equal(t, uint16(1000*(i+1)+1), p.Value16)
		if i == 2 {
			assert.True(t, p.HasWavelength())
			assert.Equal(t, 650.0, p.Wavelength)
			continue
		}
		assert.False(t, p.HasWavelength())
		assert.Equal(t, float64(i+1), p.Wavelength)
	}

	assert.Nil(t, v.SpectrumAt(4, 0))
}

func TestLoadRasterAppliesAutoContrast(t *testing.T) {
	path := writeCube(t, t.TempDir(), "scene.tif", 2)

	// Without auto contrast each channel spans its own min and max.
	v := NewViewer()
	require.NoError(t, v.LoadRaster(path))
	want := cube.ContrastParams{MinVal: 1000, MaxVal: 1011, PercentCutLow: 2, PercentCutHigh: 2}
	assert.Equal(t, want, v.ContrastParams(0))
	assert.Equal(t, uint16(2000), v.ContrastParams(1).MinVal)
	assert.Equal(t, uint16(2011), v.ContrastParams(1).MaxVal)

	v.AutoContrast = true
	require.NoError(t, v.LoadRaster(path))
	p := v.ContrastParams(1)
	assert.True(t, p.UsePercentile)
	assert.Equal(t, uint8(0), v.Pixel8(0, 0, 0))
	assert.Equal(t, uint8(255), v.Pixel8(0, 3, 2))
}

func TestLoadRasterFailureKeepsCube(t *testing.T) {
	dir := t.TempDir()
	path := writeCube(t, dir, "scene.tif", 3)

	v := NewViewer()
	require.NoError(t, v.LoadRaster(path))

	err := v.LoadRaster(filepath.Join(dir, "missing.tif"))
	assert.Error(t, err)
	assert.Equal(t, path, v.Path)
	assert.Equal(t, uint16(3000), v.Pixel16(2, 0, 0))

	bad := writeFile(t, dir, "bad.tif", "not a tiff")
	assert.Error(t, v.LoadRaster(bad))
	assert.Equal(t, 3, v.Geometry().NumChannels)
}

func TestExplicitSidecarIsKept(t *testing.T) {
	dir := t.TempDir()
	path := writeCube(t, dir, "scene.tif", 3)
	writeFile(t, dir, "scene.spp", "400\n500\n600\n")
	explicit := writeFile(t, t.TempDir(), "other.hdr", "ENVI\nwavelength = {700, 800, 900}\n")

	v := NewViewer()
	bands, err := v.ReadSpectralBands(explicit)
	require.NoError(t, err)
	require.Len(t, bands, 3)

	require.NoError(t, v.LoadRaster(path))
	assert.Equal(t, explicit, v.Sidecar)
	assert.Equal(t, 800.0, v.Resolutions()[1].Wavelength)

	_, err = v.ReadSpectralBands(filepath.Join(dir, "missing.spp"))
	var pe *spectral.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, explicit, v.Sidecar)
}

func TestLoadFilesAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeCube(t, dir, "a.tif", 2)
	writeFile(t, dir, "z.yaml", "autocontrast: true\ncomposite: [1, 0, 1]\n")
	writeFile(t, dir, "a.spp", "450\n550\n")
	writeFile(t, dir, "notes.xml", "<notes/>")

	v := NewViewer()
	require.NoError(t, v.LoadFilesAndDirs(dir))

	assert.True(t, v.AutoContrast)
	assert.True(t, v.ContrastParams(0).UsePercentile)
	assert.Equal(t, [3]int{1, 0, 1}, v.CompositeChannels())
	assert.Equal(t, filepath.Join(dir, "a.spp"), v.Sidecar)
	assert.Equal(t, 550.0, v.Resolutions()[1].Wavelength)

	img, err := v.DefaultComposite()
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	assert.Error(t, v.LoadFilesAndDirs(filepath.Join(dir, "missing")))
}

func TestLoadFilesExplicitSidecarFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "empty.spp", "# nothing here\n")

	v := NewViewer()
	assert.Error(t, v.LoadFilesAndDirs(bad))
}

func TestPeakAndNormalized(t *testing.T) {
	points := []SpectralPoint{
		{Resolution: spectral.Resolution{Channel: 0, Wavelength: 400}, Value16: 10},
		{Resolution: spectral.Resolution{Channel: 1, Wavelength: 500}, Value16: 30},
		{Resolution: spectral.Resolution{Channel: 2, Wavelength: 600}, Value16: 20},
	}

	p, ok := Peak(points)
	require.True(t, ok)
	assert.Equal(t, 1, p.Channel)

	_, ok = Peak(nil)
	assert.False(t, ok)

	assert.InDeltaSlice(t, []float64{10.0 / 60, 30.0 / 60, 20.0 / 60}, Normalized(points), 1e-12)
	assert.Equal(t, []float64{0, 0}, Normalized(make([]SpectralPoint, 2)))

	wl, vals := Series(points)
	assert.Equal(t, []float64{400, 500, 600}, wl)
	assert.Equal(t, []float64{10, 30, 20}, vals)
}

func TestClose(t *testing.T) {
	path := writeCube(t, t.TempDir(), "scene.tif", 2)
	v := NewViewer()
	require.NoError(t, v.LoadRaster(path))

	v.Close()
	assert.Equal(t, 0, v.Geometry().NumChannels)
	assert.Nil(t, v.Spectrum16(0, 0))
	assert.Equal(t, make([]uint32, cube.NumBins), v.Histogram(0))
	_, max := v.MinMax(0)
	assert.Equal(t, uint16(65535), max)
}
