package spectral

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

const xmlSidecar = `<?xml version="1.0" encoding="windows-1251"?>
<SPP_ROOT>
  <nRasterBands>3</nRasterBands>
  <Spectral>
    <WaveLength>
      <ChannelNumber>2</ChannelNumber>
      <WaveLen>550.5</WaveLen>
      <WaveDelta>4.25</WaveDelta>
      <OepNum>2</OepNum>
    </WaveLength>
    <WaveLength>
      <ChannelNumber>1</ChannelNumber>
      <WaveLen>500</WaveLen>
    </WaveLength>
  </Spectral>
</SPP_ROOT>
`

func TestReadXML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cube.spp", xmlSidecar)

	cat, err := ReadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, FormatXML, cat.Format)
	assert.Equal(t, 3, cat.RasterBands)

	require.Len(t, cat.Bands, 2)
	assert.Equal(t, Band{
		BandNumber:    1,
		Wavelength:    500,
		DetectorIndex: 1,
		Description:   "Channel 1 (λ=500.00nm, Δλ=0.00nm, OEP=1)",
	}, cat.Bands[0])
	assert.Equal(t, Band{
		BandNumber:      2,
		Wavelength:      550.5,
		WavelengthDelta: 4.25,
		DetectorIndex:   2,
		Description:     "Channel 2 (λ=550.50nm, Δλ=4.25nm, OEP=2)",
	}, cat.Bands[1])
}

func TestReadXMLWithoutProlog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cube.xml",
		"<SPP_ROOT><WaveLength><ChannelNumber>7</ChannelNumber><WaveLen>700</WaveLen></WaveLength></SPP_ROOT>\n")

	bands, err := ReadBands(path)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.Equal(t, 7, bands[0].BandNumber)
	assert.Equal(t, 700.0, bands[0].Wavelength)
}

func TestReadXMLMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cube.spp", `<?xml version="1.0"?><SPP_ROOT><WaveLength>`)

	_, err := ReadBands(path)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.False(t, errors.Is(err, ErrNoBands))
}

func TestReadPlain(t *testing.T) {
	contents := `# a comment
; another
// and another
* still a comment
% matlab style
Wavelength list (nm)

400.5
410, 420;430
-5 0 50000 abc 440
99999
`
	path := writeFile(t, t.TempDir(), "cube.spp", contents)

	cat, err := ReadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, FormatPlain, cat.Format)

	got := []float64{}
	for i, b := range cat.Bands {
		assert.Equal(t, i+1, b.BandNumber)
		assert.Equal(t, 1, b.DetectorIndex)
		got = append(got, b.Wavelength)
	}
	assert.Equal(t, []float64{400.5, 410, 420, 430, 440}, got)
	assert.Equal(t, "Band 5", cat.Bands[4].Description)
}

func TestReadENVI(t *testing.T) {
	contents := `ENVI
samples = 10
lines = 10
wavelength units = Nanometers
Wavelength = {
 400.5, 410.0,
 420.25 }
fwhm = {5, 5, 6}
`
	path := writeFile(t, t.TempDir(), "cube.hdr", contents)

	cat, err := ReadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, FormatENVI, cat.Format)
	require.Len(t, cat.Bands, 3)
	assert.Equal(t, 400.5, cat.Bands[0].Wavelength)
	assert.Equal(t, 420.25, cat.Bands[2].Wavelength)
	assert.Equal(t, 6.0, cat.Bands[2].WavelengthDelta)
	assert.Equal(t, 3, cat.Bands[2].BandNumber)
	assert.Equal(t, "Band 3", cat.Bands[2].Description)
}

func TestReadENVIWithoutBraces(t *testing.T) {
	contents := `ENVI
wavelength units = nm
wavelength = 500, 600
 700
band names = a
samples = 100
`
	path := writeFile(t, t.TempDir(), "cube.hdr", contents)

	bands, err := ReadBands(path)
	require.NoError(t, err)
	require.Len(t, bands, 3)
	assert.Equal(t, 700.0, bands[2].Wavelength)
}

func TestDetectFormat(t *testing.T) {
	envi := []byte("ENVI\nwavelength = {400, 500}\n")
	tests := []struct {
		path     string
		contents []byte
		want     Format
	}{
		{"a.hdr", []byte("<?xml version=\"1.0\"?>"), FormatENVI},
		{"a.spp", []byte("<?xml version=\"1.0\"?>\n<SPP_ROOT/>"), FormatXML},
		{"a.SPP", []byte("\xef\xbb\xbf<?xml version=\"1.0\"?>"), FormatXML},
		{"a.xml", []byte("  <SPP_ROOT>\n"), FormatXML},
		{"a.spp", []byte("400\n500\n"), FormatPlain},
		{"a.spp", envi, FormatPlain},
		{"a.txt", envi, FormatENVI},
		{"a.txt", []byte("400\n"), FormatPlain},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, DetectFormat(tc.path, tc.contents), "%s %q", tc.path, tc.contents)
	}
}

func TestReadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadBands(filepath.Join(dir, "missing.spp"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	for _, contents := range []string{"", "# only comments\n", "wavelength = {}\n"} {
		path := writeFile(t, dir, "empty.spp", contents)
		_, err := ReadBands(path)
		assert.True(t, errors.Is(err, ErrNoBands), "contents %q", contents)
	}

	path := writeFile(t, dir, "empty.hdr", "ENVI\nsamples = 3\n")
	_, err = ReadBands(path)
	assert.True(t, errors.Is(err, ErrNoBands))
}

func TestWriteEvenlySpacedReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.spp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteEvenlySpaced(f, 5, 400, 1000))
	require.NoError(t, f.Close())

	bands, err := ReadBands(path)
	require.NoError(t, err)
	got := []float64{}
	for _, b := range bands {
		got = append(got, b.Wavelength)
	}
	assert.Equal(t, []float64{400, 550, 700, 850, 1000}, got)

	assert.Error(t, WriteEvenlySpaced(f, 0, 400, 1000))
}
