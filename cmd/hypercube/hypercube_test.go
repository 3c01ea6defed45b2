package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/hypercube/pkg/tiffio"
)

func writeCube(t *testing.T, dir string) string {
	t.Helper()
	chans := make([][]uint16, 4)
	for c := range chans {
		chans[c] = make([]uint16, 6*5)
		for i := range chans[c] {
			chans[c][i] = uint16(500*c + 10*i)
		}
	}
	path := filepath.Join(dir, "cube.tif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiffio.Encode(f, 6, 5, chans, tiffio.EncodeOptions{Layout: tiffio.Interleaved}))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.spp"), []byte("450\n550\n650\n750\n"), 0644))
	return path
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cube := writeCube(t, dir)
	out := filepath.Join(dir, "r.png")
	hdrOut := filepath.Join(dir, "r.hdr")

	require.NoError(t, run(t, renderCmd(), cube, "-o", out, "--rgb", "3,2,1", "--hdr", hdrOut, "--title", "auto"))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.FileExists(t, hdrOut)

	thumb := filepath.Join(dir, "t.tif")
	require.NoError(t, run(t, renderCmd(), cube, "-o", thumb, "--channel", "1", "--palette", "viridis", "--thumb", "3", "--min", "500", "--max", "700"))
	assert.FileExists(t, thumb)

	require.NoError(t, run(t, renderCmd(), cube, "-o", out, "--tonemap", "linear"))
	require.NoError(t, run(t, renderCmd(), cube, "-o", out, "--autocontrast", "--percentlow", "10"))
	assert.Error(t, run(t, renderCmd(), cube, "-o", out, "--tonemap", "nope"))
	assert.Error(t, run(t, renderCmd(), cube, "--rgb", "1,2"))
	assert.Error(t, run(t, renderCmd(), cube, "--channel", "9"))
	assert.Error(t, run(t, renderCmd(), dir+"/nothing"))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	cube := writeCube(t, dir)
	out := filepath.Join(dir, "e.tif")

	require.NoError(t, run(t, extractCmd(), cube, "-o", out, "--channels", "2,0"))
	ras, err := tiffio.Load(out)
	require.NoError(t, err)
	require.Len(t, ras.Channels, 2)
	assert.Equal(t, uint16(1000+10*7), ras.Channels[0][7])
	assert.Equal(t, uint16(10*7), ras.Channels[1][7])

	acq, err := tiffio.ReadAcquisition(out)
	require.NoError(t, err)
	assert.Equal(t, "hypercube", acq.Software)
}

func TestOtherCommands(t *testing.T) {
	dir := t.TempDir()
	cube := writeCube(t, dir)

	assert.NoError(t, run(t, infoCmd(), cube))
	assert.NoError(t, run(t, statsCmd(), cube, "--channel", "2"))
	assert.NoError(t, run(t, spectrumCmd(), cube, "--x", "2", "--y", "3", "--plot", filepath.Join(dir, "s.png")))
	assert.FileExists(t, filepath.Join(dir, "s.png"))
	assert.Error(t, run(t, spectrumCmd(), cube, "--x", "20"))

	assert.NoError(t, run(t, bandsCmd(), filepath.Join(dir, "cube.spp")))
	assert.NoError(t, run(t, bandsCmd(), "--generate", "5"))
	assert.Error(t, run(t, bandsCmd()))
}
