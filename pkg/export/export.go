// Package export writes cube renders and channel data out to files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/tiff"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/tiffio"
)

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// WriteTIFF writes an 8-bit render as a deflated TIFF.
func WriteTIFF(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
	}
}

// WriteHDR outputs a Radiance RGBE file, for HDR tools.
func WriteHDR(img hdr.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		err := rgbe.Encode(writer, img)
		if err != nil {
			log.Debugf("WriteHDR, encoding RGBE file: %v", err)
		}
		return err
	}
}

// WriteChannels copies raw 16-bit channels out of a cube into a new TIFF,
// in the order given. An empty list means every channel.
func WriteChannels(c *cube.Cube, channels []int, filename string, opt tiffio.EncodeOptions) error {
	g := c.Geometry()
	if len(channels) == 0 {
		for i := 0; i < g.NumChannels; i++ {
			channels = append(channels, i)
		}
	}

	raw := make([][]uint16, len(channels))
	for k, i := range channels {
		var err error
		if raw[k], err = c.Channel16(i); err != nil {
			return err
		}
	}
	if opt.Layout == tiffio.SingleChannel && len(raw) > 1 {
		opt.Layout = tiffio.MultiPage
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	if err := tiffio.Encode(writer, g.Width, g.Height, raw, opt); err != nil {
		writer.Close()
		return fmt.Errorf("encode '%s': %v", filename, err)
	}
	log.Debugf("wrote %d channels to %s", len(raw), filename)
	return writer.Close()
}
