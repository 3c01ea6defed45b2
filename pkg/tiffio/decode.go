package tiffio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/tiff/lzw"
)

// Info describes a raster file without decoding its pixels.
type Info struct {
	Width           int
	Height          int
	NumChannels     int
	BitsPerSample   int // Of the first directory; each directory is upconverted on its own terms
	SamplesPerPixel int
	Directories     int
	Layout          Layout
	ByteOrder       binary.ByteOrder
}

func (i Info) String() string {
	return fmt.Sprintf("%dx%d, %d channels (%s), %d-bit, %d dirs, %d spp",
		i.Width, i.Height, i.NumChannels, i.Layout, i.BitsPerSample, i.Directories, i.SamplesPerPixel)
}

// A Raster is a fully decoded file: one row-major buffer of Width*Height
// 16-bit samples per channel.
type Raster struct {
	Info
	Channels [][]uint16

	// SkippedRows counts rows (per channel or plane) that could not be read
	// and were left zero-filled. The decode still counts as a success.
	SkippedRows int
}

// Probe opens a file and works out its geometry and channel layout.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	info, _, err := probe(f)
	if err != nil {
		return Info{}, &DecodeError{Path: path, Err: err}
	}
	return info, nil
}

func probe(r io.ReaderAt) (Info, *reader, error) {
	rd, err := newReader(r)
	if err != nil {
		return Info{}, nil, err
	}

	g, err := rd.dirs[0].geometry()
	if err != nil {
		return Info{}, nil, err
	}

	layout := ClassifyLayout(len(rd.dirs), g.spp)
	info := Info{
		Width:           g.width,
		Height:          g.height,
		NumChannels:     layout.Channels,
		BitsPerSample:   g.bps,
		SamplesPerPixel: g.spp,
		Directories:     len(rd.dirs),
		Layout:          layout,
		ByteOrder:       rd.byteOrder,
	}
	return info, rd, nil
}

// Load probes and decodes a file in one go.
func Load(path string) (*Raster, error) {
	info, err := Probe(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, info)
}

// Decode reads every channel described by info out of the file. Rows that
// can't be read are zero-filled and counted in Raster.SkippedRows; only a
// failure to open the file or read its header is returned as an error.
func Decode(path string, info Info) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	ras, err := decode(f, info)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if ras.SkippedRows > 0 {
		log.Debugf("decode '%s': %d rows unreadable, zero-filled", path, ras.SkippedRows)
	}
	return ras, nil
}

// DecodeReader is Decode for data that is already open, or in memory.
func DecodeReader(r io.ReaderAt) (*Raster, error) {
	info, _, err := probe(r)
	if err != nil {
		return nil, err
	}
	return decode(r, info)
}

func decode(r io.ReaderAt, info Info) (*Raster, error) {
	rd, err := newReader(r)
	if err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 || info.NumChannels <= 0 {
		return nil, FormatError("empty geometry")
	}
	need := int64(info.Width) * int64(info.Height) * int64(info.NumChannels) * 2
	if have := rd.dataSize(); need > have*maxExpansion {
		return nil, FormatError(fmt.Sprintf("%dx%dx%d needs %d bytes of samples, only %d bytes of data",
			info.Width, info.Height, info.NumChannels, need, have))
	}

	ras := &Raster{Info: info, Channels: make([][]uint16, info.NumChannels)}
	for i := range ras.Channels {
		ras.Channels[i] = make([]uint16, info.Width*info.Height)
	}

	w := info.Width

	switch info.Layout.Kind {
	case MultiPage:
		for c := 0; c < info.NumChannels; c++ {
			if c >= len(rd.dirs) {
				ras.SkippedRows += info.Height
				continue
			}
			g, ok := rd.matchingGeometry(c, info)
			if !ok {
				ras.SkippedRows += info.Height
				continue
			}
			dst := ras.Channels[c]
			ras.SkippedRows += rd.decodeDirectory(g, 1, func(plane, y int, samples []uint16) {
				if g.spp == 1 || g.planar == pcPlanar {
					copy(dst[y*w:(y+1)*w], samples)
					return
				}
				for x := 0; x < w; x++ {
					dst[y*w+x] = samples[x*g.spp]
				}
			})
		}

	case Interleaved:
		g, ok := rd.matchingGeometry(0, info)
		if !ok {
			return nil, FormatError("first directory geometry changed")
		}
		n := min(info.NumChannels, g.spp)
		ras.SkippedRows += rd.decodeDirectory(g, g.planes(), func(plane, y int, samples []uint16) {
			if g.planar == pcPlanar {
				if plane < n {
					copy(ras.Channels[plane][y*w:(y+1)*w], samples)
				}
				return
			}
			for x := 0; x < w; x++ {
				px := samples[x*g.spp : x*g.spp+g.spp]
				for band := 0; band < n; band++ {
					ras.Channels[band][y*w+x] = px[band]
				}
			}
		})

	default:
		g, ok := rd.matchingGeometry(0, info)
		if !ok {
			return nil, FormatError("first directory geometry changed")
		}
		dst := ras.Channels[0]
		ras.SkippedRows += rd.decodeDirectory(g, 1, func(plane, y int, samples []uint16) {
			if g.spp == 1 || g.planar == pcPlanar {
				copy(dst[y*w:(y+1)*w], samples)
				return
			}
			for x := 0; x < w; x++ {
				dst[y*w+x] = samples[x*g.spp]
			}
		})
	}

	return ras, nil
}

// maxExpansion bounds how much larger the decoded channels may be than the
// data they come from. None of the supported compressions get near it.
const maxExpansion = 4096

// dataSize is the size of the underlying file when that can be found, and
// otherwise the total strip byte count the directories declare.
func (rd *reader) dataSize() int64 {
	switch r := rd.r.(type) {
	case interface{ Size() int64 }:
		return r.Size()
	case interface{ Stat() (os.FileInfo, error) }:
		if fi, err := r.Stat(); err == nil {
			return fi.Size()
		}
	}

	var n int64
	for _, d := range rd.dirs {
		for _, c := range d.features[tStripByteCounts] {
			n += int64(c)
		}
	}
	return n
}

// matchingGeometry fetches the geometry of directory i, and checks it fits
// the buffers that info asked for.
func (rd *reader) matchingGeometry(i int, info Info) (dirGeometry, bool) {
	g, err := rd.dirs[i].geometry()
	if err != nil {
		log.Warnf("directory %d: %v; channel left empty", i, err)
		return g, false
	}
	if g.width != info.Width || g.height != info.Height {
		log.Warnf("directory %d: geometry %dx%d differs from %dx%d; channel left empty",
			i, g.width, g.height, info.Width, info.Height)
		return g, false
	}
	return g, true
}

// decodeDirectory walks the strips of one directory, handing each complete
// row to sink as upconverted 16-bit samples. Rows from strips that can't be
// read or decompressed are not handed over; their count is returned.
func (rd *reader) decodeDirectory(g dirGeometry, planes int, sink func(plane, y int, samples []uint16)) int {
	skipped := 0
	bytesPerSample := g.bps / 8
	rowSamples := g.samplesPerRow()
	rowBytes := rowSamples * bytesPerSample
	samples := make([]uint16, rowSamples)

	stripsPerPlane := g.stripsPerPlane()
	for plane := 0; plane < planes; plane++ {
		for s := 0; s < stripsPerPlane; s++ {
			ymin := s * g.rowsPerStrip
			ymax := min(ymin+g.rowsPerStrip, g.height)
			idx := plane*stripsPerPlane + s

			buf, err := rd.readStrip(g, idx, (ymax-ymin)*rowBytes)
			if err != nil {
				log.Debugf("strip %d: %v", idx, err)
			}

			for y := ymin; y < ymax; y++ {
				off := (y - ymin) * rowBytes
				if off+rowBytes > len(buf) {
					skipped++
					continue
				}
				rd.unpackRow(g, buf[off:off+rowBytes], samples)
				sink(plane, y, samples)
			}
		}
	}
	return skipped
}

// readStrip reads and decompresses strip idx. It may return a short buffer
// along with an error; whatever complete rows it holds are still usable.
func (rd *reader) readStrip(g dirGeometry, idx int, want int) ([]byte, error) {
	offset := int64(g.stripOffsets[idx])
	n := int64(g.stripCounts[idx])
	if g.compression == cNone && n > int64(want) {
		n = int64(want)
	}

	raw := make([]byte, n)
	got, err := rd.r.ReadAt(raw, offset)
	raw = raw[:got]
	if err != nil && err != io.EOF {
		return nil, err
	}
	if got < int(n) && g.compression != cNone {
		return nil, io.ErrUnexpectedEOF // Don't feed a truncated stream to a decompressor.
	}

	switch g.compression {
	case cNone:
		return raw, nil

	case cLZW:
		return readUpTo(lzw.NewReader(bytes.NewReader(raw), lzw.MSB, 8), want)

	case cDeflate, cDeflateOld:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		return readUpTo(zr, want)

	case cPackBits:
		return unpackBits(raw, want)
	}

	return nil, UnsupportedError("compression")
}

func readUpTo(rc io.ReadCloser, want int) ([]byte, error) {
	defer rc.Close()
	buf := make([]byte, want)
	n, err := io.ReadFull(rc, buf)
	return buf[:n], err
}

// unpackBits decodes PackBits-compressed data (TIFF 6.0, p. 42).
func unpackBits(src []byte, want int) ([]byte, error) {
	dst := make([]byte, 0, want)
	for i := 0; i < len(src) && len(dst) < want; {
		code := int(int8(src[i]))
		i++
		switch {
		case code >= 0:
			n := code + 1
			if i+n > len(src) {
				return dst, io.ErrUnexpectedEOF
			}
			dst = append(dst, src[i:i+n]...)
			i += n
		case code != -128:
			if i >= len(src) {
				return dst, io.ErrUnexpectedEOF
			}
			for j := 0; j < 1-code; j++ {
				dst = append(dst, src[i])
			}
			i++
		}
	}
	return dst, nil
}

// unpackRow converts one row of raw bytes into 16-bit samples, undoing the
// horizontal predictor and upconverting 8-bit samples by v*257.
func (rd *reader) unpackRow(g dirGeometry, row []byte, out []uint16) {
	if g.bps == 16 {
		for i := range out {
			out[i] = rd.byteOrder.Uint16(row[2*i : 2*i+2])
		}
	} else {
		for i := range out {
			out[i] = uint16(row[i])
		}
	}

	if g.predictor == prHorizontal {
		stride := 1
		if g.planar != pcPlanar {
			stride = g.spp
		}
		mask := uint16(0xffff)
		if g.bps == 8 {
			mask = 0xff
		}
		for i := stride; i < len(out); i++ {
			out[i] = (out[i] + out[i-stride]) & mask
		}
	}

	if g.bps == 8 {
		for i := range out {
			out[i] *= 257
		}
	}
}
