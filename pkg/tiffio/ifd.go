package tiffio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// A directory is one parsed IFD. Only the integer-valued entries are kept;
// they are all this package needs to lay out pixel data.
type directory struct {
	offset   int64
	features map[int][]uint
}

// firstVal returns the first uint of the features entry with the given tag,
// or 0 if the tag does not exist.
func (d *directory) firstVal(tag int) uint {
	f := d.features[tag]
	if len(f) == 0 {
		return 0
	}
	return f[0]
}

func (d *directory) valOr(tag int, def uint) uint {
	if _, exists := d.features[tag]; !exists {
		return def
	}
	return d.firstVal(tag)
}

// reader walks the IFD chain of a tiff file.
type reader struct {
	r         io.ReaderAt
	byteOrder binary.ByteOrder
	dirs      []*directory
}

func newReader(r io.ReaderAt) (*reader, error) {
	p := make([]byte, 8)
	if _, err := r.ReadAt(p, 0); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	rd := &reader{r: r}
	switch string(p[0:4]) {
	case leHeader:
		rd.byteOrder = binary.LittleEndian
	case beHeader:
		rd.byteOrder = binary.BigEndian
	case "II\x2B\x00", "MM\x00\x2B":
		return nil, UnsupportedError("BigTIFF")
	default:
		return nil, FormatError("malformed header")
	}

	next := int64(rd.byteOrder.Uint32(p[4:8]))
	seen := map[int64]bool{}
	for next != 0 {
		if seen[next] {
			break // A looped chain; keep what we have.
		}
		if len(rd.dirs) >= maxDirectories {
			break
		}
		seen[next] = true

		d, n, err := rd.parseIFD(next)
		if err != nil {
			if len(rd.dirs) == 0 {
				return nil, err
			}
			break // A broken trailing directory doesn't invalidate the ones before it.
		}
		rd.dirs = append(rd.dirs, d)
		next = n
	}

	if len(rd.dirs) == 0 {
		return nil, FormatError("no image directories")
	}

	return rd, nil
}

// parseIFD reads the directory at offset, and returns it plus the offset of the next one.
func (rd *reader) parseIFD(offset int64) (*directory, int64, error) {
	p := make([]byte, 2)
	if _, err := rd.r.ReadAt(p, offset); err != nil {
		return nil, 0, FormatError(fmt.Sprintf("IFD at %d: %v", offset, err))
	}
	numItems := int(rd.byteOrder.Uint16(p))

	p = make([]byte, ifdLen*numItems+4)
	if _, err := rd.r.ReadAt(p, offset+2); err != nil {
		return nil, 0, FormatError(fmt.Sprintf("IFD at %d: %v", offset, err))
	}

	d := &directory{offset: offset, features: map[int][]uint{}}
	for i := 0; i < numItems; i++ {
		entry := p[i*ifdLen : (i+1)*ifdLen]
		tag := int(rd.byteOrder.Uint16(entry[0:2]))
		vals, err := rd.entryValues(entry)
		if err != nil {
			return nil, 0, err
		}
		if vals != nil {
			d.features[tag] = vals
		}
	}

	next := int64(rd.byteOrder.Uint32(p[ifdLen*numItems:]))
	return d, next, nil
}

// entryValues decodes the integer values of an IFD entry. Non-integer
// entries (ASCII, rationals, floats) are skipped and return nil.
func (rd *reader) entryValues(entry []byte) ([]uint, error) {
	datatype := rd.byteOrder.Uint16(entry[2:4])
	count := rd.byteOrder.Uint32(entry[4:8])

	switch datatype {
	case dtByte, dtShort, dtLong:
	default:
		return nil, nil
	}

	datalen := uint64(lengths[datatype]) * uint64(count)
	if datalen > 1<<30 {
		return nil, FormatError("IFD entry too large")
	}

	var raw []byte
	if datalen <= 4 {
		raw = entry[8 : 8+datalen]
	} else {
		raw = make([]byte, datalen)
		if _, err := rd.r.ReadAt(raw, int64(rd.byteOrder.Uint32(entry[8:12]))); err != nil {
			return nil, FormatError(fmt.Sprintf("IFD entry data: %v", err))
		}
	}

	u := make([]uint, count)
	switch datatype {
	case dtByte:
		for i := range u {
			u[i] = uint(raw[i])
		}
	case dtShort:
		for i := range u {
			u[i] = uint(rd.byteOrder.Uint16(raw[2*i : 2*i+2]))
		}
	case dtLong:
		for i := range u {
			u[i] = uint(rd.byteOrder.Uint32(raw[4*i : 4*i+4]))
		}
	}
	return u, nil
}

// A dirGeometry is everything needed to pull pixel samples out of one directory.
type dirGeometry struct {
	width, height int
	bps, spp      int
	compression   int
	predictor     int
	planar        int
	rowsPerStrip  int
	stripOffsets  []uint
	stripCounts   []uint
}

func (g dirGeometry) planes() int {
	if g.planar == pcPlanar {
		return g.spp
	}
	return 1
}

// samplesPerRow is the number of samples in one row of one strip.
func (g dirGeometry) samplesPerRow() int {
	if g.planar == pcPlanar {
		return g.width
	}
	return g.width * g.spp
}

func (g dirGeometry) stripsPerPlane() int {
	return (g.height + g.rowsPerStrip - 1) / g.rowsPerStrip
}

// geometry validates a directory, and extracts its geometry.
func (d *directory) geometry() (dirGeometry, error) {
	g := dirGeometry{
		width:       int(d.firstVal(tImageWidth)),
		height:      int(d.firstVal(tImageLength)),
		bps:         int(d.valOr(tBitsPerSample, 1)),
		spp:         int(d.valOr(tSamplesPerPixel, 1)),
		compression: int(d.valOr(tCompression, cNone)),
		predictor:   int(d.valOr(tPredictor, prNone)),
		planar:      int(d.valOr(tPlanarConfiguration, pcChunky)),
	}

	if g.width <= 0 || g.height <= 0 {
		return g, FormatError("missing image dimensions")
	}
	if g.spp <= 0 {
		return g, FormatError("bad SamplesPerPixel")
	}
	if d.firstVal(tTileWidth) != 0 {
		return g, UnsupportedError("tiled images")
	}
	for _, b := range d.features[tBitsPerSample] {
		if int(b) != g.bps {
			return g, UnsupportedError("mixed BitsPerSample")
		}
	}
	if g.bps != 8 && g.bps != 16 {
		return g, UnsupportedError(fmt.Sprintf("BitsPerSample of %d", g.bps))
	}
	for _, sf := range d.features[tSampleFormat] {
		if sf != sfUint {
			return g, UnsupportedError("non-integer SampleFormat")
		}
	}
	switch g.compression {
	case cNone, cLZW, cDeflate, cDeflateOld, cPackBits:
	default:
		return g, UnsupportedError(fmt.Sprintf("compression value %d", g.compression))
	}
	if g.predictor != prNone && g.predictor != prHorizontal {
		return g, UnsupportedError(fmt.Sprintf("predictor value %d", g.predictor))
	}

	g.rowsPerStrip = int(d.valOr(tRowsPerStrip, uint(g.height)))
	if g.rowsPerStrip <= 0 || g.rowsPerStrip > g.height {
		g.rowsPerStrip = g.height
	}

	g.stripOffsets = d.features[tStripOffsets]
	g.stripCounts = d.features[tStripByteCounts]
	if n := g.stripsPerPlane() * g.planes(); len(g.stripOffsets) < n || len(g.stripCounts) < n {
		return g, FormatError("inconsistent header")
	}

	return g, nil
}
