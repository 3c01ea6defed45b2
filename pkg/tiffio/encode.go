package tiffio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	tImageDescription = 270
	tSoftware         = 305
)

// EncodeOptions controls how Encode lays channels out on disk.
type EncodeOptions struct {
	Layout        LayoutKind // MultiPage or Interleaved; SingleChannel needs exactly one channel
	BitsPerSample int        // 8 or 16; 0 means 16
	RowsPerStrip  int        // 0 means one strip per plane

	Description string // ImageDescription tag, optional
	Software    string // Software tag, optional
}

// an ifdEntry is held as a list of values, or as a string for ASCII tags.
type ifdEntry struct {
	tag      uint16
	datatype uint16
	vals     []uint32
	ascii    string
}

func (e ifdEntry) count() uint32 {
	if e.datatype == dtASCII {
		return uint32(len(e.ascii) + 1)
	}
	return uint32(len(e.vals))
}

func (e ifdEntry) dataLen() int {
	return int(lengths[e.datatype] * e.count())
}

func (e ifdEntry) putData(b []byte) {
	if e.datatype == dtASCII {
		copy(b, e.ascii)
		b[len(e.ascii)] = 0
		return
	}
	for i, v := range e.vals {
		switch e.datatype {
		case dtShort:
			binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
		case dtLong:
			binary.LittleEndian.PutUint32(b[4*i:], v)
		}
	}
}

// ifdSize is the number of bytes an IFD takes, including the values that
// don't fit inline. Out-of-line values are word aligned.
func ifdSize(entries []ifdEntry) int {
	n := 2 + ifdLen*len(entries) + 4
	for _, e := range entries {
		if l := e.dataLen(); l > 4 {
			n += l + l%2
		}
	}
	return n
}

// Encode writes channels as a little-endian, uncompressed TIFF. All the
// directories come first, and the strip data after them in directory order.
// Each channel must hold width*height samples; 8-bit output keeps the high
// byte of each sample.
func Encode(w io.Writer, width, height int, channels [][]uint16, opt EncodeOptions) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("encode: bad geometry %dx%d", width, height)
	}
	if len(channels) == 0 {
		return fmt.Errorf("encode: no channels")
	}
	for i, ch := range channels {
		if len(ch) != width*height {
			return fmt.Errorf("encode: channel %d has %d samples, want %d", i, len(ch), width*height)
		}
	}

	bps := opt.BitsPerSample
	if bps == 0 {
		bps = 16
	}
	if bps != 8 && bps != 16 {
		return UnsupportedError(fmt.Sprintf("BitsPerSample of %d", bps))
	}
	rps := opt.RowsPerStrip
	if rps <= 0 || rps > height {
		rps = height
	}

	// pages[i] lists the channels stored, interleaved, in directory i.
	var pages [][]int
	switch opt.Layout {
	case MultiPage:
		for i := range channels {
			pages = append(pages, []int{i})
		}
	case Interleaved:
		page := make([]int, len(channels))
		for i := range page {
			page[i] = i
		}
		pages = [][]int{page}
	default:
		if len(channels) != 1 {
			return fmt.Errorf("encode: %d channels can't be written as a single channel", len(channels))
		}
		pages = [][]int{{0}}
	}

	strips := (height + rps - 1) / rps
	bytesPerSample := bps / 8

	// First pass: the entries of every directory, with placeholder strip offsets.
	dirs := make([][]ifdEntry, len(pages))
	for i, page := range pages {
		spp := len(page)
		bpsVals := make([]uint32, spp)
		for j := range bpsVals {
			bpsVals[j] = uint32(bps)
		}
		counts := make([]uint32, strips)
		for s := range counts {
			rows := min(rps, height-s*rps)
			counts[s] = uint32(rows * width * spp * bytesPerSample)
		}

		entries := []ifdEntry{
			{tag: tImageWidth, datatype: dtLong, vals: []uint32{uint32(width)}},
			{tag: tImageLength, datatype: dtLong, vals: []uint32{uint32(height)}},
			{tag: tBitsPerSample, datatype: dtShort, vals: bpsVals},
			{tag: tCompression, datatype: dtShort, vals: []uint32{cNone}},
			{tag: tPhotometricInterpretation, datatype: dtShort, vals: []uint32{pBlackIsZero}},
		}
		if opt.Description != "" {
			entries = append(entries, ifdEntry{tag: tImageDescription, datatype: dtASCII, ascii: opt.Description})
		}
		entries = append(entries,
			ifdEntry{tag: tStripOffsets, datatype: dtLong, vals: make([]uint32, strips)},
			ifdEntry{tag: tSamplesPerPixel, datatype: dtShort, vals: []uint32{uint32(spp)}},
			ifdEntry{tag: tRowsPerStrip, datatype: dtLong, vals: []uint32{uint32(rps)}},
			ifdEntry{tag: tStripByteCounts, datatype: dtLong, vals: counts},
			ifdEntry{tag: tPlanarConfiguration, datatype: dtShort, vals: []uint32{pcChunky}},
		)
		if opt.Software != "" {
			entries = append(entries, ifdEntry{tag: tSoftware, datatype: dtASCII, ascii: opt.Software})
		}
		if spp > 1 {
			entries = append(entries, ifdEntry{tag: tExtraSamples, datatype: dtShort, vals: make([]uint32, spp-1)})
		}
		dirs[i] = entries
	}

	// Second pass: now the directory sizes are known, place the strips.
	headerLen := 8
	for _, entries := range dirs {
		headerLen += ifdSize(entries)
	}
	dataOffset := uint32(headerLen)
	for _, entries := range dirs {
		for _, e := range entries {
			if e.tag != tStripOffsets {
				continue
			}
			counts := entries[indexOfTag(entries, tStripByteCounts)].vals
			for s := range e.vals {
				e.vals[s] = dataOffset
				dataOffset += counts[s]
			}
		}
	}

	head := make([]byte, headerLen)
	copy(head, leHeader)
	binary.LittleEndian.PutUint32(head[4:], 8)
	off := 8
	for i, entries := range dirs {
		next := 0
		size := ifdSize(entries)
		if i < len(dirs)-1 {
			next = off + size
		}
		putIFD(head[off:off+size], off, entries, uint32(next))
		off += size
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(head); err != nil {
		return err
	}

	for _, page := range pages {
		row := make([]byte, width*len(page)*bytesPerSample)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				for j, ch := range page {
					v := channels[ch][y*width+x]
					k := (x*len(page) + j) * bytesPerSample
					if bytesPerSample == 2 {
						binary.LittleEndian.PutUint16(row[k:], v)
					} else {
						row[k] = uint8(v >> 8)
					}
				}
			}
			if _, err := bw.Write(row); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func indexOfTag(entries []ifdEntry, tag uint16) int {
	for i, e := range entries {
		if e.tag == tag {
			return i
		}
	}
	return -1
}

// putIFD serializes entries into b, which starts at file offset base.
func putIFD(b []byte, base int, entries []ifdEntry, next uint32) {
	binary.LittleEndian.PutUint16(b[0:], uint16(len(entries)))
	extra := 2 + ifdLen*len(entries) + 4

	for i, e := range entries {
		p := b[2+i*ifdLen : 2+(i+1)*ifdLen]
		binary.LittleEndian.PutUint16(p[0:], e.tag)
		binary.LittleEndian.PutUint16(p[2:], e.datatype)
		binary.LittleEndian.PutUint32(p[4:], e.count())

		if l := e.dataLen(); l <= 4 {
			e.putData(p[8:12])
		} else {
			binary.LittleEndian.PutUint32(p[8:], uint32(base+extra))
			e.putData(b[extra : extra+l])
			extra += l + l%2
		}
	}

	binary.LittleEndian.PutUint32(b[2+ifdLen*len(entries):], next)
}
