package tiffio

import "fmt"

// LayoutKind says how channels are arranged on disk.
type LayoutKind int

const (
	SingleChannel LayoutKind = iota // one directory, one sample per pixel (or anything we can't split)
	MultiPage                       // one directory per channel
	Interleaved                     // one directory, one sample per channel per pixel
)

func (k LayoutKind) String() string {
	switch k {
	case MultiPage:
		return "multipage"
	case Interleaved:
		return "interleaved"
	default:
		return "single"
	}
}

// A Layout is the result of classifying a file's directory structure.
type Layout struct {
	Kind     LayoutKind
	Channels int
}

func (l Layout) String() string {
	return fmt.Sprintf("%s(%d)", l.Kind, l.Channels)
}

// ClassifyLayout decides how many channels a file exposes, given the
// number of directories in it and the SamplesPerPixel of the first one.
// Files with several directories that each carry several samples are
// treated as a single channel: only sample 0 of the first directory is used.
func ClassifyLayout(directoryCount, samplesPerPixel int) Layout {
	switch {
	case directoryCount > 1 && samplesPerPixel == 1:
		return Layout{Kind: MultiPage, Channels: directoryCount}
	case directoryCount == 1 && samplesPerPixel > 1:
		return Layout{Kind: Interleaved, Channels: samplesPerPixel}
	default:
		return Layout{Kind: SingleChannel, Channels: 1}
	}
}
