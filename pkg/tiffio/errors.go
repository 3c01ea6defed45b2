package tiffio

import "fmt"

// A FormatError reports that the input is not a valid TIFF image.
type FormatError string

func (e FormatError) Error() string {
	return "tiff: invalid format: " + string(e)
}

// An UnsupportedError reports that the input uses a valid but
// unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "tiff: unsupported feature: " + string(e)
}

// A DecodeError is fatal to a load attempt: the file could not be opened,
// or its header/geometry could not be read. Nothing is returned alongside it.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode '%s': %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
