package spectral

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ReadBands reads the records of a sidecar file, in any of the supported
// formats. It fails if the file can't be read or yields no bands.
func ReadBands(path string) ([]Band, error) {
	cat, err := ReadCatalog(path)
	if err != nil {
		return nil, err
	}
	return cat.Bands, nil
}

// ReadCatalog is ReadBands, plus whatever else the file says about itself.
func ReadCatalog(path string) (*Catalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	cat := &Catalog{Path: path, Format: DetectFormat(path, contents)}

	switch cat.Format {
	case FormatXML:
		cat.Bands, cat.RasterBands, err = parseXML(bytes.NewReader(contents))
	case FormatENVI:
		cat.Bands = parseENVI(contents)
	default:
		cat.Bands, err = parsePlain(bytes.NewReader(contents))
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(cat.Bands) == 0 {
		return nil, &ParseError{Path: path, Err: ErrNoBands}
	}

	log.Debugf("spectral '%s': %d bands (%s), %s", path, len(cat.Bands), cat.Format, Summarize(cat.Bands))
	return cat, nil
}

// DetectFormat decides how to parse a sidecar. The extension picks ENVI
// for .hdr; otherwise the first line tells XML apart from a plain list.
func DetectFormat(path string, contents []byte) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".hdr" {
		return FormatENVI
	}
	if looksLikeXML(contents) {
		return FormatXML
	}
	if ext != ".spp" && ext != ".xml" && enviWavelengths.Match(contents) {
		return FormatENVI
	}
	return FormatPlain
}

func looksLikeXML(contents []byte) bool {
	first, _, _ := bytes.Cut(contents, []byte("\n"))
	first = bytes.TrimPrefix(first, []byte("\xef\xbb\xbf"))
	first = bytes.TrimSpace(first)
	return bytes.HasPrefix(first, []byte("<?xml")) || bytes.Contains(first, []byte("<SPP_ROOT>"))
}
