package spectral

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSidecarExtensions are tried in this order.
var DefaultSidecarExtensions = []string{"spp", "xml", "hdr"}

var ErrNoSidecar = errors.New("no spectral sidecar found")

// FindSidecar looks for the metadata file that goes with a raster. A file
// with the same base name and one of the extensions wins; otherwise it is
// the first file in the directory (by name) with the earliest-listed
// extension, matched without regard to case.
func FindSidecar(rasterPath string, exts ...string) (string, error) {
	if len(exts) == 0 {
		exts = DefaultSidecarExtensions
	}

	dir := filepath.Dir(rasterPath)
	base := strings.TrimSuffix(filepath.Base(rasterPath), filepath.Ext(rasterPath))

	for _, ext := range exts {
		candidate := filepath.Join(dir, base+"."+strings.TrimPrefix(ext, "."))
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("readdir %s: %w", dir, err)
	}
	for _, ext := range exts {
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			if strings.EqualFold(filepath.Ext(e.Name()), "."+strings.TrimPrefix(ext, ".")) {
				return filepath.Join(dir, e.Name()), nil
			}
		}
	}

	return "", fmt.Errorf("%s: %w", rasterPath, ErrNoSidecar)
}
