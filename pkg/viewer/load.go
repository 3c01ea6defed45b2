package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LoadFilesAndDirs loads each arg in turn: yaml files as config, tiffs as
// the cube, sidecar files as spectral metadata. Directories are walked for
// config and rasters, config first; metadata inside them is left for
// LoadRaster to find.
func (v *Viewer) LoadFilesAndDirs(args ...string) error {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			contents, err := os.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			names := []string{}
			for _, content := range contents {
				name := filepath.Join(arg, content.Name())
				if content.IsDir() || v.fileKind(name) == kindConfig || v.fileKind(name) == kindRaster {
					names = append(names, name)
				}
			}
			sort.SliceStable(names, func(i, j int) bool { return v.loadOrder(names[i]) < v.loadOrder(names[j]) })
			if err := v.LoadFilesAndDirs(names...); err != nil {
				return fmt.Errorf("load %s: %v", arg, err)
			}

		default:
			if err := v.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %v", arg, err)
			}
		}
	}

	return nil
}

const (
	kindConfig = iota
	kindRaster
	kindSidecar
	kindOther
)

func (v *Viewer) fileKind(filename string) int {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "yaml", "yml":
		return kindConfig
	case "tif", "tiff":
		return kindRaster
	}
	for _, s := range v.SidecarExtensions {
		if ext == strings.ToLower(strings.TrimPrefix(s, ".")) {
			return kindSidecar
		}
	}
	return kindOther
}

func (v *Viewer) loadOrder(filename string) int {
	if info, err := os.Stat(filename); err == nil && info.IsDir() {
		return kindOther // Subdirectories last
	}
	return v.fileKind(filename)
}

func (v *Viewer) loadFile(filename string) error {
	switch v.fileKind(filename) {

	case kindConfig:
		cfg, err := LoadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %v", filename, err)
		}
		v.Config = cfg
		log.SetLevel(cfg.LogLevel())
		log.Printf("Loaded base configuration from %s\n", filename)

	case kindRaster:
		if err := v.LoadRaster(filename); err != nil {
			return fmt.Errorf("Loading %s as TIFF failed: %v", filename, err)
		}

	case kindSidecar:
		if _, err := v.ReadSpectralBands(filename); err != nil {
			return fmt.Errorf("Loading %s as spectral metadata failed: %v", filename, err)
		}

	default:
		log.Debugf("skipping %s", filename)
	}

	return nil
}
