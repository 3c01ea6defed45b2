package viewer

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/spectral"
)

/* Example config file ...

verbosity: 1
autocontrast: true
percentcutlow: 1.5
percentcuthigh: 0.5
composite: [54, 28, 13]
maxcachedviews: 16
palette: viridis
sidecarextensions: [spp, hdr]

*/

type Config struct {
	Verbosity int

	AutoContrast   bool    // Percentile stretch every channel as it's loaded; off means full min/max range
	PercentCutLow  float64 // Used by AutoContrast, in [0,50)
	PercentCutHigh float64

	Composite      []int  // Red, green and blue channels; empty means pick from the channel count
	MaxCachedViews int    // Bound on derived 8-bit views kept in memory; 0 means no limit
	Palette        string // For single channel pseudocolor renders

	SidecarExtensions []string // Tried in order when looking for spectral metadata
}

func NewConfig() Config {
	return Config{
		PercentCutLow:     cube.DefaultPercentCut,
		PercentCutHigh:    cube.DefaultPercentCut,
		Palette:           "gray",
		SidecarExtensions: append([]string{}, spectral.DefaultSidecarExtensions...),
	}
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// LoadConfig reads a yaml file over the top of the defaults.
func LoadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}

	c, err := newConfigFromYaml(contents)
	if err != nil {
		return Config{}, fmt.Errorf("config parse %s: %v", filename, err)
	}
	return c, nil
}

// Validate checks the values that can't be fixed up silently.
func (c Config) Validate() error {
	for _, p := range []float64{c.PercentCutLow, c.PercentCutHigh} {
		if p < 0 || p >= 50 {
			return fmt.Errorf("percent cut %.2f not in [0,50)", p)
		}
	}
	if len(c.Composite) != 0 && len(c.Composite) != 3 {
		return fmt.Errorf("composite wants 3 channels, not %d", len(c.Composite))
	}
	if c.MaxCachedViews < 0 {
		return fmt.Errorf("maxcachedviews can't be negative")
	}
	if _, err := cube.ParsePalette(c.Palette); err != nil {
		return err
	}
	return nil
}

// LogLevel maps Verbosity onto a logrus level.
func (c Config) LogLevel() log.Level {
	switch {
	case c.Verbosity >= 2:
		return log.TraceLevel
	case c.Verbosity == 1:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
