package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abworrall/hypercube/pkg/cube"
	"github.com/abworrall/hypercube/pkg/export"
	"github.com/abworrall/hypercube/pkg/spectral"
	"github.com/abworrall/hypercube/pkg/tiffio"
	"github.com/abworrall/hypercube/pkg/viewer"
)

var (
	fVerbosity    int
	fSidecar      string
	fMin, fMax    uint16
	fPercentLow   float64
	fPercentHigh  float64
	fAutoContrast bool
)

func main() {
	root := &cobra.Command{
		Use:          "hypercube",
		Short:        "Inspect and render hyperspectral TIFF cubes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fVerbosity > 0 {
				log.SetLevel(viewer.Config{Verbosity: fVerbosity}.LogLevel())
			}
		},
	}

	root.PersistentFlags().IntVarP(&fVerbosity, "verbosity", "v", 0, "how verbose to get")
	root.PersistentFlags().StringVar(&fSidecar, "sidecar", "", "spectral metadata file, instead of looking next to the cube")

	root.AddCommand(infoCmd(), bandsCmd(), renderCmd(), spectrumCmd(), statsCmd(), extractCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// load builds a viewer from yaml files, cubes and directories, in the order
// LoadFilesAndDirs handles them.
func load(args []string) (*viewer.Viewer, error) {
	v := viewer.NewViewer()
	if fSidecar != "" {
		if _, err := v.ReadSpectralBands(fSidecar); err != nil {
			return nil, err
		}
	}
	if err := v.LoadFilesAndDirs(args...); err != nil {
		return nil, err
	}
	if !v.Cube.Loaded() {
		return nil, fmt.Errorf("no cube found in %s", strings.Join(args, " "))
	}

	if fVerbosity > v.Verbosity {
		v.Verbosity = fVerbosity
		log.SetLevel(v.LogLevel())
	}
	if v.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", v.AsYaml())
	}
	return v, nil
}

func contrastFlags(cmd *cobra.Command) {
	cmd.Flags().Uint16Var(&fMin, "min", 0, "raw value that maps to black (with --max)")
	cmd.Flags().Uint16Var(&fMax, "max", 0, "raw value that maps to white (with --min)")
	cmd.Flags().Float64Var(&fPercentLow, "percentlow", cube.DefaultPercentCut, "percent of pixels clipped to black")
	cmd.Flags().Float64Var(&fPercentHigh, "percenthigh", cube.DefaultPercentCut, "percent of pixels clipped to white")
	cmd.Flags().BoolVar(&fAutoContrast, "autocontrast", false, "percentile stretch every channel, instead of each channel's full range")
}

// applyContrast overrides the load-time contrast of the given channels, if
// any contrast flags were set.
func applyContrast(cmd *cobra.Command, v *viewer.Viewer, channels ...int) error {
	f := cmd.Flags()
	if fAutoContrast && !v.AutoContrast {
		if err := v.Cube.AutoContrast(fPercentLow, fPercentHigh); err != nil {
			return err
		}
		v.AutoContrast = true
	}
	for _, ch := range channels {
		switch {
		case f.Changed("min") || f.Changed("max"):
			if err := v.NormalizeToRange(ch, fMin, fMax); err != nil {
				return err
			}
		case f.Changed("percentlow") || f.Changed("percenthigh"):
			if err := v.NormalizeByPercentile(ch, fPercentLow, fPercentHigh); err != nil {
				return err
			}
		}
	}
	return nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [files and dirs]",
		Short: "Describe a cube and its spectral metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(args)
			if err != nil {
				return err
			}

			fmt.Printf("file:        %s\n", v.Path)
			fmt.Printf("layout:      %s\n", v.Info)
			if s := v.Acquisition.String(); s != "" {
				fmt.Printf("acquisition: %s\n", s)
			}
			fmt.Printf("memory:      %.1f MB\n", float64(v.Cube.MemoryUsage())/(1<<20))

			if v.Sidecar == "" {
				fmt.Printf("spectral:    none\n")
			} else {
				fmt.Printf("spectral:    %s, %s\n", v.Sidecar, spectral.Summarize(v.Bands))
			}

			counts := map[spectral.Association]int{}
			for _, r := range v.Resolutions() {
				counts[r.Kind]++
			}
			fmt.Printf("channels:    %d exact, %d positional, %d synthetic\n",
				counts[spectral.Exact], counts[spectral.Positional], counts[spectral.Synthetic])
			fmt.Printf("composite:   %v\n", v.CompositeChannels())
			return nil
		},
	}
}

func bandsCmd() *cobra.Command {
	var n int
	var from, to float64

	cmd := &cobra.Command{
		Use:   "bands [sidecar files]",
		Short: "List the records of sidecar files, or generate an evenly spaced one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n > 0 {
				return spectral.WriteEvenlySpaced(os.Stdout, n, from, to)
			}

			if fSidecar != "" {
				args = append([]string{fSidecar}, args...)
			}
			if len(args) == 0 {
				return fmt.Errorf("bands: nothing to list")
			}
			for _, arg := range args {
				cat, err := spectral.ReadCatalog(arg)
				if err != nil {
					return err
				}
				fmt.Printf("# %s: %s, %s\n", arg, cat.Format, spectral.Summarize(cat.Bands))
				if err := spectral.WriteTable(os.Stdout, cat.Bands); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "generate", 0, "write this many evenly spaced wavelengths")
	cmd.Flags().Float64Var(&from, "from", 400, "first generated wavelength, in nm")
	cmd.Flags().Float64Var(&to, "to", 1000, "last generated wavelength, in nm")
	return cmd
}

func renderCmd() *cobra.Command {
	var out, hdrOut, palette, title, tonemapper string
	var channel, thumb int
	var rgb []int

	cmd := &cobra.Command{
		Use:   "render [files and dirs]",
		Short: "Render one channel, or an RGB composite, to PNG or TIFF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(args)
			if err != nil {
				return err
			}

			var img image.Image
			if channel >= 0 {
				if err := applyContrast(cmd, v, channel); err != nil {
					return err
				}
				if palette == "" {
					palette = v.Palette
				}
				p, err := cube.ParsePalette(palette)
				if err != nil {
					return err
				}
				if img, err = v.Cube.PseudocolorImage(channel, p); err != nil {
					return err
				}
				if title == "auto" {
					title = v.Resolutions()[channel].String()
				}

			} else {
				channels := v.CompositeChannels()
				if len(rgb) == 3 {
					channels = [3]int{rgb[0], rgb[1], rgb[2]}
				} else if len(rgb) != 0 {
					return fmt.Errorf("--rgb wants 3 channels, not %d", len(rgb))
				}
				if err := applyContrast(cmd, v, channels[:]...); err != nil {
					return err
				}
				if img, err = v.CompositeImage(channels[0], channels[1], channels[2]); err != nil {
					return err
				}
				if title == "auto" {
					title = fmt.Sprintf("R=%d G=%d B=%d", channels[0], channels[1], channels[2])
				}

				if hdrOut != "" || tonemapper != "" {
					rad, err := export.NewRadiance(v.Cube, channels[0], channels[1], channels[2])
					if err != nil {
						return err
					}
					if hdrOut != "" {
						if err := export.WriteHDR(rad, hdrOut); err != nil {
							return err
						}
						log.Printf("Wrote %s\n", hdrOut)
					}
					if tonemapper != "" {
						if img, err = export.Tonemap(rad, tonemapper); err != nil {
							return err
						}
					}
				}
			}

			if thumb > 0 {
				img = export.Thumbnail(img, thumb)
			}
			if title != "" {
				img = export.Annotate(img, title)
			}

			switch strings.ToLower(filepath.Ext(out)) {
			case ".tif", ".tiff":
				err = export.WriteTIFF(img, out)
			default:
				err = export.WritePNG(img, out)
			}
			if err == nil {
				log.Printf("Wrote %s\n", out)
			}
			return err
		},
	}

	contrastFlags(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "render.png", "output file; .tif for TIFF, otherwise PNG")
	cmd.Flags().StringVar(&hdrOut, "hdr", "", "also write the composite as a Radiance HDR file")
	cmd.Flags().StringVar(&tonemapper, "tonemap", "", "tonemap the composite instead of clipping it: "+export.ListTonemappers())
	cmd.Flags().IntVar(&channel, "channel", -1, "render this single channel instead of a composite")
	cmd.Flags().IntSliceVar(&rgb, "rgb", nil, "red, green and blue channels for the composite")
	cmd.Flags().StringVar(&palette, "palette", "", "for single channels: "+strings.Join(cube.PaletteNames(), ", "))
	cmd.Flags().IntVar(&thumb, "thumb", 0, "scale down so neither side exceeds this")
	cmd.Flags().StringVar(&title, "title", "", "text drawn onto the render; 'auto' describes it")
	return cmd
}

func spectrumCmd() *cobra.Command {
	var x, y, width, height int
	var plot string

	cmd := &cobra.Command{
		Use:   "spectrum [files and dirs]",
		Short: "Print the spectrum at one pixel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(args)
			if err != nil {
				return err
			}

			points := v.SpectrumAt(x, y)
			if points == nil {
				return fmt.Errorf("(%d,%d) is outside %s", x, y, v.Geometry())
			}
			norm := viewer.Normalized(points)
			for i, p := range points {
				fmt.Printf("%s  %.4f\n", p, norm[i])
			}
			if peak, ok := viewer.Peak(points); ok {
				fmt.Printf("peak: %s\n", peak)
			}

			if plot != "" {
				wl, vals := viewer.Series(points)
				img, err := export.PlotSpectrum(wl, vals, width, height, fmt.Sprintf("(%d,%d)", x, y))
				if err != nil {
					return err
				}
				return export.WritePNG(img, plot)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "pixel column")
	cmd.Flags().IntVar(&y, "y", 0, "pixel row")
	cmd.Flags().StringVar(&plot, "plot", "", "also draw the spectrum into this PNG")
	cmd.Flags().IntVar(&width, "width", 640, "plot width")
	cmd.Flags().IntVar(&height, "height", 400, "plot height")
	return cmd
}

func statsCmd() *cobra.Command {
	var channel int

	cmd := &cobra.Command{
		Use:   "stats [files and dirs]",
		Short: "Print per-channel statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(args)
			if err != nil {
				return err
			}

			res := v.Resolutions()
			for i := range res {
				if channel >= 0 && i != channel {
					continue
				}
				s, err := v.Cube.Stats(i)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s, contrast %s\n", res[i], s, v.ContrastParams(i))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&channel, "channel", -1, "just this channel")
	return cmd
}

func extractCmd() *cobra.Command {
	var out string
	var channels []int
	var interleaved bool
	var bits int

	cmd := &cobra.Command{
		Use:   "extract [files and dirs]",
		Short: "Copy raw channels into a new TIFF",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := load(args)
			if err != nil {
				return err
			}

			opt := tiffio.EncodeOptions{
				Layout:        tiffio.MultiPage,
				BitsPerSample: bits,
				Description:   fmt.Sprintf("channels %v of %s", channels, filepath.Base(v.Path)),
				Software:      "hypercube",
			}
			if interleaved {
				opt.Layout = tiffio.Interleaved
			}
			if err := export.WriteChannels(v.Cube, channels, out, opt); err != nil {
				return err
			}
			log.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "extract.tif", "output TIFF")
	cmd.Flags().IntSliceVar(&channels, "channels", nil, "channels to copy, in order; default all")
	cmd.Flags().BoolVar(&interleaved, "interleaved", false, "one directory with a sample per channel, instead of a page per channel")
	cmd.Flags().IntVar(&bits, "bits", 16, "8 or 16")
	return cmd
}
