package spectral

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteEvenlySpaced writes a plain sidecar with n wavelengths spread evenly
// from `from` to `to` nm inclusive. It's a starting point for hand editing.
func WriteEvenlySpaced(w io.Writer, n int, from, to float64) error {
	if n <= 0 {
		return fmt.Errorf("need at least one channel, not %d", n)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Spectral sidecar (.spp)\n")
	fmt.Fprintf(bw, "# One wavelength per line, in nanometres\n")
	fmt.Fprintf(bw, "# Lines starting with # or ; are comments\n")
	fmt.Fprintf(bw, "# Generated for %d channels\n\n", n)

	step := 0.0
	if n > 1 {
		step = (to - from) / float64(n-1)
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(bw, "%.2f\n", from+float64(i)*step)
	}

	return bw.Flush()
}

// WriteTable writes bands as tab separated values, one row per record.
// Unknown (non-positive) values are left blank.
func WriteTable(w io.Writer, bands []Band) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#\tchannel\twavelength_nm\tdelta_nm\toep\tdescription\n")

	blankUnlessPositive := func(v float64, prec int) string {
		if v <= 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', prec, 64)
	}

	for i, b := range bands {
		fmt.Fprintf(bw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			blankUnlessPositive(float64(b.BandNumber), 0),
			blankUnlessPositive(b.Wavelength, 3),
			blankUnlessPositive(b.WavelengthDelta, 3),
			blankUnlessPositive(float64(b.DetectorIndex), 0),
			b.Description)
	}

	return bw.Flush()
}
