package spectral

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const maxWavelength = 50000.0 // nm; anything at or above this is not a wavelength

var (
	commentPrefixes = []string{"#", ";", "//", "*", "%"}
	headerKeywords  = []string{"wavelength", "band", "channel", "nm", "nanometer"}

	plainSeparators = regexp.MustCompile(`[,;\s]+`)
)

// parsePlain reads a list of numbers, any number per line. Every value in
// (0, 50000) becomes a band, numbered from 1 in the order met.
func parsePlain(r io.Reader) ([]Band, error) {
	bands := []Band{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if skipPlainLine(line) {
			continue
		}

		found := false
		for _, part := range plainSeparators.Split(line, -1) {
			if v, ok := parseWavelength(part); ok {
				n := len(bands) + 1
				bands = append(bands, Band{
					BandNumber:    n,
					Wavelength:    v,
					DetectorIndex: 1,
					Description:   fmt.Sprintf("Band %d", n),
				})
				found = true
			}
		}
		if !found {
			log.Debugf("plain sidecar: line %d has no wavelengths: %q", lineNumber, line)
		}
	}

	return bands, scanner.Err()
}

func skipPlainLine(line string) bool {
	if line == "" {
		return true
	}
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	lower := strings.ToLower(line)
	for _, k := range headerKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// parseWavelength accepts a token if it is a number strictly between 0 and 50000.
func parseWavelength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !(v > 0 && v < maxWavelength) {
		return 0, false
	}
	return v, true
}
