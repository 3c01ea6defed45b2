package spectral

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var (
	enviWavelengths = regexp.MustCompile(`(?is)wavelength\s*=\s*\{([^}]+)\}`)
	enviFWHM        = regexp.MustCompile(`(?is)fwhm\s*=\s*\{([^}]+)\}`)

	enviSeparators = regexp.MustCompile(`[,\s]+`)
	enviJunk       = regexp.MustCompile(`[,;{}\[\]]`)
)

// parseENVI pulls the wavelength list out of an ENVI header. The usual form
// is a brace-delimited list that may span lines; if there is none, it falls
// back to reading "wavelength = ..." and the lines that follow it.
func parseENVI(contents []byte) []Band {
	var values []float64
	if m := enviWavelengths.FindSubmatch(contents); m != nil {
		values = parseValueList(string(m[1]))
	} else {
		values = scanENVILines(contents)
	}

	var deltas []float64
	if m := enviFWHM.FindSubmatch(contents); m != nil {
		deltas = parseValueList(string(m[1]))
	}

	bands := make([]Band, len(values))
	for i, v := range values {
		bands[i] = Band{
			BandNumber:    i + 1,
			Wavelength:    v,
			DetectorIndex: 1,
			Description:   fmt.Sprintf("Band %d", i+1),
		}
		if i < len(deltas) {
			bands[i].WavelengthDelta = deltas[i]
		}
	}
	return bands
}

func parseValueList(s string) []float64 {
	vals := []float64{}
	for _, part := range enviSeparators.Split(enviJunk.ReplaceAllString(s, " "), -1) {
		if v, ok := parseWavelength(part); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// scanENVILines handles headers whose wavelength list isn't closed with a
// brace, or is given inline without one.
func scanENVILines(contents []byte) []float64 {
	vals := []float64{}
	inSection := false

	scanner := bufio.NewScanner(bytes.NewReader(contents))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)

		if key, rest, ok := strings.Cut(line, "="); ok {
			if inSection {
				break // The next field; the list is over.
			}
			if strings.TrimSpace(strings.ToLower(key)) == "wavelength" {
				vals = append(vals, parseValueList(rest)...)
				inSection = true
			}
			continue
		}

		if !inSection {
			continue
		}
		if strings.HasPrefix(line, "}") {
			break
		}
		if line == "" || strings.Contains(lower, "band") {
			continue
		}
		vals = append(vals, parseValueList(line)...)
	}
	return vals
}
