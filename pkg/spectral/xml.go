package spectral

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

/* Example of the XML form ...

<?xml version="1.0" encoding="windows-1251"?>
<SPP_ROOT>
  <nRasterBands>120</nRasterBands>
  <WaveLength>
    <ChannelNumber>1</ChannelNumber>
    <WaveLen>401.25</WaveLen>
    <WaveDelta>4.8</WaveDelta>
    <OepNum>1</OepNum>
  </WaveLength>
  ...
</SPP_ROOT>

*/

// waveLength holds the children of a WaveLength element as text, so a
// malformed number spoils just that field.
type waveLength struct {
	ChannelNumber string  `xml:"ChannelNumber"`
	WaveLen       string  `xml:"WaveLen"`
	WaveDelta     string  `xml:"WaveDelta"`
	OepNum        *string `xml:"OepNum"`
}

func (w waveLength) band() Band {
	b := Band{
		BandNumber:      atoi(w.ChannelNumber),
		Wavelength:      atof(w.WaveLen),
		WavelengthDelta: atof(w.WaveDelta),
		DetectorIndex:   1,
	}
	if w.OepNum != nil {
		b.DetectorIndex = atoi(*w.OepNum)
	}
	b.Description = fmt.Sprintf("Channel %d (λ=%.2fnm, Δλ=%.2fnm, OEP=%d)",
		b.BandNumber, b.Wavelength, b.WavelengthDelta, b.DetectorIndex)
	return b
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// parseXML walks the document for WaveLength and nRasterBands elements,
// wherever they are nested. Bands come back sorted by band number.
func parseXML(r io.Reader) ([]Band, int, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(label)
		if err != nil {
			return nil, err
		}
		if enc == nil {
			return nil, fmt.Errorf("charset '%s' not supported", label)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	bands := []Band{}
	rasterBands := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("xml: %v", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "nRasterBands":
			var s string
			if err := dec.DecodeElement(&s, &se); err != nil {
				return nil, 0, fmt.Errorf("xml nRasterBands: %v", err)
			}
			rasterBands = atoi(s)

		case "WaveLength":
			var wl waveLength
			if err := dec.DecodeElement(&wl, &se); err != nil {
				return nil, 0, fmt.Errorf("xml WaveLength: %v", err)
			}
			bands = append(bands, wl.band())
		}
	}

	sort.SliceStable(bands, func(i, j int) bool { return bands[i].BandNumber < bands[j].BandNumber })
	return bands, rasterBands, nil
}
