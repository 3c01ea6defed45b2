package tiffio

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Acquisition holds the descriptive tags a camera or converter left in the
// file. Any of them may be empty.
type Acquisition struct {
	Make        string
	Model       string
	Software    string
	Description string
	DateTime    time.Time
}

func (a Acquisition) String() string {
	s := strings.TrimSpace(a.Make + " " + a.Model)
	if a.Software != "" {
		s += " [" + a.Software + "]"
	}
	if !a.DateTime.IsZero() {
		s += " " + a.DateTime.Format(time.RFC3339)
	}
	if a.Description != "" {
		s += fmt.Sprintf(" %q", a.Description)
	}
	return strings.TrimSpace(s)
}

// ReadAcquisition pulls descriptive tags out of the first directory. Missing
// tags are not an error; a file that can't be parsed as TIFF at all is.
func ReadAcquisition(path string) (Acquisition, error) {
	a := Acquisition{}

	reader, err := os.Open(path)
	if err != nil {
		return a, fmt.Errorf("open+r exif '%s': %v", path, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if ex == nil {
		return a, fmt.Errorf("exif parsing '%s': %v", path, err)
	} else if err != nil && exif.IsCriticalError(err) {
		return a, fmt.Errorf("exif parsing '%s': %v", path, err)
	}

	get := func(name exif.FieldName) string {
		tag, err := ex.Get(name)
		if err != nil {
			return ""
		}
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return strings.TrimRight(s, "\x00 ")
	}

	a.Make = get(exif.Make)
	a.Model = get(exif.Model)
	a.Software = get(exif.Software)
	a.Description = get(exif.ImageDescription)
	if t, err := ex.DateTime(); err == nil {
		a.DateTime = t
	}

	return a, nil
}
