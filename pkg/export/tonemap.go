package export

import (
	"fmt"
	"image"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"
	log "github.com/sirupsen/logrus"
)

var (
	Tonemappers = []string{"drago03", "durand", "icam06", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

// NewTonemapper sets up a named operator over img.
func NewTonemapper(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		return tmo.NewDefaultDrago03(img), nil

	case "durand":
		return tmo.NewDefaultDurand(img), nil

	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.MaxClipping = 0.99 // Matches the default 1-2% percentile cut
		return op, nil

	case "linear":
		return tmo.NewLinear(img), nil

	case "reinhard05":
		op := tmo.NewDefaultReinhard05(img)
		op.Chromatic = 0.1
		return op, nil
	}

	return nil, fmt.Errorf("tonemapper %q not recognized, wanted %s", name, ListTonemappers())
}

// Tonemap maps an HDR composite, such as a Radiance, down to a displayable image.
func Tonemap(img hdr.Image, name string) (image.Image, error) {
	op, err := NewTonemapper(name, img)
	if err != nil {
		return nil, err
	}
	log.Debugf("Tonemapping: %s", name)
	return op.Perform(), nil
}
