// internal/exif/exif.go
package exif

import (
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Details is the subset of EXIF metadata shown next to an image preview
type Details struct {
	Taken  *time.Time
	Camera string
}

// Empty reports whether no detail was found
func (d *Details) Empty() bool {
	return d == nil || (d.Taken == nil && d.Camera == "")
}

// Extract reads capture time and camera make/model from an image stream
func Extract(r io.Reader) (*Details, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}

	d := &Details{}

	if dt, err := x.DateTime(); err == nil {
		d.Taken = &dt
	}

	var camera []string
	for _, field := range []exif.FieldName{exif.Make, exif.Model} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if str, err := tag.StringVal(); err == nil {
			if str = strings.TrimSpace(str); str != "" {
				camera = append(camera, str)
			}
		}
	}
	d.Camera = strings.Join(camera, " ")

	return d, nil
}
