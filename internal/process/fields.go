// BYZRA ⸻ internal/process/fields.go
// sidecar record to exiftool tag assignments

package process

import (
	"strconv"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/exiftool"
	"reclaim/internal/media"
	"reclaim/internal/sidecar"
)

var dateTags = []string{"DateTimeOriginal", "CreateDate", "FileCreateDate", "FileModifyDate"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// dates when known, GPS always, one Keywords per named person, then the profile
func BuildFields(rec *sidecar.Record, loc *time.Location, extra []config.ProfileEntry) []exiftool.Field {
	var fields []exiftool.Field

	if taken, ok := rec.TakenAt(loc); ok {
		for _, tag := range dateTags {
			fields = append(fields, exiftool.Field{Tag: tag, Value: taken})
		}
	}

	fields = append(fields,
		exiftool.Field{Tag: "GPSLatitude", Value: formatFloat(rec.Geo.Latitude)},
		exiftool.Field{Tag: "GPSLongitude", Value: formatFloat(rec.Geo.Longitude)},
		exiftool.Field{Tag: "GPSAltitude", Value: formatFloat(rec.ClampedAltitude())},
	)

	for _, name := range rec.People {
		if name == "" {
			continue
		}
		fields = append(fields, exiftool.Field{Tag: "Keywords", Value: name})
	}

	for _, e := range extra {
		fields = append(fields, exiftool.Field{Tag: e.Tag, Value: e.Value})
	}

	return fields
}

// readback check matching what BuildFields wrote
func expectationFor(kind media.Kind, rec *sidecar.Record, loc *time.Location) exiftool.Expectation {
	want := exiftool.Expectation{GPS: true}
	if taken, ok := rec.TakenAt(loc); ok {
		want.Date = taken
		want.DateTag = "DateTimeOriginal"
		if kind != media.KindImage {
			want.DateTag = "CreateDate"
		}
	}
	return want
}
